/*
Copyright 2022 The Vizlog Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vizlog/vizlog/pkg/shared/logging"
)

// StartMetricsServer starts an HTTP server exposing the Prometheus metrics and a
// liveness endpoint. It returns a shutdown function to be deferred by the caller.
func StartMetricsServer(ctx context.Context, addr string) (func(ctx context.Context) error, error) {
	log := logging.FromContext(ctx)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	listenErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()
	// give an immediate bind failure a chance to surface
	select {
	case err := <-listenErr:
		return nil, fmt.Errorf("failed to start metrics server, %w", err)
	case <-time.After(100 * time.Millisecond):
	}
	log.Infof("Metrics server is listening on %s", addr)
	return httpServer.Shutdown, nil
}
