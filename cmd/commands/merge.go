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

package commands

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vizlog/vizlog/pkg/join"
	"github.com/vizlog/vizlog/pkg/metrics"
	"github.com/vizlog/vizlog/pkg/shared/logging"
	"github.com/vizlog/vizlog/pkg/store"
)

// columnRow is one line of a column file.
type columnRow struct {
	Ts    int64           `json:"ts"`
	Value json.RawMessage `json:"value"`
}

// mergedRecord is one output line, the composite record of a single instant.
type mergedRecord struct {
	Ts     int64                      `json:"ts"`
	Values map[string]json.RawMessage `json:"values"`
}

func NewMergeCommand() *cobra.Command {

	var (
		columns     map[string]string
		required    []string
		optional    []string
		entity      string
		from        int64
		to          int64
		metricsAddr string
	)

	command := &cobra.Command{
		Use:   "merge",
		Short: "Merge attribute column files into composite records",
		Long: `Merge reads one file per attribute column (JSON lines of {"ts": ..., "value": ...}),
aligns them by timestamp and prints one composite record per required tick. Optional
attributes contribute their most recent value as of each tick.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger().Named("merge")
			ctx := logging.WithLogger(context.Background(), logger)

			v := viper.New()
			v.SetEnvPrefix("vizlog")
			v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			v.AutomaticEnv()
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("failed to bind flags, %w", err)
			}
			metricsAddr = v.GetString("metrics-addr")
			entity = v.GetString("entity")
			from = v.GetInt64("from")
			to = v.GetInt64("to")

			if len(columns) == 0 {
				cmd.HelpFunc()(cmd, args)
				return fmt.Errorf("column list should not be empty")
			}
			if len(required) == 0 {
				return fmt.Errorf("at least one required attribute is needed")
			}
			for _, attr := range required {
				if _, ok := columns[attr]; !ok {
					return fmt.Errorf("required attribute %q has no column file", attr)
				}
			}
			if len(optional) == 0 {
				optional = defaultOptional(columns, required)
			}

			if metricsAddr != "" {
				shutdown, err := metrics.StartMetricsServer(ctx, metricsAddr)
				if err != nil {
					return err
				}
				defer func() { _ = shutdown(ctx) }()
			}

			s, err := store.NewStore(logger)
			if err != nil {
				return err
			}
			for attr, path := range columns {
				n, err := loadColumn(s, entity, attr, path)
				if err != nil {
					return fmt.Errorf("failed to load column %q, %w", attr, err)
				}
				logger.Infow("Loaded column", "attribute", attr, "rows", n)
			}

			q, err := s.Query(entity, required, optional, from, to, join.WithName("merge"))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			var emitted int64
			for {
				rec, ok := q.Next()
				if !ok {
					break
				}
				out := mergedRecord{Ts: rec.Index, Values: make(map[string]json.RawMessage, len(required)+len(optional))}
				for i, attr := range required {
					out.Values[attr] = json.RawMessage(rec.Required[i])
				}
				for i, attr := range optional {
					if rec.Optional[i].Ok {
						out.Values[attr] = json.RawMessage(rec.Optional[i].Value)
					}
				}
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("failed to encode record, %w", err)
				}
				emitted++
			}
			logger.Infow("Merge finished", "records", emitted)
			return nil
		},
	}
	command.Flags().StringToStringVar(&columns, "column", map[string]string{}, "Attribute column files, e.g. position=position.jsonl (can be used multiple times)")
	command.Flags().StringSliceVar(&required, "required", []string{}, "Attributes whose columns define the output extent")
	command.Flags().StringSliceVar(&optional, "optional", []string{}, "Attributes carried forward between their updates (defaults to all non-required columns)")
	command.Flags().StringVar(&entity, "entity", "entity", "Entity path the columns belong to")
	command.Flags().Int64Var(&from, "from", 0, "Start of the queried time range (inclusive)")
	command.Flags().Int64Var(&to, "to", math.MaxInt64, "End of the queried time range (inclusive)")
	command.Flags().StringVar(&metricsAddr, "metrics-addr", "", "If set, expose Prometheus metrics on this address")
	return command
}

// defaultOptional returns all column attributes not classified as required, sorted
// for a deterministic slot order.
func defaultOptional(columns map[string]string, required []string) []string {
	isRequired := make(map[string]bool, len(required))
	for _, attr := range required {
		isRequired[attr] = true
	}
	var optional []string
	for attr := range columns {
		if !isRequired[attr] {
			optional = append(optional, attr)
		}
	}
	// map iteration order is random
	sort.Strings(optional)
	return optional
}

// loadColumn appends every line of a column file to the store.
func loadColumn(s *store.Store, entity, attr, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	var n int64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var row columnRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return n, fmt.Errorf("invalid row %q, %w", line, err)
		}
		s.Append(entity, attr, row.Ts, row.Value)
		n++
	}
	return n, scanner.Err()
}
