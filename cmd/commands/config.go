/*
Copyright 2022 The Numaproj Authors.

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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/numaproj/sessionize/pkg/event"
	"github.com/numaproj/sessionize/pkg/reduce"
	"github.com/numaproj/sessionize/pkg/window"
)

// EnvPrefix prefixes every environment variable overriding a flag, e.g. SESSIONIZE_WINDOW.
const EnvPrefix = "SESSIONIZE"

const (
	flagConfig           = "config"
	flagWindow           = "window"
	flagTimestampFormat  = "timestamp-format"
	flagKeyField         = "key-field"
	flagParallelism      = "parallelism"
	flagBatchSize        = "batch-size"
	flagErrorPolicy      = "error-policy"
	flagDeterministicIDs = "deterministic-ids"
	flagMetricsAddr      = "metrics-addr"
	flagInput            = "input"
	flagOutput           = "output"
)

// runConfig is the resolved configuration of one run.
type runConfig struct {
	Window           window.Spec
	TimestampFormat  event.TimestampFormat
	KeyField         int
	Parallelism      int
	BatchSize        int
	ErrorPolicy      reduce.ErrorPolicy
	DeterministicIDs bool
	MetricsAddr      string
	Input            string
	Output           string
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagConfig, "", "Path to a yaml or json config file")
	cmd.Flags().StringP(flagWindow, "w", "30m", "Idle-gap threshold, e.g. 30m, 10s, 1h, 2d")
	cmd.Flags().String(flagTimestampFormat, string(event.ISO8601), "Timestamp representation, 'iso8601' or 'epoch-millis'")
	cmd.Flags().IntP(flagKeyField, "k", 1, "Index of the field holding the group key")
	cmd.Flags().IntP(flagParallelism, "p", 4, "Number of slots processing groups concurrently")
	cmd.Flags().Int(flagBatchSize, 0, "Events fed per call to a group's accumulator, 0 feeds the whole group")
	cmd.Flags().String(flagErrorPolicy, string(reduce.FailFast), "What a failed group does to the run, 'fail-fast' or 'skip-group'")
	cmd.Flags().Bool(flagDeterministicIDs, false, "Use sequential session ids instead of random UUIDs")
	cmd.Flags().String(flagMetricsAddr, "", "Serve Prometheus metrics on this address while running, e.g. :9090")
	cmd.Flags().StringP(flagInput, "i", "-", "Input file of JSON lines, '-' for stdin")
	cmd.Flags().StringP(flagOutput, "o", "-", "Output file of JSON lines, '-' for stdout")
}

// loadRunConfig resolves flags, SESSIONIZE_* environment variables and the optional config file, in
// that order of precedence.
func loadRunConfig(cmd *cobra.Command) (*runConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if file := v.GetString(flagConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load configuration file %q, %w", file, err)
		}
	}

	spec, err := window.ParseSpec(v.GetString(flagWindow))
	if err != nil {
		return nil, err
	}
	format, err := event.ParseTimestampFormat(v.GetString(flagTimestampFormat))
	if err != nil {
		return nil, err
	}
	policy, err := reduce.ParseErrorPolicy(v.GetString(flagErrorPolicy))
	if err != nil {
		return nil, err
	}
	keyField := v.GetInt(flagKeyField)
	if keyField < 1 {
		return nil, fmt.Errorf("invalid %s %d, field 0 is the timestamp", flagKeyField, keyField)
	}
	return &runConfig{
		Window:           spec,
		TimestampFormat:  format,
		KeyField:         keyField,
		Parallelism:      v.GetInt(flagParallelism),
		BatchSize:        v.GetInt(flagBatchSize),
		ErrorPolicy:      policy,
		DeterministicIDs: v.GetBool(flagDeterministicIDs),
		MetricsAddr:      v.GetString(flagMetricsAddr),
		Input:            v.GetString(flagInput),
		Output:           v.GetString(flagOutput),
	}, nil
}
