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
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/numaproj/sessionize"
	"github.com/numaproj/sessionize/pkg/errkind"
	"github.com/numaproj/sessionize/pkg/metrics"
	"github.com/numaproj/sessionize/pkg/reduce"
	"github.com/numaproj/sessionize/pkg/shared/logging"
	"github.com/numaproj/sessionize/pkg/window/strategy/session"
)

func NewTagCommand() *cobra.Command {
	return newSessionCommand(reduce.ModeTag, "tag", "Append a session id to every event")
}

func NewCountCommand() *cobra.Command {
	return newSessionCommand(reduce.ModeCount, "count", "Count the sessions of every key")
}

func newSessionCommand(mode reduce.Mode, use, short string) *cobra.Command {
	command := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}
			log := logging.NewLogger().Named(use)
			log.Infow("Starting sessionize", "version", sessionize.GetVersion().Version, "window", cfg.Window.String())
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = logging.WithLogger(ctx, log)
			return runSessions(ctx, mode, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	addRunFlags(command)
	return command
}

func runSessions(ctx context.Context, mode reduce.Mode, cfg *runConfig, stdin io.Reader, stdout io.Writer) error {
	log := logging.FromContext(ctx)
	v := sessionize.GetVersion()
	metrics.BuildInfo.WithLabelValues(v.Version, v.Platform).Set(1)

	ready := atomic.NewBool(false)
	if cfg.MetricsAddr != "" {
		_, shutdown, err := metrics.NewMetricsServer(cfg.MetricsAddr, metrics.WithHealthCheckExecutor(readiness(ready))).Start(ctx)
		if err != nil {
			return fmt.Errorf("failed to start metrics server, %w", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	in, closeIn, err := openInput(cfg.Input, stdin)
	if err != nil {
		return err
	}
	defer closeIn()
	events, err := readEvents(in)
	if err != nil {
		return err
	}
	groups, err := reduce.GroupBy(events, cfg.KeyField)
	if err != nil {
		return err
	}

	opts := []reduce.Option{
		reduce.WithMode(mode),
		reduce.WithParallelism(cfg.Parallelism),
		reduce.WithBatchSize(cfg.BatchSize),
		reduce.WithErrorPolicy(cfg.ErrorPolicy),
		reduce.WithTimestampFormat(cfg.TimestampFormat),
	}
	if cfg.DeterministicIDs {
		opts = append(opts, reduce.WithIDGenerator(session.NewSequenceGenerator("session")))
	}
	p, err := reduce.NewProcessor(cfg.Window, opts...)
	if err != nil {
		return err
	}
	ready.Store(true)
	res, err := p.Process(ctx, groups)
	if err != nil {
		log.Errorw("Failed to process groups", "kind", errkind.KindOf(err).String(), zap.Error(err))
		return err
	}
	if err := res.Err(); err != nil {
		log.Warnw("Some groups were skipped", "skipped", len(res.Failed), zap.Error(err))
	}

	out, closeOut, err := openOutput(cfg.Output, stdout)
	if err != nil {
		return err
	}
	if err := writeResult(out, res); err != nil {
		_ = closeOut()
		return fmt.Errorf("failed to write output, %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}
	stats := p.Stats().Snapshot()
	log.Infow("Finished", "groups", stats.Groups, "failed", stats.Failed, "events", stats.Events, "sessions", stats.Sessions)
	return nil
}

// readiness reports ready once the input has been read and the processor is running.
func readiness(ready *atomic.Bool) func() error {
	return func() error {
		if !ready.Load() {
			return errors.New("processor is not running yet")
		}
		return nil
	}
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input, %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output, %w", err)
	}
	return f, f.Close, nil
}
