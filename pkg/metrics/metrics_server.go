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

package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/numaproj/sessionize/pkg/shared/logging"
	"github.com/numaproj/sessionize/pkg/shared/util"
)

// EnvPPROF enables the pprof endpoints when set to "true".
const EnvPPROF = "SESSIONIZE_PPROF"

// metricsServer runs an HTTP server to:
// 1. Expose metrics;
// 2. Serve liveness and readiness endpoints
type metricsServer struct {
	addr string
	// Functions that health check executes
	healthCheckExecutors []func() error
}

type Option func(*metricsServer)

// WithHealthCheckExecutor appends a health check executor
func WithHealthCheckExecutor(f func() error) Option {
	return func(m *metricsServer) {
		m.healthCheckExecutors = append(m.healthCheckExecutors, f)
	}
}

// NewMetricsServer returns a Prometheus metrics server listening on addr, e.g. ":9090".
func NewMetricsServer(addr string, opts ...Option) *metricsServer {
	m := &metricsServer{addr: addr}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (ms *metricsServer) handler(log *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		for _, ex := range ms.healthCheckExecutors {
			if err := ex(); err != nil {
				log.Errorw("Failed to execute health check", zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if util.LookupEnvBoolOr(logging.EnvDebug, false) || util.LookupEnvBoolOr(EnvPPROF, false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	} else {
		log.Debug("Not enabling pprof debug endpoints")
	}
	return mux
}

// Start starts the HTTP service to expose metrics, it returns the bound address, a shutdown function and an
// error if the listener could not be created.
func (ms *metricsServer) Start(ctx context.Context) (string, func(ctx context.Context) error, error) {
	log := logging.FromContext(ctx)
	ln, err := net.Listen("tcp", ms.addr)
	if err != nil {
		return "", nil, err
	}
	httpServer := &http.Server{
		Handler:           ms.handler(log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting metrics HTTP server", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("Metrics server stopped unexpectedly", zap.Error(err))
		}
		log.Info("Metrics server shutdown")
	}()
	return ln.Addr().String(), httpServer.Shutdown, nil
}
