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

// Package logging provides the zap logger shared by the processor and the CLI.
package logging

import (
	"context"

	zap "go.uber.org/zap"

	"github.com/numaproj/sessionize/pkg/shared/util"
)

// EnvDebug switches the logger to the development configuration when set to "true".
const EnvDebug = "SESSIONIZE_DEBUG"

// EnvLogLevel overrides the minimum log level, e.g. "warn". Unknown levels are ignored.
const EnvLogLevel = "SESSIONIZE_LOG_LEVEL"

// NewLogger returns a new zap.SugaredLogger
func NewLogger() *zap.SugaredLogger {
	var config zap.Config
	if util.LookupEnvBoolOr(EnvDebug, false) {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	if lvl := util.LookupEnvStringOr(EnvLogLevel, ""); lvl != "" {
		_ = config.Level.UnmarshalText([]byte(lvl))
	}
	// stdout carries the data output of the CLI, logs go to stderr
	config.OutputPaths = []string{"stderr"}
	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return logger.Named("sessionize").Sugar()
}

type loggerKey struct{}

// WithLogger returns a copy of parent context in which the
// value associated with logger key is the supplied logger.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger in the context.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return logger
	}
	return NewLogger()
}
