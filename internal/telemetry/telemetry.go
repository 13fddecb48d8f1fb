// Copyright 2025 The txsched Authors
// This file is part of the txsched library.
//
// The txsched library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The txsched library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the txsched library. If not, see <http://www.gnu.org/licenses/>.

// Package telemetry builds the single process-wide *zap.Logger the rest of
// this module hands child loggers down from: construct once, pass a handle
// down.
package telemetry

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide logger: a development console encoder when
// TXSCHED_ENV=dev, a production JSON encoder otherwise. computebudget never
// receives one of these; it must stay side-effect-free beyond constructing
// its output, so no logger is threaded through it.
func New() *zap.Logger {
	var logger *zap.Logger
	var err error
	if os.Getenv("TXSCHED_ENV") == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Named returns a child logger scoped to component, defaulting to a no-op
// logger if base is nil so callers never need their own nil check.
func Named(base *zap.Logger, component string) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(component)
}
