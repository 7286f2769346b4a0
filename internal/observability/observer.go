// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"go.uber.org/zap"
)

// StandardObserver implements observability for all components
type StandardObserver struct {
	level  ObservabilityLevel
	logger *zap.Logger
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component. A nil logger discards output.
func NewStandardObserver(level ObservabilityLevel, logger *zap.Logger) *StandardObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandardObserver{
		level:  level,
		logger: logger,
	}
}

// Logger returns the underlying zap logger
func (o *StandardObserver) Logger() *zap.Logger {
	return o.logger
}

// Level returns the observability level
func (o *StandardObserver) Level() ObservabilityLevel {
	return o.level
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, target string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Target:     target,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data. Successful operations are only logged in debug
// mode; failures are logged as warnings whenever observability is on.
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o.level == ObservabilityOff {
		return
	}

	fields := []zap.Field{
		zap.String("component", data.Component),
		zap.String("operation", data.Operation),
		zap.Int64("duration_ms", data.DurationMs),
		zap.Bool("success", data.Success),
	}
	if data.Target != "" {
		fields = append(fields, zap.String("target", data.Target))
	}
	if data.Error != "" {
		fields = append(fields, zap.String("error", data.Error))
	}
	if len(data.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", data.Metadata))
	}

	switch {
	case !data.Success:
		o.logger.Warn("operation failed", fields...)
	case o.level == ObservabilityDebug:
		o.logger.Debug("operation completed", fields...)
	}
}

// LogDetail logs a free-form detail in debug mode
func (o *StandardObserver) LogDetail(component, detail string) {
	if o.level != ObservabilityDebug {
		return
	}
	o.logger.Debug(detail, zap.String("component", component))
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string
	Operation  string
	Target     string
	DurationMs int64
	Success    bool
	Error      string
	Metadata   map[string]interface{}
}
