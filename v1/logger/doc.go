// Package logger provides structured logging for the tasksearch service.
//
// The package follows the "accept interfaces, return structs" pattern:
//   - Logger interface: the contract other packages depend on
//   - LoggerClient struct: the zap-backed implementation
//   - NewLoggerClient constructor: returns *LoggerClient
//   - FXModule: provides both *LoggerClient and Logger
//
// # Direct Usage
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         "info",
//		ServiceName:   "tasksearch",
//		EnableTracing: true,
//	})
//
//	log.Info("Task created", nil, map[string]interface{}{
//		"task_id": 42,
//	})
//
//	// trace_id and span_id are added when ctx carries a recording span
//	log.ErrorWithContext(ctx, "Embedding call failed", err, nil)
//
// # Configuration
//
//	LOG_LEVEL=debug            # debug, info, warning, error
//	SERVICE_NAME=tasksearch    # value of the "service" field
//	LOG_ENABLE_TRACING=true    # trace correlation for *WithContext methods
//
// # Tests
//
// mock_logger.go holds a gomock MockLogger generated from interface.go.
// Tests that want to inspect output wrap an observer core with NewFromZap.
package logger
