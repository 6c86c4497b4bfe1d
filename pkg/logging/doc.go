// Package logging provides a structured logging system for the composition
// engine that supports both direct (CLI) output and a buffered capture mode,
// with unified log handling and subsystem-tagged formatting.
//
// This package implements a dual-mode logging architecture that can operate
// in either direct mode (writes straight to an io.Writer) or capture mode
// (log entries are sent over a channel instead), enabling the same call
// sites to be used from a command-line invocation and from an embedding
// caller that wants to collect diagnostics programmatically (e.g. a test,
// or a future MCP server wrapping this engine).
//
// # Architecture
//
// ## Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// ## Execution Modes
//   - **Direct Mode**: Logging straight to a specified output writer (stdout/stderr)
//   - **Capture Mode**: Logging via a buffered channel for a consuming caller
//
// ## Structured Logging
// All log entries include:
//   - Timestamp with nanosecond precision
//   - Log level (Debug, Info, Warn, Error)
//   - Subsystem identifier for categorization
//   - Message content with optional formatting
//   - Optional error information
//
// # Usage
//
//	import "github.com/wasmcp/wasmcp/pkg/logging"
//
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//
//	logging.Info("resolve", "resolved %q to %s", spec, path)
//	logging.Debug("pkgclient", "cache hit for %s", cacheKey)
//	logging.Warn("introspect", "component exports no interfaces at all")
//	logging.Error("graph", err, "failed to wire %s into %s", export, slot)
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering and categorization;
// the subsystems used by this engine are "resolve", "pkgclient",
// "composition", "wrap", "graph", "store", and "compose".
package logging
