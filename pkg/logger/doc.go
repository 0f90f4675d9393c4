// Package logger provides structured logging on top of log/slog with
// configurable levels and an environment dependent output format.
package logger
