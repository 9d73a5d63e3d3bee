// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package and stamps every record with the
// environment and the hostname of the serving instance.
package logger
