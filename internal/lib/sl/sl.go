// Package sl holds small helpers for building structured slog fields.
package sl

import "log/slog"

// Err returns a slog.Attr with key "error" and the error text as value, so
// failures are logged under one uniform key.
//
// Example:
//
//	log.Error("failed to fetch profile", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
