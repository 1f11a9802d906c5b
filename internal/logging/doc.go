// Package logging builds the slog loggers used by capturesort.
//
// Two formats are supported. The console format writes one line per record
// prefixed with a bracketed local timestamp, the level and the message,
// followed by flattened key=value attributes. The json format delegates to
// slog.JSONHandler with short ts/level/msg keys for log shippers.
package logging
