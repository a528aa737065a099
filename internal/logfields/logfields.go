// Package logfields holds canonical log field names so keys do not drift
// across packages.
package logfields

import "log/slog"

const (
	KeyInsight  = "insight_id"
	KeyFile     = "file"
	KeyPath     = "path"
	KeyCount    = "count"
	KeyAddr     = "addr"
	KeySubject  = "subject"
	KeyRepo     = "repository"
	KeyDuration = "duration_ms"
	KeyError    = "error"
)

func Insight(id string) slog.Attr   { return slog.String(KeyInsight, id) }
func File(name string) slog.Attr    { return slog.String(KeyFile, name) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }
func Addr(a string) slog.Attr       { return slog.String(KeyAddr, a) }
func Subject(s string) slog.Attr    { return slog.String(KeySubject, s) }
func Repository(r string) slog.Attr { return slog.String(KeyRepo, r) }
func DurationMS(ms float64) slog.Attr {
	return slog.Float64(KeyDuration, ms)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
