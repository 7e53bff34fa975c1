package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPass       = "pass"
	KeyPriority   = "priority"
	KeyComponent  = "component"
	KeyGroup      = "group"
	KeyBreakpoint = "breakpoint"
	KeyStep       = "step"
	KeyAsset      = "asset"
	KeyInput      = "input"
	KeyPath       = "path"
	KeyNode       = "node"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Pass(name string) slog.Attr      { return slog.String(KeyPass, name) }
func Priority(p int) slog.Attr        { return slog.Int(KeyPriority, p) }
func Component(n string) slog.Attr    { return slog.String(KeyComponent, n) }
func Group(n string) slog.Attr        { return slog.String(KeyGroup, n) }
func Breakpoint(bp string) slog.Attr  { return slog.String(KeyBreakpoint, bp) }
func Step(s string) slog.Attr         { return slog.String(KeyStep, s) }
func Asset(p string) slog.Attr        { return slog.String(KeyAsset, p) }
func Input(p string) slog.Attr        { return slog.String(KeyInput, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Node(id string) slog.Attr        { return slog.String(KeyNode, id) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
