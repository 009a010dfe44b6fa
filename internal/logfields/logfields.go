package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyClient     = "client"
	KeyDepot      = "depot"
	KeyPath       = "path"
	KeyStep       = "step"
	KeyTool       = "tool"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeyUpdate     = "update"
	KeyCommit     = "commit"
	KeyBranch     = "branch"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Client(name string) slog.Attr    { return slog.String(KeyClient, name) }
func Depot(path string) slog.Attr     { return slog.String(KeyDepot, path) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Tool(name string) slog.Attr      { return slog.String(KeyTool, name) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Update(u bool) slog.Attr         { return slog.Bool(KeyUpdate, u) }
func Commit(hash string) slog.Attr    { return slog.String(KeyCommit, hash) }
func Branch(name string) slog.Attr    { return slog.String(KeyBranch, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
