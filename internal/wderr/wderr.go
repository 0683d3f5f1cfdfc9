// Package wderr defines the error-kind taxonomy used across the widget
// daemon so callers can branch on fatal-vs-recoverable without string
// matching log messages.
package wderr

import "errors"

// Kind classifies an error per the policy table in the specification.
type Kind int

const (
	// KindUnknown is the zero value; never intentionally returned.
	KindUnknown Kind = iota
	// KindStartupMissingGlobal: a required Wayland global was not advertised. Fatal.
	KindStartupMissingGlobal
	// KindConfigParse: the config file could not be parsed. Recoverable.
	KindConfigParse
	// KindConfigValidate: the config parsed but failed validation. Recoverable.
	KindConfigValidate
	// KindBufferAlloc: shared-memory allocation/mapping failed.
	KindBufferAlloc
	// KindProtocolLost: the Wayland connection was lost. Fatal.
	KindProtocolLost
	// KindWidgetTick: a widget's own tick logic failed. Widget-local.
	KindWidgetTick
	// KindActionExec: a pointer-triggered action (open URL, run command) failed. Non-fatal.
	KindActionExec
	// KindFileWatch: the file watcher failed to initialize. Degrades gracefully.
	KindFileWatch
)

func (k Kind) String() string {
	switch k {
	case KindStartupMissingGlobal:
		return "startup_missing_global"
	case KindConfigParse:
		return "config_parse"
	case KindConfigValidate:
		return "config_validate"
	case KindBufferAlloc:
		return "buffer_alloc"
	case KindProtocolLost:
		return "protocol_lost"
	case KindWidgetTick:
		return "widget_tick"
	case KindActionExec:
		return "action_exec"
	case KindFileWatch:
		return "file_watch"
	default:
		return "unknown"
	}
}

// Fatal reports whether errors of this kind should terminate the process.
func (k Kind) Fatal() bool {
	switch k {
	case KindStartupMissingGlobal, KindProtocolLost:
		return true
	default:
		return false
	}
}

// Error wraps an underlying cause with a Kind and, for config errors, the
// offending field name.
type Error struct {
	Kind  Kind
	Field string // populated for KindConfigValidate
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Kind.String() + ": field " + e.Field + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// NewField wraps err with kind and the offending config field name.
func NewField(kind Kind, field string, err error) *Error {
	return &Error{Kind: kind, Field: field, Err: err}
}

// KindOf extracts the Kind from err, or KindUnknown if err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
