package executor

import (
	"errors"
	"fmt"

	"github.com/genricoloni/weatherdesk/internal/domain"
)

// FailureKind classifies why a wallpaper could not be applied
type FailureKind int

const (
	// UnsupportedEnvironment means no dispatch branch exists for the environment
	UnsupportedEnvironment FailureKind = iota + 1
	// ToolInvocationFailed means an external command was missing or exited non-zero
	ToolInvocationFailed
	// ConfigWriteFailed means a config file or generated script could not be written
	ConfigWriteFailed
)

var (
	ErrUnsupportedEnvironment = errors.New("unsupported desktop environment")
	ErrToolInvocationFailed   = errors.New("tool invocation failed")
	ErrConfigWriteFailed      = errors.New("config write failed")
)

func (k FailureKind) String() string {
	switch k {
	case UnsupportedEnvironment:
		return "UnsupportedEnvironment"
	case ToolInvocationFailed:
		return "ToolInvocationFailed"
	case ConfigWriteFailed:
		return "ConfigWriteFailed"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case UnsupportedEnvironment:
		return ErrUnsupportedEnvironment
	case ToolInvocationFailed:
		return ErrToolInvocationFailed
	case ConfigWriteFailed:
		return ErrConfigWriteFailed
	default:
		return nil
	}
}

// DispatchError is the failure outcome of Dispatcher.Apply
type DispatchError struct {
	Kind FailureKind
	Env  domain.DesktopEnvironment
	Err  error
}

func (e *DispatchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Env, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %s: %v", e.Env, e.Kind.sentinel(), e.Err)
}

// Unwrap exposes both the sentinel for the kind and the underlying cause
func (e *DispatchError) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the failure kind of err, or 0 when err is not a DispatchError
func KindOf(err error) FailureKind {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func toolFailed(env domain.DesktopEnvironment, err error) error {
	return &DispatchError{Kind: ToolInvocationFailed, Env: env, Err: err}
}

func writeFailed(env domain.DesktopEnvironment, err error) error {
	return &DispatchError{Kind: ConfigWriteFailed, Env: env, Err: err}
}
