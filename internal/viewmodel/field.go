// Package viewmodel holds the presentation state of the entry list and the
// entry form. View models never return errors to their callers: failures
// end up as flags and codes in the exposed state.
package viewmodel

import (
	"errors"
	"strings"

	"contas/internal/core"
	applog "contas/internal/log"
)

// ErrorCode identifies a field validation failure. Zero means valid.
type ErrorCode int

const (
	CodeNone ErrorCode = iota
	CodeDescriptionRequired
	CodeDateRequired
	CodeAmountRequired
	CodeAmountInvalid
	CodeAmountNegative
	CodeTypeInvalid
)

// MessageCode identifies a one-shot message for the user. Zero means none.
type MessageCode int

const (
	MessageNone MessageCode = iota
	MessageLoadFailed
	MessageSaveFailed
)

// FormField pairs an editable value with its validation result.
type FormField[T any] struct {
	Value     T
	ErrorCode ErrorCode
}

func (f FormField[T]) HasError() bool {
	return f.ErrorCode != CodeNone
}

func (f FormField[T]) IsValid() bool {
	return !f.HasError()
}

func validateDescription(v string) ErrorCode {
	if strings.TrimSpace(v) == "" {
		return CodeDescriptionRequired
	}
	return CodeNone
}

func validateDate(d core.Date) ErrorCode {
	if d.Validate() != nil {
		return CodeDateRequired
	}
	return CodeNone
}

func validateAmount(v string) ErrorCode {
	if strings.TrimSpace(v) == "" {
		return CodeAmountRequired
	}
	if _, err := core.ParseAmount(v); err != nil {
		if errors.Is(err, core.ErrNegativeAmount) {
			return CodeAmountNegative
		}
		return CodeAmountInvalid
	}
	return CodeNone
}

func validateType(v string) ErrorCode {
	if _, err := core.ParseEntryType(v); err != nil {
		return CodeTypeInvalid
	}
	return CodeNone
}

// Option configures a view model.
type Option func(*options)

type options struct {
	logger *applog.Logger
}

// WithLogger sets the logger used to report load and save failures.
func WithLogger(l *applog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: applog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.WithComponent(applog.ComponentViewModel)
	return o
}
