package interceptors

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

// PanicError carries a panic recovered from a handler
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// Unwrap returns the panic value when it was an error
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsPanic reports whether err is or wraps a PanicError
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// RecoveryInterceptor turns handler panics into PanicError values
type RecoveryInterceptor struct{}

// NewRecoveryInterceptor creates a new recovery interceptor
func NewRecoveryInterceptor() *RecoveryInterceptor {
	return &RecoveryInterceptor{}
}

// Intercept implements Interceptor
func (i *RecoveryInterceptor) Intercept(ctx context.Context, inv *Invocation, next Handler) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	return next.Handle(ctx, inv)
}

// Name implements Interceptor
func (i *RecoveryInterceptor) Name() string {
	return "RecoveryInterceptor"
}
