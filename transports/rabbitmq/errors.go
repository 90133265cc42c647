package rabbitmq

import (
	"errors"
	"fmt"
)

var (
	// ErrDeliveriesClosed is returned by Run when the broker closes the
	// delivery channel.
	ErrDeliveriesClosed = errors.New("rabbitmq: delivery channel closed")
	// ErrInvalidConfiguration is returned for a runner without channel or handler
	ErrInvalidConfiguration = errors.New("rabbitmq: invalid configuration")
)

// ConsumerError represents a consumer-related error
type ConsumerError struct {
	Queue       string // Queue name
	ConsumerTag string // Consumer tag
	Op          string // Operation that failed
	Err         error  // Underlying error
}

func (e *ConsumerError) Error() string {
	return fmt.Sprintf("rabbitmq consumer error: %s failed for consumer %s on queue %s: %v",
		e.Op, e.ConsumerTag, e.Queue, e.Err)
}

func (e *ConsumerError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a delivery body is not a JSON object
type DecodeError struct {
	MessageID string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rabbitmq: cannot decode delivery %s: %v", e.MessageID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
