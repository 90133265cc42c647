// Package rabbitmq runs wrapped handlers against a RabbitMQ queue, so the
// same contract code can serve queue consumers outside Lambda.
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	stronglambda "github.com/glimte/strong-lambda-go"
	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp.Channel the runner uses
type Channel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Runner feeds deliveries from a queue to a handler
type Runner struct {
	ch             Channel
	handler        stronglambda.Handler
	prefetchCount  int
	consumerTag    string
	requeueOnError bool
	timeout        time.Duration
	logger         *slog.Logger
}

// RunnerOption configures the runner
type RunnerOption func(*Runner)

// WithPrefetchCount sets the prefetch count
func WithPrefetchCount(count int) RunnerOption {
	return func(r *Runner) {
		r.prefetchCount = count
	}
}

// WithConsumerTag sets the consumer tag
func WithConsumerTag(tag string) RunnerOption {
	return func(r *Runner) {
		r.consumerTag = tag
	}
}

// WithRequeueOnError controls whether failed deliveries go back on the queue
func WithRequeueOnError(requeue bool) RunnerOption {
	return func(r *Runner) {
		r.requeueOnError = requeue
	}
}

// WithHandlerTimeout bounds each handler call
func WithHandlerTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a new runner
func NewRunner(ch Channel, handler stronglambda.Handler, options ...RunnerOption) *Runner {
	r := &Runner{
		ch:             ch,
		handler:        handler,
		prefetchCount:  10,
		requeueOnError: true,
		timeout:        30 * time.Second,
		logger:         slog.Default(),
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

// Run consumes queue until ctx is cancelled or the broker closes the
// delivery channel. Cancellation returns nil.
func (r *Runner) Run(ctx context.Context, queue string) error {
	if r.ch == nil || r.handler == nil {
		return fmt.Errorf("%w: runner needs a channel and a handler", ErrInvalidConfiguration)
	}

	if err := r.ch.Qos(r.prefetchCount, 0, false); err != nil {
		return &ConsumerError{Queue: queue, ConsumerTag: r.consumerTag, Op: "qos", Err: err}
	}

	deliveries, err := r.ch.Consume(queue, r.consumerTag, false, false, false, false, nil)
	if err != nil {
		return &ConsumerError{Queue: queue, ConsumerTag: r.consumerTag, Op: "consume", Err: err}
	}

	r.logger.Info("subscribed to queue",
		"queue", queue,
		"consumerTag", r.consumerTag,
		"prefetchCount", r.prefetchCount,
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("consumer stopped", "queue", queue)
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				r.logger.Warn("delivery channel closed", "queue", queue)
				return ErrDeliveriesClosed
			}

			if err := r.handle(ctx, delivery); err != nil {
				r.logger.Error("failed to handle message",
					"error", err,
					"queue", queue,
					"messageId", delivery.MessageId,
				)
			}
		}
	}
}

// handle runs one delivery through the handler and settles it. Results and
// final failures are published to ReplyTo; a requeued failure is not.
func (r *Runner) handle(ctx context.Context, delivery amqp.Delivery) error {
	var event map[string]any
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		decodeErr := &DecodeError{MessageID: delivery.MessageId, Err: err}
		r.reply(ctx, delivery, errorBody(decodeErr))
		r.nack(delivery, false, decodeErr)
		return decodeErr
	}

	msgCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.handler(msgCtx, event)
	if err != nil {
		if !r.requeueOnError {
			r.reply(ctx, delivery, errorBody(err))
		}
		r.nack(delivery, r.requeueOnError, err)
		return err
	}

	r.reply(ctx, delivery, result)
	if ackErr := delivery.Ack(false); ackErr != nil {
		r.logger.Error("failed to ack message", "error", ackErr)
	}
	return nil
}

func (r *Runner) nack(delivery amqp.Delivery, requeue bool, cause error) {
	if nackErr := delivery.Nack(false, requeue); nackErr != nil {
		r.logger.Error("failed to nack message",
			"error", nackErr,
			"originalError", cause,
		)
	}
}

func (r *Runner) reply(ctx context.Context, delivery amqp.Delivery, payload any) {
	if delivery.ReplyTo == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("failed to encode reply", "error", err, "messageId", delivery.MessageId)
		return
	}

	err = r.ch.PublishWithContext(ctx, "", delivery.ReplyTo, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: delivery.CorrelationId,
		Timestamp:     time.Now(),
		Body:          body,
	})
	if err != nil {
		r.logger.Error("failed to publish reply",
			"error", err,
			"replyTo", delivery.ReplyTo,
			"messageId", delivery.MessageId,
		)
	}
}

func errorBody(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}
