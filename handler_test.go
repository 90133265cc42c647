package stronglambda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/glimte/strong-lambda-go/config"
	"github.com/glimte/strong-lambda-go/contracts"
	"github.com/glimte/strong-lambda-go/hydrate"
	"github.com/glimte/strong-lambda-go/interceptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type customer struct {
	Email string `json:"email"`
}

type order struct {
	ID       string   `json:"id"`
	Customer customer `json:"customer"`
	Note     string   `json:"note,omitempty"`
}

type mockCollector struct {
	mock.Mock
}

func (m *mockCollector) IncrementInvocationCount(handler string) {
	m.Called(handler)
}

func (m *mockCollector) RecordDuration(handler string, duration time.Duration) {
	m.Called(handler, duration)
}

func (m *mockCollector) IncrementErrorCount(handler string, kind string) {
	m.Called(handler, kind)
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, nil)), buf
}

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func orderEvent() map[string]any {
	return map[string]any{
		"id":             "o-1",
		"customer":       map[string]any{"email": "a@b.c"},
		"correlation_id": "corr-1",
	}
}

func returnID(ctx context.Context, o order, logger *slog.Logger) (string, error) {
	return o.ID, nil
}

func TestWrap(t *testing.T) {
	t.Run("Wrap hydrates the contract and returns the business result", func(t *testing.T) {
		logger, _ := captureLogger()
		var got order

		handler := Wrap(func(ctx context.Context, o order, logger *slog.Logger) (string, error) {
			got = o
			return "processed " + o.ID, nil
		}, WithLogger(logger))

		result, err := handler(context.Background(), orderEvent())

		require.NoError(t, err)
		assert.Equal(t, "processed o-1", result)
		assert.Equal(t, order{ID: "o-1", Customer: customer{Email: "a@b.c"}}, got)
	})

	t.Run("Wrap fails with every missing key", func(t *testing.T) {
		logger, _ := captureLogger()
		called := false

		handler := Wrap(func(ctx context.Context, o order, logger *slog.Logger) (string, error) {
			called = true
			return "", nil
		}, WithLogger(logger))

		result, err := handler(context.Background(), map[string]any{"note": "x"})

		assert.Nil(t, result)
		assert.False(t, called)
		assert.True(t, hydrate.IsMissingFields(err))
		assert.EqualError(t, err, "Keys ['id', 'customer:email'] not found in event")
	})

	t.Run("Wrap returns business errors unchanged", func(t *testing.T) {
		logger, _ := captureLogger()
		expected := errors.New("something nasty happened")

		handler := Wrap(func(ctx context.Context, o order, logger *slog.Logger) (string, error) {
			return "", expected
		}, WithLogger(logger))

		result, err := handler(context.Background(), orderEvent())

		assert.Nil(t, result)
		assert.Equal(t, expected, err)
	})

	t.Run("Wrap answers failed custom resource requests with FAILED", func(t *testing.T) {
		logger, _ := captureLogger()
		event := orderEvent()
		event["ResourceProperties"] = map[string]any{}

		handler := Wrap(func(ctx context.Context, o order, logger *slog.Logger) (string, error) {
			return "", errors.New("Something nasty happened")
		}, WithLogger(logger))

		result, err := handler(context.Background(), event)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Status": "FAILED", "Reason": "Something nasty happened"}, result)
	})

	t.Run("Wrap answers custom resource requests missing keys with FAILED", func(t *testing.T) {
		logger, _ := captureLogger()

		handler := Wrap(returnID, WithLogger(logger))

		result, err := handler(context.Background(), map[string]any{"ResourceProperties": map[string]any{}, "customer": map[string]any{"email": "e"}})

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Status": "FAILED", "Reason": "Key ['id'] not found in event"}, result)
	})

	t.Run("Wrap passes successful custom resource results through", func(t *testing.T) {
		logger, _ := captureLogger()
		event := orderEvent()
		event["ResourceProperties"] = map[string]any{}

		result, err := Wrap(returnID, WithLogger(logger))(context.Background(), event)

		require.NoError(t, err)
		assert.Equal(t, "o-1", result)
	})

	t.Run("Wrap turns panics into errors", func(t *testing.T) {
		logger, _ := captureLogger()

		handler := Wrap(func(ctx context.Context, o order, logger *slog.Logger) (string, error) {
			panic("boom")
		}, WithLogger(logger))

		_, err := handler(context.Background(), orderEvent())

		assert.True(t, interceptors.IsPanic(err))
	})

	t.Run("Wrap logs the call without the correlation id", func(t *testing.T) {
		logger, buf := captureLogger()

		_, err := Wrap(returnID, WithLogger(logger))(context.Background(), orderEvent())
		require.NoError(t, err)

		entries := logEntries(t, buf)
		require.Len(t, entries, 2)
		assert.Equal(t, "Calling lambda handler with", entries[0]["msg"])
		assert.Equal(t, map[string]any{"id": "o-1", "customer": map[string]any{"email": "a@b.c"}}, entries[0]["params"])
		assert.NotEmpty(t, entries[0]["invocation_id"])
		assert.Equal(t, "Lambda handler finished with", entries[1]["msg"])
		assert.Equal(t, false, entries[1]["exception_occurred"])
		assert.Equal(t, entries[0]["invocation_id"], entries[1]["invocation_id"])
	})

	t.Run("Wrap logs failures at error level", func(t *testing.T) {
		logger, buf := captureLogger()

		_, _ = Wrap(returnID, WithLogger(logger))(context.Background(), map[string]any{})

		entries := logEntries(t, buf)
		require.Len(t, entries, 2)
		assert.Equal(t, "ERROR", entries[1]["level"])
		assert.Equal(t, true, entries[1]["exception_occurred"])
		assert.Equal(t, "Keys ['id', 'customer:email'] not found in event", entries[1]["exception_object"])
		assert.NotEmpty(t, entries[1]["exception_stacktrace"])
	})

	t.Run("Wrap scopes the logger to the Lambda request", func(t *testing.T) {
		logger, buf := captureLogger()
		ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})

		handler := Wrap(func(ctx context.Context, o order, logger *slog.Logger) (string, error) {
			logger.Info("inside")
			return o.ID, nil
		}, WithLogger(logger))

		_, err := handler(ctx, orderEvent())
		require.NoError(t, err)

		entries := logEntries(t, buf)
		require.Len(t, entries, 3)
		for _, entry := range entries {
			assert.Equal(t, "req-1", entry["aws_request_id"])
			assert.NotContains(t, entry, "invocation_id")
		}
		assert.Equal(t, "inside", entries[1]["msg"])
	})

	t.Run("Wrap uses the correlation key from config", func(t *testing.T) {
		cfg := config.Default()
		cfg.CorrelationKey = "trace"
		logger, buf := captureLogger()

		event := orderEvent()
		event["trace"] = "t-1"

		_, err := Wrap(returnID, WithConfig(cfg), WithLogger(logger))(context.Background(), event)
		require.NoError(t, err)

		entries := logEntries(t, buf)
		params := entries[0]["params"].(map[string]any)
		assert.NotContains(t, params, "trace")
		assert.Contains(t, params, "correlation_id")
	})

	t.Run("Wrap uses the custom resource marker from config", func(t *testing.T) {
		cfg := config.Default()
		cfg.CustomResourceMarker = "Props"
		logger, _ := captureLogger()

		event := orderEvent()
		event["Props"] = map[string]any{}
		delete(event, "id")

		result, err := Wrap(returnID, WithConfig(cfg), WithLogger(logger))(context.Background(), event)

		require.NoError(t, err)
		assert.Equal(t, "FAILED", result.(map[string]any)["Status"])
	})

	t.Run("Wrap validates against an explicit schema", func(t *testing.T) {
		logger, _ := captureLogger()

		result, err := Wrap(returnID, WithSchema(contracts.MustOf[order]()), WithLogger(logger))(context.Background(), orderEvent())

		require.NoError(t, err)
		assert.Equal(t, "o-1", result)
	})

	t.Run("Wrap records metrics under the handler name", func(t *testing.T) {
		logger, _ := captureLogger()
		collector := &mockCollector{}
		collector.On("IncrementInvocationCount", "orders").Return()
		collector.On("RecordDuration", "orders", mock.AnythingOfType("time.Duration")).Return()
		collector.On("IncrementErrorCount", "orders", interceptors.ErrorKindMissingFields).Return()

		_, err := Wrap(returnID, WithName("orders"), WithMetrics(collector), WithLogger(logger))(context.Background(), map[string]any{})

		assert.Error(t, err)
		collector.AssertExpectations(t)
	})

	t.Run("Wrap runs extra interceptors around the business function", func(t *testing.T) {
		logger, _ := captureLogger()
		var seen []string

		tag := interceptors.NewInterceptorFunc("tag", func(ctx context.Context, inv *interceptors.Invocation, next interceptors.Handler) (any, error) {
			seen = append(seen, inv.Name)
			return next.Handle(ctx, inv)
		})

		_, err := Wrap(returnID, WithName("orders"), WithInterceptors(tag), WithLogger(logger))(context.Background(), orderEvent())

		require.NoError(t, err)
		assert.Equal(t, []string{"orders"}, seen)
	})

	t.Run("Wrap hydrates CloudFormation custom resource events", func(t *testing.T) {
		logger, _ := captureLogger()
		raw, err := json.Marshal(cfn.Event{
			RequestType:        cfn.RequestCreate,
			RequestID:          "req",
			ResponseURL:        "https://example.com/response",
			ResourceType:       "Custom::Bucket",
			LogicalResourceID:  "Bucket",
			StackID:            "stack",
			ResourceProperties: map[string]interface{}{"Name": "logs"},
		})
		require.NoError(t, err)

		var event map[string]any
		require.NoError(t, json.Unmarshal(raw, &event))

		handler := Wrap(func(ctx context.Context, req cfn.Event, logger *slog.Logger) (map[string]any, error) {
			return map[string]any{"Name": req.ResourceProperties["Name"], "Type": string(req.RequestType)}, nil
		}, WithLogger(logger))

		result, err := handler(context.Background(), event)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Name": "logs", "Type": "Create"}, result)
	})
}

func TestCustomResourceErrorHandler(t *testing.T) {
	t.Run("CustomResourceErrorHandler converts errors into FAILED responses", func(t *testing.T) {
		handler := CustomResourceErrorHandler(func(ctx context.Context, event map[string]any) (any, error) {
			return nil, errors.New("Something nasty happened")
		})

		result, err := handler(context.Background(), map[string]any{})

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Status": "FAILED", "Reason": "Something nasty happened"}, result)
	})

	t.Run("CustomResourceErrorHandler passes results through", func(t *testing.T) {
		handler := CustomResourceErrorHandler(func(ctx context.Context, event map[string]any) (any, error) {
			return map[string]any{"All": "is good"}, nil
		})

		result, err := handler(context.Background(), map[string]any{})

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"All": "is good"}, result)
	})
}

func TestIsCustomResource(t *testing.T) {
	assert.True(t, IsCustomResource(map[string]any{"ResourceProperties": map[string]any{}}))
	assert.False(t, IsCustomResource(map[string]any{"field1": "test"}))
}
