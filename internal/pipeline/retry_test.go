package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/starman154/syllabus-scanner-server/internal/extract"
)

func TestIsRetryable(t *testing.T) {
	retryable := &extract.RetryableError{StatusCode: 429, Message: "rate limited"}
	if !IsRetryable(retryable) {
		t.Error("expected 429 to be retryable")
	}
	if !IsRetryable(fmt.Errorf("wrapped: %w", retryable)) {
		t.Error("expected wrapped retryable error to be retryable")
	}
	if IsRetryable(errors.New("bad request")) {
		t.Error("expected plain error to not be retryable")
	}
	if IsRetryable(nil) {
		t.Error("expected nil to not be retryable")
	}
}

func TestCallModel_Success(t *testing.T) {
	got, err := callModel(context.Background(), time.Second, func(ctx context.Context) (string, error) {
		return "response", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "response" {
		t.Errorf("expected %q, got %q", "response", got)
	}
}

func TestCallModel_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	_, err := callModel(context.Background(), time.Second, func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("invalid request")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt for a non-retryable error, got %d", calls)
	}
}

func TestCallModel_RetriesOnceOnRetryable(t *testing.T) {
	calls := 0
	got, err := callModel(context.Background(), time.Second, func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", &extract.RetryableError{StatusCode: 529, Message: "overloaded"}
		}
		return "second try", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "second try" {
		t.Errorf("expected recovery on retry, got %q", got)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestCallModel_AttemptTimeout(t *testing.T) {
	_, err := callModel(context.Background(), 20*time.Millisecond, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
