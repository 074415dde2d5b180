package errors

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		RetryableErrors: []ErrorCode{
			ErrCodeConnection, ErrCodeTimeout, ErrCodeTransaction, ErrCodeBusy,
		},
	}
}

func TestWithRetry_SucceedsAfterTransientFailure(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		if attempts < 3 {
			return New("op", errors.New("database is locked"), ErrCodeBusy)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithRetry_NonRetryableFailsImmediately(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return New("op", errors.New("bad value"), ErrCodeValidation)
	})

	if err == nil {
		t.Fatal("expected failure")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestWithRetry_UnclassifiedErrorNotRetried(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return errors.New("plain error")
	})

	if err == nil {
		t.Fatal("expected failure")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return New("op", errors.New("busy"), ErrCodeBusy)
	})

	if err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	t.Parallel()

	cfg := fastRetryConfig()
	cfg.InitialDelay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := WithRetry(ctx, cfg, func() error {
		return New("op", errors.New("busy"), ErrCodeBusy)
	})

	if err == nil || !errors.Is(err, context.Canceled) {
		t.Errorf("expected context cancellation, got %v", err)
	}
}
