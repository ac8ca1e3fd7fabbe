package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetry_FirstAttemptSucceeds(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), Config{MaxAttempts: 3}, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("err=%v calls=%d, want success on first attempt", err, calls)
	}
}

func TestWithRetry_RecoversAfterFailure(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), Config{MaxAttempts: 3, Delay: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("err=%v calls=%d, want success on third attempt", err, calls)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	sentinel := errors.New("permanent")
	calls := 0
	err := WithRetry(context.Background(), Config{MaxAttempts: 2, Delay: time.Millisecond}, func() error {
		calls++
		return sentinel
	})
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want the last attempt's error wrapped", err)
	}
}

func TestWithRetry_ZeroAttemptsStillRunsOnce(t *testing.T) {
	calls := 0
	WithRetry(context.Background(), Config{}, func() error {
		calls++
		return errors.New("nope")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want exactly 1", calls)
	}
}

func TestWithRetry_CanceledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := WithRetry(ctx, Config{MaxAttempts: 3}, func() error {
		calls++
		return errors.New("transient")
	})
	if calls != 0 {
		t.Errorf("calls = %d, want 0 with a pre-canceled context", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
