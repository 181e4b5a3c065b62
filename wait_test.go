package fluent

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wanmail/fluent/log"
)

func newWaitSession() *Session {
	return NewSession(&fakeDoc{}, WithLogger(log.Discard))
}

func TestWaitUntilSucceeds(t *testing.T) {
	s := newWaitSession()
	calls := 0
	err := s.WaitUntil(context.Background(), func() (bool, error) {
		calls++
		if calls < 3 {
			return false, &ExpectationFailedError{Message: "not yet"}
		}
		return true, nil
	}, time.Second, time.Millisecond)
	if err != nil {
		t.Fatalf("WaitUntil() returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("condition called %d times, want 3", calls)
	}
}

func TestWaitUntilTimeout(t *testing.T) {
	const (
		timeout  = 200 * time.Millisecond
		interval = 20 * time.Millisecond
	)
	r := new(log.Recorder)
	s := NewSession(&fakeDoc{}, WithLogger(r))

	calls := 0
	start := time.Now()
	err := s.WaitUntil(context.Background(), func() (bool, error) {
		calls++
		return false, &ExpectationFailedError{Message: fmt.Sprintf("attempt %d", calls)}
	}, timeout, interval)
	elapsed := time.Since(start)

	var efe *ExpectationFailedError
	if !errors.As(err, &efe) {
		t.Fatalf("WaitUntil() returned %v, want *ExpectationFailedError", err)
	}
	if got, want := efe.Message, fmt.Sprintf("attempt %d", calls); got != want {
		t.Errorf("WaitUntil() returned %q, want the final failure %q", got, want)
	}
	if elapsed < timeout {
		t.Errorf("WaitUntil() returned after %v, want at least %v", elapsed, timeout)
	}
	if max := int(timeout/interval) + 2; calls < 2 || calls > max {
		t.Errorf("condition called %d times, want between 2 and %d", calls, max)
	}
	if len(r.Lines) != calls {
		t.Errorf("%d trace lines for %d failed attempts", len(r.Lines), calls)
	}
}

func TestWaitUntilFalseTimesOut(t *testing.T) {
	s := newWaitSession()
	err := s.WaitUntil(context.Background(), func() (bool, error) { return false, nil }, 30*time.Millisecond, 10*time.Millisecond)
	if !IsExpectationFailed(err) {
		t.Errorf("WaitUntil() returned %v, want an expectation failure", err)
	}
}

func TestWaitUntilFatal(t *testing.T) {
	s := newWaitSession()
	lost := &CommandExecutionError{Err: fmt.Errorf("invalid session id: %w", ErrSessionLost)}
	calls := 0
	start := time.Now()
	err := s.WaitUntil(context.Background(), func() (bool, error) {
		calls++
		return false, lost
	}, 10*time.Second, time.Millisecond)
	if err != lost {
		t.Errorf("WaitUntil() returned %v, want %v", err, lost)
	}
	if calls != 1 {
		t.Errorf("condition called %d times after a fatal error, want 1", calls)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("WaitUntil() took %v to give up on a fatal error", elapsed)
	}
}

func TestWaitUntilCancel(t *testing.T) {
	s := newWaitSession()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := s.WaitUntil(ctx, func() (bool, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return false, errors.New("not yet")
	}, 10*time.Second, time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("WaitUntil() returned %v, want context.Canceled", err)
	}
	if calls != 2 {
		t.Errorf("condition called %d times, want 2", calls)
	}
}

func TestWaitUntilInvalidArguments(t *testing.T) {
	s := newWaitSession()
	cond := func() (bool, error) { return true, nil }
	tests := []struct {
		desc              string
		timeout, interval time.Duration
	}{
		{"zero timeout", 0, time.Millisecond},
		{"negative timeout", -time.Second, time.Millisecond},
		{"negative interval", time.Second, -time.Millisecond},
	}
	for _, test := range tests {
		err := s.WaitUntil(context.Background(), cond, test.timeout, test.interval)
		var iae *InvalidArgumentError
		if !errors.As(err, &iae) {
			t.Errorf("%s: WaitUntil() returned %v, want *InvalidArgumentError", test.desc, err)
		}
	}
}

func TestWaitWithExpectation(t *testing.T) {
	doc := &fakeDoc{elems: map[string][]*fakeElem{}}
	s := NewSession(doc, WithLogger(log.Discard), WithWaitTimeout(time.Second), WithWaitInterval(time.Millisecond))

	calls := 0
	err := s.Wait(context.Background(), Check(func() error {
		calls++
		if calls == 3 {
			doc.elems["#total"] = []*fakeElem{div("$197.70", nil)}
		}
		return s.Expect().Text("$197.70", s.Find("#total"))
	}))
	if err != nil {
		t.Fatalf("Wait() returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expectation evaluated %d times, want 3", calls)
	}
}
