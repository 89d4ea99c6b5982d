package lifecycle

import (
	"context"
	"testing"
	"time"

	"sessiond/pkg/types"
)

func TestSubscribePrimedWithCurrentState(t *testing.T) {
	m := newTestManager(&fakeEngine{}, supportedHost(), nil)
	ch, cancel := m.Subscribe()
	defer cancel()

	select {
	case snap := <-ch:
		if snap.Initialized || snap.InitProgress.Status != types.InitNotStarted {
			t.Fatalf("unexpected initial snapshot: %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected a primed snapshot")
	}
}

func TestSubscriberSeesTerminalSnapshot(t *testing.T) {
	m := newTestManager(&fakeEngine{}, supportedHost(), nil)
	ch, cancel := m.Subscribe()
	defer cancel()

	if !m.Initialize(context.Background(), "") {
		t.Fatalf("initialize failed")
	}

	// Latest-wins delivery: intermediate snapshots may be dropped, but the
	// terminal one must arrive.
	deadline := time.After(time.Second)
	for {
		select {
		case snap := <-ch:
			if snap.Initialized && snap.InitProgress.Status == types.InitSuccess && snap.InitProgress.Progress == 1 {
				return
			}
		case <-deadline:
			t.Fatalf("never observed the terminal snapshot")
		}
	}
}

func TestCancelClosesSubscription(t *testing.T) {
	m := newTestManager(&fakeEngine{}, supportedHost(), nil)
	ch, cancel := m.Subscribe()
	<-ch
	cancel()
	if _, open := <-ch; open {
		t.Fatalf("expected channel closed after cancel")
	}
	// A broadcast after cancel must not panic.
	m.setProgress(0, "x", types.InitInitializing)
}

func TestFromContextPanicsOutsideScope(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when no manager is attached")
		}
	}()
	FromContext(context.Background())
}

func TestFromContextRoundTrip(t *testing.T) {
	m := newTestManager(&fakeEngine{}, supportedHost(), nil)
	ctx := NewContext(context.Background(), m)
	if got := FromContext(ctx); got != m {
		t.Fatalf("expected the attached manager back")
	}
}
