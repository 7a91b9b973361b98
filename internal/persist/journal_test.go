package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeWriter struct {
	mu      sync.Mutex
	batches []Batch
	fail    int // fail this many writes before succeeding
	written chan struct{}
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{written: make(chan struct{}, 16)}
}

func (w *fakeWriter) WriteBatch(_ context.Context, b Batch) error {
	w.mu.Lock()
	defer func() {
		w.mu.Unlock()
		w.written <- struct{}{}
	}()
	if w.fail > 0 {
		w.fail--
		return errors.New("db down")
	}
	w.batches = append(w.batches, b)
	return nil
}

func (w *fakeWriter) rows() (deaths, kills, perms int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, b := range w.batches {
		deaths += len(b.Deaths)
		kills += len(b.BossKills)
		perms += len(b.Permissions)
	}
	return
}

func waitWrite(t *testing.T, w *fakeWriter) {
	t.Helper()
	select {
	case <-w.written:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch write")
	}
}

func TestJournalEnqueueFull(t *testing.T) {
	j := NewJournal(newFakeWriter(), 2, zaptest.NewLogger(t))
	if err := j.RecordDeath(DeathRecord{VictimName: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := j.RecordDeath(DeathRecord{VictimName: "b"}); err != nil {
		t.Fatal(err)
	}
	if err := j.RecordDeath(DeathRecord{VictimName: "c"}); !errors.Is(err, ErrJournalFull) {
		t.Fatalf("third enqueue: got %v, want ErrJournalFull", err)
	}
}

func TestJournalFlushWritesOneBatch(t *testing.T) {
	w := newFakeWriter()
	j := NewJournal(w, 16, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	j.RecordDeath(DeathRecord{VictimName: "Man"})
	j.RecordBossKill(BossKillRecord{CharID: 1, BossID: 2215, Count: 3})
	j.RecordPermission(PermissionChange{CharID: 1, Permission: "iron_man", Granted: true})
	j.RequestFlush()
	waitWrite(t, w)

	d, k, p := w.rows()
	if d != 1 || k != 1 || p != 1 {
		t.Fatalf("rows = %d/%d/%d, want 1/1/1", d, k, p)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestJournalRetriesFailedBatch(t *testing.T) {
	w := newFakeWriter()
	w.fail = 1
	j := NewJournal(w, 16, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	j.RecordDeath(DeathRecord{VictimName: "first"})
	j.RequestFlush()
	waitWrite(t, w) // fails

	j.RecordDeath(DeathRecord{VictimName: "second"})
	j.RequestFlush()
	waitWrite(t, w)

	w.mu.Lock()
	if len(w.batches) != 1 || len(w.batches[0].Deaths) != 2 {
		w.mu.Unlock()
		t.Fatalf("batches = %+v, want one batch with both deaths", w.batches)
	}
	if w.batches[0].Deaths[0].VictimName != "first" {
		w.mu.Unlock()
		t.Fatal("retried rows must keep their order")
	}
	w.mu.Unlock()
	cancel()
	<-done
}

func TestJournalCapsRetainedRows(t *testing.T) {
	w := newFakeWriter()
	w.fail = 2
	j := NewJournal(w, 2, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	for _, names := range [][]string{{"a", "b"}, {"c", "d"}} {
		for _, n := range names {
			if err := j.RecordDeath(DeathRecord{VictimName: n}); err != nil {
				t.Fatal(err)
			}
		}
		j.RequestFlush()
		waitWrite(t, w) // fails
	}

	j.RequestFlush()
	waitWrite(t, w)
	if got := j.Dropped(); got != 2 {
		t.Fatalf("dropped = %d, want 2", got)
	}
	w.mu.Lock()
	if len(w.batches) != 1 || len(w.batches[0].Deaths) != 2 ||
		w.batches[0].Deaths[0].VictimName != "c" || w.batches[0].Deaths[1].VictimName != "d" {
		w.mu.Unlock()
		t.Fatalf("batches = %+v, want the two newest deaths", w.batches)
	}
	w.mu.Unlock()
	cancel()
	<-done
}

func TestRetainDropsDeathsBeforePermissions(t *testing.T) {
	j := NewJournal(newFakeWriter(), 2, zaptest.NewLogger(t))
	b := Batch{
		Deaths:      []DeathRecord{{VictimName: "a"}, {VictimName: "b"}},
		BossKills:   []BossKillRecord{{BossID: 2215, Count: 4}},
		Permissions: []PermissionChange{{CharID: 1, Permission: "iron_man", Granted: true}},
	}
	b = j.retain(b)
	if len(b.Deaths) != 0 || len(b.BossKills) != 1 || len(b.Permissions) != 1 {
		t.Fatalf("retained = %+v", b)
	}
	if j.Dropped() != 2 {
		t.Fatalf("dropped = %d, want 2", j.Dropped())
	}
}

func TestJournalFinalFlushOnShutdown(t *testing.T) {
	w := newFakeWriter()
	j := NewJournal(w, 16, zaptest.NewLogger(t))
	j.RecordDeath(DeathRecord{VictimName: "queued before run"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := j.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if d, _, _ := w.rows(); d != 1 {
		t.Fatalf("deaths written on shutdown = %d, want 1", d)
	}
}
