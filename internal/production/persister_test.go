package production

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/outpace/corotick"
)

func TestJSONPersisterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := NewJSONPersister(dir)
	if err != nil {
		t.Fatalf("NewJSONPersister: %v", err)
	}

	snap := corotick.ExecutorSnapshot{
		Time: 3 * time.Second,
		Threads: [][]corotick.FrameSnapshot{
			{
				{MethodID: corotick.NewIdentifier("corotick_test", "thing"), State: 2, Current: 7, Locals: map[string]any{"n": 7}},
			},
		},
	}

	if err := p.Save("demo", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := p.Load("demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Time != snap.Time {
		t.Fatalf("Time = %v, want %v", loaded.Time, snap.Time)
	}
	if len(loaded.Threads) != 1 || len(loaded.Threads[0]) != 1 {
		t.Fatalf("Threads = %+v, want one thread with one frame", loaded.Threads)
	}
	if loaded.Threads[0][0].MethodID != snap.Threads[0][0].MethodID {
		t.Fatalf("MethodID = %v, want %v", loaded.Threads[0][0].MethodID, snap.Threads[0][0].MethodID)
	}
}

func TestJSONPersisterLoadNonExistent(t *testing.T) {
	dir := t.TempDir()
	p, err := NewJSONPersister(dir)
	if err != nil {
		t.Fatalf("NewJSONPersister: %v", err)
	}

	if _, err := p.Load("nope"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load nonexistent: err=%v, want os.ErrNotExist", err)
	}
}

func TestYAMLPersisterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := NewYAMLPersister(dir)
	if err != nil {
		t.Fatalf("NewYAMLPersister: %v", err)
	}

	snap := corotick.ExecutorSnapshot{
		Time: 500 * time.Millisecond,
		Threads: [][]corotick.FrameSnapshot{
			{
				{MethodID: corotick.NewIdentifier("corotick_test", "thing"), State: 1},
			},
		},
	}

	if err := p.Save("demo", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := p.Load("demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Time != snap.Time {
		t.Fatalf("Time = %v, want %v", loaded.Time, snap.Time)
	}
}

func TestYAMLPersisterLoadNonExistent(t *testing.T) {
	dir := t.TempDir()
	p, err := NewYAMLPersister(dir)
	if err != nil {
		t.Fatalf("NewYAMLPersister: %v", err)
	}

	if _, err := p.Load("nope"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load nonexistent: err=%v, want os.ErrNotExist", err)
	}
}

// TestJSONPersisterDelayRoundTrip captures a thread mid-Delay, persists it
// through JSON, loads it back, and rehydrates it: the scenario that used to
// panic, since encoding/json decodes the delay generator's duration argument
// and end local (time.Duration, an int64) into float64 once they round-trip
// through an ExecutorSnapshot's map[string]any.
func TestJSONPersisterDelayRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := NewJSONPersister(dir)
	if err != nil {
		t.Fatalf("NewJSONPersister: %v", err)
	}

	registry := corotick.NewGeneratorRegistry()
	executor := corotick.NewExecutor(registry)
	engine := corotick.NewSnapshotEngine(registry)

	if _, err := executor.Start(executor.Delay(500 * time.Millisecond)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := executor.Tick(200 * time.Millisecond); err != nil {
		t.Fatalf("tick 1: %v", err)
	}

	snap, err := executor.Capture(engine)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if err := p.Save("delay", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := p.Load("delay")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	restored, err := corotick.RehydrateExecutor(engine, registry, loaded)
	if err != nil {
		t.Fatalf("RehydrateExecutor: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := restored.Tick(200 * time.Millisecond); err != nil {
			t.Fatalf("restored tick %d: %v", i+1, err)
		}
	}

	threads := restored.Threads()
	if len(threads) != 1 {
		t.Fatalf("threads = %d, want 1", len(threads))
	}
	if threads[0].Status() != corotick.StatusFinished {
		t.Fatalf("status = %v, want Finished", threads[0].Status())
	}
}
