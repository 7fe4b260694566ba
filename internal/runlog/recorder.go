package runlog

import (
	"context"
	"log"
	"sync"

	"github.com/quality-irrigation/mi-console/internal/session"
)

// Recorder subscribes to navigation events and persists them against the
// active run. Recording is best effort: without an active run events are
// dropped, and store failures are logged but never surface to navigation.
type Recorder struct {
	store *Store

	mu    sync.RWMutex
	runID string

	wg sync.WaitGroup
}

// NewRecorder creates a Recorder. Call SetRun once a run log exists.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// SetRun points the recorder at a run. An empty id disables recording.
func (r *Recorder) SetRun(runID string) {
	r.mu.Lock()
	r.runID = runID
	r.mu.Unlock()
}

// RunID returns the active run id, or "" when recording is disabled.
func (r *Recorder) RunID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runID
}

// Observe is the session observer hook. The write happens off the
// navigation path.
func (r *Recorder) Observe(e session.NavEvent) {
	runID := r.RunID()
	if runID == "" {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := r.store.RecordAction(context.Background(), Action{
			RunID:      runID,
			EventType:  e.EventType,
			SlideID:    e.SlideID,
			SlideType:  string(e.SlideType),
			SlideIndex: e.SlideIndex,
		})
		if err != nil {
			log.Printf("runlog: recording %s action failed: %v", e.EventType, err)
		}
	}()
}

// Wait blocks until all in-flight writes have finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
