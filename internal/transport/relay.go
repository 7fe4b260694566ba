package transport

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileRelay synchronizes processes through a shared relay file. Each
// publish overwrites the file with the message plus a `_ts` stamp; change
// notifications deliver it to the other side. Own writes are recognized by
// their stamp and skipped, so a publisher never sees its own message.
type FileRelay struct {
	path    string
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	subs    map[int]func(Message)
	nextSub int
	ownTS   map[int64]bool
	lastTS  int64

	closeOnce sync.Once
	done      chan struct{}
}

// NewFileRelay opens a relay on the given file, watching its directory for
// change events.
func NewFileRelay(path string) (*FileRelay, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("relay: resolve path: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("relay: create dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("relay: watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("relay: watch %s: %w", dir, err)
	}

	r := &FileRelay{
		path:    abs,
		watcher: watcher,
		subs:    make(map[int]func(Message)),
		ownTS:   make(map[int64]bool),
		done:    make(chan struct{}),
	}
	go r.watch()
	return r, nil
}

// ownStampTTL bounds how long an own-write stamp is kept. Rapid publishes
// coalesce into one change event, so not every own write is read back and
// its stamp consumed; anything older than the TTL can no longer be in the
// file.
const ownStampTTL = 5 * time.Second

// Publish stamps the message and overwrites the relay file. Write failures
// are swallowed: sync silently degrades, the presentation goes on.
func (r *FileRelay) Publish(msg Message) error {
	r.mu.Lock()
	ts := time.Now().UnixMilli()
	if ts <= r.lastTS {
		ts = r.lastTS + 1
	}
	r.lastTS = ts
	r.ownTS[ts] = true
	cutoff := ts - ownStampTTL.Milliseconds()
	for stamp := range r.ownTS {
		if stamp < cutoff {
			delete(r.ownTS, stamp)
		}
	}
	r.mu.Unlock()

	msg.TS = ts
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("relay: marshal: %v", err)
		return nil
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		log.Printf("relay: write: %v", err)
	}
	return nil
}

// Subscribe registers a handler for messages written by other processes.
func (r *FileRelay) Subscribe(handler func(Message)) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = handler
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Close stops watching the relay file.
func (r *FileRelay) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.done)
		err = r.watcher.Close()
	})
	return err
}

func (r *FileRelay) watch() {
	for {
		select {
		case <-r.done:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Name != r.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			r.deliver()
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("relay: watch: %v", err)
		}
	}
}

func (r *FileRelay) deliver() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
		return
	}

	r.mu.Lock()
	if r.ownTS[msg.TS] {
		delete(r.ownTS, msg.TS)
		r.mu.Unlock()
		return
	}
	handlers := make([]func(Message), 0, len(r.subs))
	for _, h := range r.subs {
		handlers = append(handlers, h)
	}
	r.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
}
