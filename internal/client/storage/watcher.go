package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/okulov/chatter/internal/logging"
)

// Watcher turns filesystem changes in the state directory into Events, so a
// second client process clearing the cached user is observed here the way a
// browser tab observes another tab's storage event.
type Watcher struct {
	bus    *Bus
	fs     *fsnotify.Watcher
	logger logging.Logger
}

// NewWatcher starts watching the store's directory. Close the returned
// watcher by cancelling the context passed to Run.
func NewWatcher(s *Store, logger logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(s.Dir()); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{bus: NewBus(), fs: fw, logger: logger}, nil
}

var _ Notifier = (*Watcher)(nil)

func (w *Watcher) Subscribe() (<-chan Event, func()) {
	return w.bus.Subscribe()
}

// Run pumps fsnotify events until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			key, op, relevant := classify(ev)
			if !relevant {
				continue
			}
			w.logger.Debug(ctx, "state file changed", "key", key, "op", op.String())
			w.bus.Publish(Event{Key: key, Op: op})
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "state watcher error", "error", err)
		}
	}
}

// classify maps a filesystem event on <key>.json to a store Event. Writes to
// temp files from atomic saves and anything that is not a .json file are
// ignored.
func classify(ev fsnotify.Event) (string, Op, bool) {
	name := filepath.Base(ev.Name)
	if !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
		return "", 0, false
	}
	key := strings.TrimSuffix(name, ".json")

	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		return key, OpDelete, true
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		return key, OpPut, true
	}
	return "", 0, false
}
