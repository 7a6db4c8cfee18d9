package logwatch

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Follow calls fn for every complete line appended to the log at path after
// offset from, until ctx is cancelled. A trailing partial line is held back
// until its line break arrives.
//
// Follow only reads; it is a diagnostic aid and plays no part in window checks.
func Follow(ctx context.Context, path string, from int64, fn func(line string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create log follower: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("follow %s: %w", path, err)
	}

	t := &tail{path: path, offset: from, emit: fn}

	// Catch up on anything written between from and the watch being installed.
	if err := t.drain(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				if err := t.drain(); err != nil {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("follow %s: %w", path, err)
		}
	}
}

type tail struct {
	path    string
	offset  int64
	pending []byte
	emit    func(line string)
}

func (t *tail) drain() error {
	data, err := ReadFrom(t.path, t.offset)
	if err != nil {
		return err
	}
	t.offset += int64(len(data))
	t.pending = append(t.pending, data...)

	for {
		i := bytes.IndexByte(t.pending, '\n')
		if i < 0 {
			return nil
		}
		line := bytes.TrimSuffix(t.pending[:i], []byte{'\r'})
		t.emit(string(line))
		t.pending = t.pending[i+1:]
	}
}
