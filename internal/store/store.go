// Package store holds the flat-file primitives every mutation in the
// platform goes through: whole-document JSON rewrites and pure CSV
// appends. In-place partial edits of a shared file are not offered.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrBusy is returned when the writer lock of a file cannot be
	// taken within its timeout.
	ErrBusy = errors.New("store is busy")
	// ErrCorrupt is returned when a persisted file fails to parse.
	ErrCorrupt = errors.New("corrupt store file")
)

const DefaultLockTimeout = 2 * time.Second

// flock serializes writers on one logical file with a bounded wait.
type flock struct {
	sem     chan struct{}
	timeout time.Duration
}

func newFlock(timeout time.Duration) *flock {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &flock{sem: make(chan struct{}, 1), timeout: timeout}
}

func (l *flock) acquire() error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-time.After(l.timeout):
		return ErrBusy
	}
}

func (l *flock) release() {
	<-l.sem
}

// JSONFile is a single JSON document guarded by one writer lock.
type JSONFile struct {
	path string
	lock *flock
}

func NewJSONFile(path string, timeout time.Duration) *JSONFile {
	return &JSONFile{path: path, lock: newFlock(timeout)}
}

func (f *JSONFile) Path() string {
	return f.path
}

// Acquire takes the writer lock for a full load-mutate-rewrite cycle
// and returns the release func. ErrBusy when the lock is not free
// within the timeout.
func (f *JSONFile) Acquire() (func(), error) {
	if err := f.lock.acquire(); err != nil {
		return nil, err
	}
	return f.lock.release, nil
}

// Load parses the document into out. A missing or empty file leaves
// out untouched; readers see the last fully written version.
func (f *JSONFile) Load(out interface{}) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}

// Rewrite atomically replaces the whole document: the new content is
// written to a temp file and renamed over the old one, so a concurrent
// reader never observes a partial write.
func (f *JSONFile) Rewrite(doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}
