package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// reopenWriter is an io.WriteCloser that validates the log file before each
// write. If the file was removed or replaced underneath us (tmp cleaners,
// external rotation), it reopens the configured path instead of appending
// to a deleted inode for the rest of the process lifetime.
type reopenWriter struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	opened os.FileInfo
}

// newReopenWriter creates a writer for the given log file path.
// The file is opened lazily on first write.
func newReopenWriter(path string) *reopenWriter {
	return &reopenWriter{path: path}
}

// Write implements the io.Writer interface.
func (w *reopenWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := w.getFile()
	if err != nil {
		// Log to stderr as a last resort
		fmt.Fprintf(os.Stderr, "warden-log: failed to open %s: %v\n", w.path, err)
		return 0, err
	}
	return file.Write(p)
}

// Close implements the io.Closer interface.
func (w *reopenWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		w.opened = nil
		return err
	}
	return nil
}

// getFile returns an open handle on the configured path, reopening it when
// the path no longer refers to the file originally opened.
func (w *reopenWriter) getFile() (*os.File, error) {
	if w.file != nil {
		current, err := os.Stat(w.path)
		if err != nil || !os.SameFile(w.opened, current) {
			w.file.Close()
			w.file = nil
			w.opened = nil
		}
	}

	if w.file == nil {
		if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		info, err := file.Stat()
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("stat log file: %w", err)
		}
		w.file = file
		w.opened = info
	}

	return w.file, nil
}
