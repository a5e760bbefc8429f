package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shashiranjanraj/pizzapos/app/store"
)

// readLines returns the non-blank lines of name. A missing file is empty.
// Lines of any length are returned; decoding skips records over maxLine.
func (s *Store) readLines(name string) ([]string, error) {
	path := s.path(name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &store.StorageError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	var lines []string
	br := bufio.NewReaderSize(f, 64*1024)
	for {
		raw, err := br.ReadString('\n')
		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, &store.StorageError{Op: "read", Path: path, Err: err}
		}
	}
}

// appendLines adds lines at the end of name, creating the data directory and
// file when needed.
func (s *Store) appendLines(name string, lines ...string) error {
	if len(lines) == 0 {
		return nil
	}
	path := s.path(name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &store.StorageError{Op: "mkdir", Path: s.dir, Err: err}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &store.StorageError{Op: "append", Path: path, Err: err}
	}
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return &store.StorageError{Op: "append", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &store.StorageError{Op: "append", Path: path, Err: err}
	}
	return nil
}

// rewrite replaces name with lines. Readers see either the old file or the
// new one, never a partial write.
func (s *Store) rewrite(name string, lines []string) error {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	path := s.path(name)
	if err := writeFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return &store.StorageError{Op: "rewrite", Path: path, Err: err}
	}
	return nil
}

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	// Some platforms refuse to fsync a directory; the rename already happened.
	_ = f.Sync()
	return nil
}
