package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shashiranjanraj/pizzapos/config"
)

// LocalConfig configures a LocalDisk.
type LocalConfig struct {
	Root    string
	BaseURL string // optional; URL falls back to a file:// path
}

// LocalDisk is the local-filesystem driver.
type LocalDisk struct {
	root    string // absolute
	baseURL string
}

func localConfig() LocalConfig {
	return LocalConfig{
		Root:    config.StorageLocalRoot(),
		BaseURL: config.Get("STORAGE_URL", ""),
	}
}

// NewLocal returns a disk rooted at cfg.Root. Relative roots resolve against
// the working directory. The root is created on first write.
func NewLocal(cfg LocalConfig) (*LocalDisk, error) {
	if cfg.Root == "" {
		return nil, errors.New("storage/local: root is empty")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: resolve root: %w", err)
	}
	return &LocalDisk{root: root, baseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

// Root is the absolute directory behind the disk.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) abs(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(path))
}

func (d *LocalDisk) Put(_ context.Context, path string, content []byte) error {
	full := d.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: put %s: %w", path, err)
	}
	return nil
}

func (d *LocalDisk) Get(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(d.abs(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage/local: get %s: %w", path, ErrMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: get %s: %w", path, err)
	}
	return data, nil
}

func (d *LocalDisk) Exists(_ context.Context, path string) bool {
	_, err := os.Stat(d.abs(path))
	return err == nil
}

func (d *LocalDisk) Delete(_ context.Context, path string) error {
	err := os.Remove(d.abs(path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *LocalDisk) AllFiles(_ context.Context, directory string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(d.abs(directory), func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			rel, _ := filepath.Rel(d.root, path)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: list %s: %w", directory, err)
	}
	sort.Strings(out)
	return out, nil
}

func (d *LocalDisk) URL(path string) string {
	clean := strings.TrimLeft(filepath.ToSlash(path), "/")
	if d.baseURL == "" {
		return "file://" + filepath.ToSlash(d.abs(clean))
	}
	return d.baseURL + "/" + clean
}
