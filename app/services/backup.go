package services

import (
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/storage"
)

// Snapshotter exports a store's records in the flat-file layout, keyed by
// file name. Both record stores implement it.
type Snapshotter interface {
	Snapshot() (map[string][]byte, error)
}

// BackupService copies every data file to the storage disk.
type BackupService struct {
	source Snapshotter
	disk   storage.Disk
	now    func() time.Time
}

func NewBackupService(source Snapshotter, disk storage.Disk) *BackupService {
	return &BackupService{source: source, disk: disk, now: time.Now}
}

// Backup is one completed backup.
type Backup struct {
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
	URL   string   `json:"url"`
}

// Run writes backups/<timestamp>/<file> for every file in the snapshot.
func (s *BackupService) Run(ctx context.Context) (Backup, error) {
	snap, err := s.source.Snapshot()
	if err != nil {
		return Backup{}, fmt.Errorf("services: backup: %w", err)
	}

	dir := path.Join("backups", s.now().Format("20060102-150405"))
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.disk.Put(ctx, path.Join(dir, name), snap[name]); err != nil {
			return Backup{}, fmt.Errorf("services: backup %s: %w", name, err)
		}
	}
	logger.WithCtx(ctx).Info("backup written", "dir", dir, "files", len(names))
	return Backup{Dir: dir, Files: names, URL: s.disk.URL(dir)}, nil
}
