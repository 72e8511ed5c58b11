package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/files"
	"github.com/robmorgan/lumen/logger"
)

const fileExtension = ".json"

// FileStore keeps one <name>.json file per track in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExtension)
}

// Save writes through a temporary file and renames it into place.
func (s *FileStore) Save(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+name+"-*")
	if err != nil {
		return errors.WithStackTrace(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WithStackTrace(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WithStackTrace(err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}

// LoadAll reads every .json file in the directory, in name order. Files that cannot be read are
// skipped.
func (s *FileStore) LoadAll(ctx context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	log := logger.GetProjectLogger().WithField("dir", s.dir)

	out := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileName := de.Name()
		if de.IsDir() || strings.HasPrefix(fileName, ".") || filepath.Ext(fileName) != fileExtension {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, fileName))
		if err != nil {
			log.Warnf("Skipping track file %s: %v", fileName, err)
			continue
		}
		out = append(out, Entry{Name: strings.TrimSuffix(fileName, fileExtension), Data: data})
	}
	return out, nil
}

// Delete removes the track file. A missing file is not an error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := s.path(name)
	if !files.FileExists(path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.WithStackTrace(err)
	}
	return nil
}
