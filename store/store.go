// Package store persists serialized tracks as named blobs.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/gruntwork-io/go-commons/errors"
	"k8s.io/utils/clock"
)

// Entry is one stored track.
type Entry struct {
	Name string
	Data []byte
}

// Store saves, lists and removes named track blobs. Implementations must be safe for concurrent
// use.
type Store interface {
	Save(ctx context.Context, name string, data []byte) error
	LoadAll(ctx context.Context) ([]Entry, error)
	Delete(ctx context.Context, name string) error
}

// InvalidNameError is returned for a track name that cannot be used as a storage key.
type InvalidNameError struct {
	Name string
}

func (err InvalidNameError) Error() string {
	return fmt.Sprintf("invalid track name %q", err.Name)
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.WithStackTrace(InvalidNameError{Name: name})
	}
	return nil
}

// Open creates the store for a backend name: file, sqlite or memory. The returned closer releases
// the store's resources.
func Open(backend, path string, cl clock.PassiveClock) (Store, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case "file":
		s, err := NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case "sqlite":
		s, err := NewSQLiteStore(path, cl)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "memory":
		return NewMemoryStore(), noop, nil
	}
	return nil, nil, errors.WithStackTrace(fmt.Errorf("unknown storage backend %q", backend))
}
