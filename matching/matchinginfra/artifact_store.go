package matchinginfra

import (
	"context"
	"os"
	"path/filepath"
)

// LocalStore keeps trained artifacts as files under a single directory.
// This is the default store for single-node deployments and the trainer's
// local output.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Read(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, name))
}

func (s *LocalStore) Write(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

func (s *LocalStore) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
