// Package filesvc stores uploaded media and hands back their public path.
package filesvc

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core/cms"
)

type localStore struct {
	root      string
	publicDir string
}

var _ cms.FileStore = (*localStore)(nil)

// NewLocalStore writes files under root and serves them at /media/<name>.
func NewLocalStore(root string) (cms.FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating media dir")
	}
	return &localStore{root: root, publicDir: "/media"}, nil
}

func (st *localStore) SaveFile(filename, contentType string, data []byte) (string, error) {
	name := uniqueName(filename)
	if err := os.WriteFile(filepath.Join(st.root, name), data, 0o644); err != nil {
		return "", errors.Wrap(err, "writing file")
	}
	return path.Join(st.publicDir, name), nil
}

// uniqueName prefixes the cleaned base name so repeated uploads never clash.
func uniqueName(filename string) string {
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, " ", "-")
	return uuid.NewString()[:8] + "-" + base
}

type memoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ cms.FileStore = (*memoryStore)(nil)

// NewMemoryStore keeps files in memory; for tests and debug mode.
func NewMemoryStore() cms.FileStore {
	return &memoryStore{files: make(map[string][]byte)}
}

func (st *memoryStore) SaveFile(filename, contentType string, data []byte) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	name := uniqueName(filename)
	st.files[name] = data
	return path.Join("/media", name), nil
}
