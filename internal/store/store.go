// File: internal/store/store.go

// Package store persists the working buffer pair between runs. Each buffer
// is one file under the store directory; writes are atomic so a crashed run
// never leaves a truncated buffer behind.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Buffer keys. The store holds exactly one markup buffer and one style
// buffer; there is no namespace beyond that.
const (
	KeyHTML = "html"
	KeyCSS  = "css"
)

var bufferFiles = map[string]string{
	KeyHTML: "buffer.html",
	KeyCSS:  "buffer.css",
}

// Store is a file-backed buffer store rooted at a single directory.
type Store struct {
	dir string
}

// DefaultDir resolves the per-user store directory.
func DefaultDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".domlens"), nil
}

// Open creates the store directory if needed and returns a Store over it.
// An empty dir selects the default per-user location.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory backing this store.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) (string, error) {
	name, ok := bufferFiles[key]
	if !ok {
		return "", fmt.Errorf("unknown buffer key %q", key)
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes one buffer atomically: the content lands in a temp file in
// the store directory and is renamed over the target.
func (s *Store) Save(key, content string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp buffer file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing buffer %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing buffer %q: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("committing buffer %q: %w", key, err)
	}
	return nil
}

// Load reads one buffer. A buffer that was never saved reads as empty.
func (s *Store) Load(key string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading buffer %q: %w", key, err)
	}
	return string(data), nil
}

// SavePair persists both buffers.
func (s *Store) SavePair(htmlSrc, cssSrc string) error {
	if err := s.Save(KeyHTML, htmlSrc); err != nil {
		return err
	}
	return s.Save(KeyCSS, cssSrc)
}

// LoadPair restores both buffers.
func (s *Store) LoadPair() (htmlSrc, cssSrc string, err error) {
	if htmlSrc, err = s.Load(KeyHTML); err != nil {
		return "", "", err
	}
	if cssSrc, err = s.Load(KeyCSS); err != nil {
		return "", "", err
	}
	return htmlSrc, cssSrc, nil
}
