package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("document not found")

const fileExt = ".json"

// Store is a small disk-backed document store. One collection maps to one
// directory, one document to one JSON file. Writes go through a temp file
// and rename so readers never observe a partial document.
type Store struct {
	root  string
	cache sync.Map // "collection/id" -> raw document bytes
}

// New creates a store rooted at the given directory
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the store's root directory
func (s *Store) Root() string {
	return s.root
}

// Put encodes v and writes it as document id in the collection
func (s *Store) Put(collection, id string, v interface{}) error {
	if err := validateKey(collection); err != nil {
		return err
	}
	if err := validateKey(id); err != nil {
		return err
	}

	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
	}

	dir := filepath.Join(s.root, collection)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", collection, err)
	}

	path := filepath.Join(dir, id+fileExt)
	tmp, err := os.CreateTemp(dir, id+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write document %s/%s: %w", collection, id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to commit document %s/%s: %w", collection, id, err)
	}

	s.cache.Store(cacheKey(collection, id), data)
	return nil
}

// Get decodes document id from the collection into v
func (s *Store) Get(collection, id string, v interface{}) error {
	if err := validateKey(collection); err != nil {
		return err
	}
	if err := validateKey(id); err != nil {
		return err
	}

	key := cacheKey(collection, id)
	if cached, ok := s.cache.Load(key); ok {
		return sonic.Unmarshal(cached.([]byte), v)
	}

	path := filepath.Join(s.root, collection, id+fileExt)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read document %s/%s: %w", collection, id, err)
	}

	s.cache.Store(key, data)
	return sonic.Unmarshal(data, v)
}

// Exists reports whether a document is present
func (s *Store) Exists(collection, id string) bool {
	if validateKey(collection) != nil || validateKey(id) != nil {
		return false
	}
	if _, ok := s.cache.Load(cacheKey(collection, id)); ok {
		return true
	}
	_, err := os.Stat(filepath.Join(s.root, collection, id+fileExt))
	return err == nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *Store) Delete(collection, id string) error {
	if err := validateKey(collection); err != nil {
		return err
	}
	if err := validateKey(id); err != nil {
		return err
	}

	path := filepath.Join(s.root, collection, id+fileExt)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}

	s.cache.Delete(cacheKey(collection, id))
	return nil
}

// List returns all document ids in a collection, sorted by filename
func (s *Store) List(collection string) ([]string, error) {
	if err := validateKey(collection); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.root, collection))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileExt))
	}

	return ids, nil
}

// Clear removes every document in a collection
func (s *Store) Clear(collection string) error {
	ids, err := s.List(collection)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Delete(collection, id); err != nil {
			return err
		}
	}
	return nil
}

func cacheKey(collection, id string) string {
	return collection + "/" + id
}

// validateKey rejects names that could traverse outside the store root
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("store key cannot be empty")
	}
	if strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return fmt.Errorf("store key %q contains invalid characters", key)
	}
	return nil
}
