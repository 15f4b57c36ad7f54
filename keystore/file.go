package keystore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileStore persists values in a single CBOR-encoded file readable only by
// the owner. Writes go through a temporary file and a rename so a crash never
// leaves a truncated store behind.
type FileStore struct {
	mu   sync.Mutex
	path string
	enc  cbor.EncMode
}

// fileContents is the on-disk layout.
type fileContents struct {
	Version int               `cbor:"1,keyasint"`
	Values  map[string]string `cbor:"2,keyasint"`
}

const fileVersion = 1

// NewFileStore creates a store backed by path. The parent directory is
// created if needed; the file itself is created on the first Set.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create cbor encoder: %w", err)
	}

	return &FileStore{path: path, enc: enc}, nil
}

// Get returns the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := s.read()
	if err != nil {
		return "", err
	}

	value, ok := contents.Values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores value under key.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if value == "" {
		return ErrEmptyValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := s.read()
	if err != nil {
		return err
	}
	contents.Values[key] = value

	return s.write(contents)
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) read() (*fileContents, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &fileContents{Version: fileVersion, Values: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	var contents fileContents
	if err := cbor.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("failed to decode store: %w", err)
	}
	if contents.Version != fileVersion {
		return nil, fmt.Errorf("unsupported store version %d", contents.Version)
	}
	if contents.Values == nil {
		contents.Values = make(map[string]string)
	}
	return &contents, nil
}

func (s *FileStore) write(contents *fileContents) error {
	data, err := s.enc.Marshal(contents)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".keystore-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}
