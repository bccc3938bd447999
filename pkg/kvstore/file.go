package kvstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// File is a Store persisted as a single YAML document per database.
// Writes go to a temporary file that is renamed over the original.
// It is safe for concurrent use within one process.
type File struct {
	mu   sync.Mutex
	path string
}

// OpenFile returns the database name stored under dir as name.yaml.
// The directory is created if needed.
func OpenFile(dir, name string) (*File, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	return &File{path: filepath.Join(dir, filepath.Base(name)+".yaml")}, nil
}

// FileOpener returns an Opener storing databases under dir.
func FileOpener(dir string) Opener {
	return func(_ context.Context, name string) (Store, error) {
		return OpenFile(dir, name)
	}
}

// Path returns the file backing the store.
func (f *File) Path() string { return f.path }

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return nil, err
	}
	v, ok := data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (f *File) Put(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	data[key] = string(value)
	return f.write(data)
}

func (f *File) PutIfAbsent(_ context.Context, key string, value []byte) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return false, err
	}
	if _, ok := data[key]; ok {
		return false, nil
	}
	data[key] = string(value)
	if err := f.write(data); err != nil {
		return false, err
	}
	return true, nil
}

func (f *File) read() (map[string]string, error) {
	data := make(map[string]string)

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return data, nil
}

func (f *File) write(data map[string]string) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return errors.Join(ErrFailedToWriteFile, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errors.Join(ErrFailedToWriteFile, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return errors.Join(ErrFailedToWriteFile, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Join(ErrFailedToWriteFile, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(ErrFailedToWriteFile, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Join(ErrFailedToWriteFile, err)
	}
	return nil
}
