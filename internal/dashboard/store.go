package dashboard

import (
	"sync/atomic"
	"time"
)

// Store holds the dataset currently served. Readers take a snapshot with
// Current and keep using it even if a reload swaps in a new one.
type Store struct {
	path    string
	now     func() time.Time
	current atomic.Pointer[Dataset]
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) Current() (*Dataset, error) {
	d := s.current.Load()
	if d == nil {
		return nil, ErrDatasetNotLoaded
	}
	return d, nil
}

func (s *Store) Set(d *Dataset) {
	s.current.Store(d)
}

// Reload reads the store's file and swaps it in. On failure the previous
// dataset stays in place.
func (s *Store) Reload() (*Dataset, error) {
	d, err := LoadFile(s.path, s.now())
	if err != nil {
		return nil, err
	}
	s.current.Store(d)
	return d, nil
}
