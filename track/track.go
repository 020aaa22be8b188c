// Package track keeps the last reported position of each target.
package track

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/a-bouts/rae-server/latlon"
)

// ErrNotFound is returned for an unknown track id.
var ErrNotFound = errors.New("track not found")

// Track is the last known position of a target.
type Track struct {
	ID       string        `json:"id"`
	Position latlon.LatLon `json:"position"`
	Updated  time.Time     `json:"updated"`
}

// Store is safe for concurrent use.
type Store struct {
	lock   sync.RWMutex
	tracks map[string]Track
}

func NewStore() *Store {
	return &Store{tracks: make(map[string]Track)}
}

// Update records the position of id at the given time.
func (s *Store) Update(id string, p latlon.LatLon, at time.Time) (Track, error) {
	if id == "" {
		return Track{}, errors.New("empty track id")
	}
	if err := p.Validate(); err != nil {
		return Track{}, errors.Wrapf(err, "track '%s'", id)
	}

	t := Track{ID: id, Position: p, Updated: at}

	s.lock.Lock()
	s.tracks[id] = t
	s.lock.Unlock()

	return t, nil
}

func (s *Store) Get(id string) (Track, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	t, ok := s.tracks[id]
	if !ok {
		return Track{}, errors.Wrapf(ErrNotFound, "'%s'", id)
	}
	return t, nil
}

// List returns the tracks sorted by id.
func (s *Store) List() []Track {
	s.lock.RLock()
	list := make([]Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		list = append(list, t)
	}
	s.lock.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (s *Store) Remove(id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.tracks[id]; !ok {
		return errors.Wrapf(ErrNotFound, "'%s'", id)
	}
	delete(s.tracks, id)
	return nil
}

// Prune drops the tracks not updated for more than maxAge and returns how
// many were dropped.
func (s *Store) Prune(now time.Time, maxAge time.Duration) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	n := 0
	for id, t := range s.tracks {
		if now.Sub(t.Updated) > maxAge {
			delete(s.tracks, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.tracks)
}
