package track

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/a-bouts/rae-server/latlon"
)

var t0 = time.Date(2020, 7, 1, 12, 0, 0, 0, time.UTC)

func TestUpdateGet(t *testing.T) {
	s := NewStore()

	p := latlon.LatLon{Lat: 48.5, Lon: -4.2, Alt: 3000}
	if _, err := s.Update("AF123", p, t0); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get("AF123")
	if err != nil {
		t.Fatal(err)
	}
	if got.Position != p || !got.Updated.Equal(t0) {
		t.Errorf("Get(AF123) = %+v; want %+v at %s", got, p, t0)
	}

	p.Alt = 3500
	if _, err := s.Update("AF123", p, t0.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get("AF123")
	if got.Position.Alt != 3500 {
		t.Errorf("Get(AF123) alt = %f; want 3500", got.Position.Alt)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d; want 1", s.Len())
	}
}

func TestUpdateInvalid(t *testing.T) {
	s := NewStore()

	if _, err := s.Update("x", latlon.LatLon{Lat: 91}, t0); !errors.Is(err, latlon.ErrInvalidInput) {
		t.Errorf("Update(lat 91) error = %v; want ErrInvalidInput", err)
	}
	if _, err := s.Update("", latlon.LatLon{}, t0); err == nil {
		t.Error("Update with empty id succeeded")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d; want 0", s.Len())
	}
}

func TestGetRemoveNotFound(t *testing.T) {
	s := NewStore()
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope) error = %v; want ErrNotFound", err)
	}
	if err := s.Remove("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(nope) error = %v; want ErrNotFound", err)
	}

	s.Update("a", latlon.LatLon{}, t0)
	if err := s.Remove("a"); err != nil {
		t.Errorf("Remove(a) error = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d; want 0", s.Len())
	}
}

func TestList(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"c", "a", "b"} {
		s.Update(id, latlon.LatLon{}, t0)
	}
	list := s.List()
	if len(list) != 3 || list[0].ID != "a" || list[1].ID != "b" || list[2].ID != "c" {
		t.Errorf("List() = %+v; want a, b, c", list)
	}
}

func TestPrune(t *testing.T) {
	s := NewStore()
	s.Update("old", latlon.LatLon{}, t0)
	s.Update("edge", latlon.LatLon{}, t0.Add(30*time.Second))
	s.Update("new", latlon.LatLon{}, t0.Add(50*time.Second))

	n := s.Prune(t0.Add(90*time.Second), time.Minute)
	if n != 1 {
		t.Errorf("Prune() = %d; want 1", n)
	}
	if _, err := s.Get("old"); err == nil {
		t.Error("old track not pruned")
	}
	if _, err := s.Get("edge"); err != nil {
		t.Error("track exactly at max age pruned")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d; want 2", s.Len())
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Update(fmt.Sprintf("t%d-%d", i, j%10), latlon.LatLon{Lat: float64(j % 90)}, t0)
				s.List()
			}
		}(i)
	}
	wg.Wait()

	if s.Len() != 80 {
		t.Errorf("Len() = %d; want 80", s.Len())
	}
}
