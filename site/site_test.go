package site

import (
	"errors"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/a-bouts/rae-server/latlon"
	"github.com/a-bouts/rae-server/rae"
)

const sitesYAML = `
sites:
  - name: brest
    lat: 48.39
    lon: -4.48
    alt: 30
    alertRange: 20000
  - name: equator
    lat: 0
    lon: 0
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sitesYAML))
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", s.Len())
	}

	b, ok := s.Get("brest")
	if !ok {
		t.Fatal("site brest not found")
	}
	want := Site{Name: "brest", Position: latlon.LatLon{Lat: 48.39, Lon: -4.48, Alt: 30}, AlertRange: 20000}
	if b != want {
		t.Errorf("Get(brest) = %+v; want %+v", b, want)
	}

	if _, ok := s.Get("paris"); ok {
		t.Error("Get(paris) found a site")
	}

	list := s.List()
	if list[0].Name != "brest" || list[1].Name != "equator" {
		t.Errorf("List() = %+v; want sorted by name", list)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", "sites: ["},
		{"no name", "sites:\n  - lat: 1\n"},
		{"duplicate", "sites:\n  - name: a\n  - name: a\n"},
		{"bad latitude", "sites:\n  - name: a\n    lat: 120\n"},
		{"negative alert range", "sites:\n  - name: a\n    alertRange: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.content)); err == nil {
				t.Errorf("Parse(%q) succeeded; want an error", tt.content)
			}
		})
	}
}

func TestParseBadLatitudeIsInvalidInput(t *testing.T) {
	_, err := Parse([]byte("sites:\n  - name: a\n    lat: -95\n"))
	if !errors.Is(err, latlon.ErrInvalidLatitude) {
		t.Errorf("Parse error = %v; want ErrInvalidLatitude", err)
	}
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "sites")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "sites.yaml")
	if err := ioutil.WriteFile(path, []byte(sitesYAML), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d; want 2", s.Len())
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) succeeded; want an error")
	}
}

func TestMeasure(t *testing.T) {
	s := Site{Name: "equator"}

	o, m, err := s.Measure(latlon.LatLon{Alt: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(o.Up-1000) > 1e-9 || math.Abs(m.Range-1000) > 1e-9 || math.Abs(m.Elevation-math.Pi/2) > 1e-12 {
		t.Errorf("Measure(straight up) = %+v, %+v", o, m)
	}

	if _, _, err := s.Measure(latlon.LatLon{Lat: 100}); !errors.Is(err, latlon.ErrInvalidInput) {
		t.Errorf("Measure(lat 100) error = %v; want ErrInvalidInput", err)
	}
}

func TestInAlertRange(t *testing.T) {
	s := Site{Name: "a", AlertRange: 1000}
	if !s.InAlertRange(rae.Measurement{Range: 999}) {
		t.Error("999 m not in alert range 1000 m")
	}
	if !s.InAlertRange(rae.Measurement{Range: 1000}) {
		t.Error("1000 m not in alert range 1000 m")
	}
	if s.InAlertRange(rae.Measurement{Range: 1001}) {
		t.Error("1001 m in alert range 1000 m")
	}
	if (Site{Name: "b"}).InAlertRange(rae.Measurement{}) {
		t.Error("alert range 0 raised an alert")
	}
}

func TestEmpty(t *testing.T) {
	s := Empty()
	if s.Len() != 0 || len(s.List()) != 0 {
		t.Errorf("Empty() has %d sites; want 0", s.Len())
	}
	if _, ok := s.Get("brest"); ok {
		t.Error("Empty().Get(brest) found a site")
	}
}
