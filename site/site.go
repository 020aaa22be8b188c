// Package site holds the named reference points (radar sites) targets are
// measured from.
package site

import (
	"io/ioutil"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/a-bouts/rae-server/enu"
	"github.com/a-bouts/rae-server/latlon"
	"github.com/a-bouts/rae-server/rae"
)

// Site is a reference point. AlertRange is in meters, 0 disables alerts.
type Site struct {
	Name       string        `json:"name" yaml:"name"`
	Position   latlon.LatLon `json:"position" yaml:",inline"`
	AlertRange float64       `json:"alertRange" yaml:"alertRange"`
}

// Measure returns the offset and the measurement of tgt seen from the site.
func (s Site) Measure(tgt latlon.LatLon) (enu.Offset, rae.Measurement, error) {
	o, err := enu.FromGeodetic(s.Position, tgt)
	if err != nil {
		return enu.Offset{}, rae.Measurement{}, err
	}
	return o, rae.FromOffset(o), nil
}

// InAlertRange reports whether m is close enough to raise an alert.
func (s Site) InAlertRange(m rae.Measurement) bool {
	return s.AlertRange > 0 && m.Range <= s.AlertRange
}

// Sites is an immutable set of sites indexed by name.
type Sites struct {
	sites map[string]Site
}

type file struct {
	Sites []Site `yaml:"sites"`
}

// Load reads a sites YAML file.
func Load(path string) (*Sites, error) {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sites file '%s'", path)
	}
	s, err := Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "sites file '%s'", path)
	}
	return s, nil
}

// Parse decodes sites from YAML and validates them.
func Parse(content []byte) (*Sites, error) {
	var f file
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, errors.Wrap(err, "decoding sites")
	}
	return New(f.Sites...)
}

// Empty returns a set with no sites.
func Empty() *Sites {
	return &Sites{sites: map[string]Site{}}
}

// New builds a Sites from a list, rejecting empty or duplicated names and
// invalid positions.
func New(list ...Site) (*Sites, error) {
	s := &Sites{sites: make(map[string]Site, len(list))}
	for i, st := range list {
		if st.Name == "" {
			return nil, errors.Errorf("site #%d has no name", i)
		}
		if _, ok := s.sites[st.Name]; ok {
			return nil, errors.Errorf("site '%s' declared twice", st.Name)
		}
		if err := st.Position.Validate(); err != nil {
			return nil, errors.Wrapf(err, "site '%s'", st.Name)
		}
		if st.AlertRange < 0 {
			return nil, errors.Errorf("site '%s' has a negative alert range", st.Name)
		}
		s.sites[st.Name] = st
	}
	return s, nil
}

// Get returns the site called name.
func (s *Sites) Get(name string) (Site, bool) {
	st, ok := s.sites[name]
	return st, ok
}

// List returns all sites sorted by name.
func (s *Sites) List() []Site {
	list := make([]Site, 0, len(s.sites))
	for _, st := range s.sites {
		list = append(list, st)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Len returns the number of sites.
func (s *Sites) Len() int {
	return len(s.sites)
}
