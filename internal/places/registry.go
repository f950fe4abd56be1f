// Package places keeps the user's saved locations, keyed by tag.
package places

import (
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/MatviySuk/weather-cli/internal/weather"
)

// Place is a named location. Two places with the same tag are the same place.
type Place struct {
	Tag         string              `json:"tag" yaml:"tag"`
	Coordinates weather.Coordinates `json:"coordinates" yaml:"coordinates"`
}

func (p Place) String() string {
	return fmt.Sprintf("%s (%s)", p.Tag, p.Coordinates)
}

// Registry is a tag-keyed set of places. It is loaded whole, mutated and
// saved whole by a single caller; it is not safe for concurrent mutation.
type Registry struct {
	places map[string]Place
	dirty  bool
}

// NewRegistry builds a registry from already-validated places. A later place
// with a repeated tag replaces the earlier one.
func NewRegistry(places ...Place) *Registry {
	r := &Registry{places: make(map[string]Place, len(places))}
	for _, p := range places {
		r.places[p.Tag] = p
	}
	return r
}

// List returns a snapshot sorted by tag.
func (r *Registry) List() []Place {
	out := make([]Place, 0, len(r.places))
	for _, p := range r.places {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// Tags returns the saved tags sorted.
func (r *Registry) Tags() []string {
	list := r.List()
	tags := make([]string, len(list))
	for i, p := range list {
		tags[i] = p.Tag
	}
	return tags
}

// Len reports the number of saved places.
func (r *Registry) Len() int { return len(r.places) }

// Upsert validates the coordinates and then inserts the place or replaces the
// coordinates of the place with the same tag. On error nothing changes.
func (r *Registry) Upsert(p Place) error {
	if p.Tag == "" {
		return weather.ErrEmptyTag
	}
	if err := p.Coordinates.Validate(); err != nil {
		return err
	}

	if r.places == nil {
		r.places = make(map[string]Place)
	}
	r.places[p.Tag] = p
	r.dirty = true
	return nil
}

// Remove deletes the place with tag and reports whether it existed.
func (r *Registry) Remove(tag string) bool {
	if _, ok := r.places[tag]; !ok {
		return false
	}
	delete(r.places, tag)
	r.dirty = true
	return true
}

// Resolve looks up the coordinates saved under tag.
func (r *Registry) Resolve(tag string) (weather.Coordinates, bool) {
	p, ok := r.places[tag]
	if !ok {
		return weather.Coordinates{}, false
	}
	return p.Coordinates, true
}

// Dirty reports whether the registry changed since it was loaded.
func (r *Registry) Dirty() bool { return r.dirty }

// MarkClean is called after the registry has been persisted.
func (r *Registry) MarkClean() { r.dirty = false }

// MarshalYAML stores the registry as a list sorted by tag.
func (r *Registry) MarshalYAML() (interface{}, error) {
	return r.List(), nil
}

// UnmarshalYAML reads a list of places. Entries with out-of-range coordinates
// or empty tags are rejected rather than dropped.
func (r *Registry) UnmarshalYAML(value *yaml.Node) error {
	var list []Place
	if err := value.Decode(&list); err != nil {
		return err
	}
	loaded, err := fromList(list)
	if err != nil {
		return err
	}
	*r = *loaded
	return nil
}

func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.List())
}

func fromList(list []Place) (*Registry, error) {
	r := NewRegistry()
	for _, p := range list {
		if p.Tag == "" {
			return nil, weather.ErrEmptyTag
		}
		if err := p.Coordinates.Validate(); err != nil {
			return nil, fmt.Errorf("place %q: %w", p.Tag, err)
		}
		r.places[p.Tag] = p
	}
	return r, nil
}
