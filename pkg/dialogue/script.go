// Package dialogue loads scripted conversations and plays them line by line.
package dialogue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	ErrScriptNotFound  = errors.New("dialogue script not found")
	ErrSectionNotFound = errors.New("dialogue section not found")
	ErrInvalidScriptID = errors.New("invalid dialogue script id")
	ErrMalformed       = errors.New("malformed dialogue document")
	ErrNoScript        = errors.New("no dialogue script loaded")
	ErrEmptyScript     = errors.New("dialogue script has no lines")
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// ValidID reports whether id is a lowercase snake_case identifier.
func ValidID(id string) bool { return idPattern.MatchString(id) }

// Line is one spoken line.
type Line struct {
	Speaker string `json:"speaker" yaml:"speaker"`
	Text    string `json:"text" yaml:"text"`
}

// Script is an ordered run of lines.
type Script struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Lines []Line `json:"lines" yaml:"lines"`
}

// Document is a loaded dialogue file. It is either flat (a single script)
// or sectioned (named scripts).
type Document struct {
	ID       string
	Flat     *Script
	Sections map[string]Script
}

// Script extracts the playable script. An empty section selects the whole
// document, which must then be flat.
func (d *Document) Script(section string) (Script, error) {
	if section == "" {
		if d.Flat == nil {
			return Script{}, fmt.Errorf("%w: %s has sections, none requested", ErrSectionNotFound, d.ID)
		}
		s := *d.Flat
		if s.ID == "" {
			s.ID = d.ID
		}
		return s, nil
	}
	s, ok := d.Sections[section]
	if !ok {
		return Script{}, fmt.Errorf("%w: %q in %s", ErrSectionNotFound, section, d.ID)
	}
	if s.ID == "" {
		s.ID = d.ID + "/" + section
	}
	return s, nil
}

// SectionNames lists the sections in sorted order.
func (d *Document) SectionNames() []string {
	names := make([]string, 0, len(d.Sections))
	for name := range d.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnmarshalJSON accepts both {"lines": [...]} and {"section": {"lines": [...]}}.
func (d *Document) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, ok := probe["lines"]; ok {
		var s Script
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		d.Flat = &s
		return nil
	}
	d.Sections = make(map[string]Script, len(probe))
	for name, raw := range probe {
		var s Script
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("%w: section %q: %v", ErrMalformed, name, err)
		}
		d.Sections[name] = s
	}
	return nil
}

// UnmarshalYAML accepts the same two shapes as UnmarshalJSON.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: expected a mapping at line %d", ErrMalformed, value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "lines" {
			var s Script
			if err := value.Decode(&s); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			d.Flat = &s
			return nil
		}
	}
	d.Sections = make(map[string]Script, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var s Script
		if err := value.Content[i+1].Decode(&s); err != nil {
			return fmt.Errorf("%w: section %q: %v", ErrMalformed, name, err)
		}
		d.Sections[name] = s
	}
	return nil
}
