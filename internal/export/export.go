// Package export converts a release-note store into a structured YAML
// document, for consumers that want the changelog machine-readable
// rather than as prose text files.
package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/timbrel/relnote/internal/note"
	"github.com/timbrel/relnote/internal/store"
)

// Document is the root of the exported YAML structure. Versions are
// ordered newest first, matching the store.
type Document struct {
	Project  string    `yaml:"project"`
	Versions []Version `yaml:"versions"`
}

// Version is one exported release.
type Version struct {
	Version  string    `yaml:"version"`
	Title    string    `yaml:"title,omitempty"`
	Sections []Section `yaml:"sections"`
}

// Section is one titled group of entries. Name is the canonical
// lower-case section name; entries have bullet markers stripped.
type Section struct {
	Name    string   `yaml:"name"`
	Entries []string `yaml:"entries"`
}

// FromStore builds the export document for every note in the store.
func FromStore(s *store.Store, project string) *Document {
	doc := &Document{Project: project}
	for _, n := range s.Notes() {
		doc.Versions = append(doc.Versions, fromNote(n))
	}
	return doc
}

func fromNote(n *note.Note) Version {
	v := Version{Version: n.Version, Title: n.Title}
	for _, s := range n.Sections {
		items := s.Items()
		if len(items) == 0 {
			continue
		}
		v.Sections = append(v.Sections, Section{
			Name:    note.CanonicalSection(s.Header),
			Entries: items,
		})
	}
	return v
}

// WriteYAML encodes the document to the writer.
func WriteYAML(doc *Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding changelog YAML: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes an exported document, e.g. for round-trip checks.
func ReadYAML(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing changelog YAML: %w", err)
	}
	return &doc, nil
}
