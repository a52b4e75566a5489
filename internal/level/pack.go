package level

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var defaultPackYAML []byte

// Chapter groups levels and carries the recap shown when it is finished
type Chapter struct {
	Name  string   `json:"name" yaml:"name"`
	Recap []string `json:"recap" yaml:"recap"`
}

// Pack is an ordered set of levels
type Pack struct {
	Chapters []Chapter `json:"chapters" yaml:"chapters"`
	Levels   []*Level  `json:"levels" yaml:"levels"`
}

// LoadPack decodes and validates a YAML level pack
func LoadPack(r io.Reader) (*Pack, error) {
	var pack Pack
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pack); err != nil {
		return nil, fmt.Errorf("decode level pack: %w", err)
	}
	if err := pack.Validate(); err != nil {
		return nil, err
	}
	return &pack, nil
}

// DefaultPack returns the embedded mission pack
func DefaultPack() *Pack {
	pack, err := LoadPack(bytes.NewReader(defaultPackYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded level pack is invalid: %v", err))
	}
	return pack
}

// Validate checks ids, steps and starting repositories
func (p *Pack) Validate() error {
	if len(p.Levels) == 0 {
		return fmt.Errorf("level pack has no levels")
	}

	seen := make(map[int]bool, len(p.Levels))
	for _, l := range p.Levels {
		if seen[l.ID] {
			return fmt.Errorf("duplicate level id %d", l.ID)
		}
		seen[l.ID] = true

		if len(l.Steps) == 0 {
			return fmt.Errorf("level %d has no steps", l.ID)
		}
		for _, step := range l.Steps {
			if step.Check.IsEmpty() {
				return fmt.Errorf("level %d step %q has an empty check", l.ID, step.ID)
			}
		}
		if err := l.NewRepository().Validate(); err != nil {
			return fmt.Errorf("level %d initial repository: %w", l.ID, err)
		}
	}
	return nil
}

// First returns the opening level
func (p *Pack) First() *Level {
	return p.Levels[0]
}

// Get returns the level with the given id
func (p *Pack) Get(id int) (*Level, bool) {
	for _, l := range p.Levels {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// Next returns the level after id, or false at the end of the pack
func (p *Pack) Next(id int) (*Level, bool) {
	for i, l := range p.Levels {
		if l.ID == id && i+1 < len(p.Levels) {
			return p.Levels[i+1], true
		}
	}
	return nil, false
}

// Recap returns the recap lines of a chapter
func (p *Pack) Recap(chapter string) []string {
	for _, c := range p.Chapters {
		if c.Name == chapter {
			return c.Recap
		}
	}
	return nil
}

// LastInChapter reports whether id is the final level of its chapter
func (p *Pack) LastInChapter(id int) bool {
	l, ok := p.Get(id)
	if !ok {
		return false
	}
	next, ok := p.Next(id)
	return !ok || next.Chapter != l.Chapter
}
