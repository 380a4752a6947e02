package language

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTooFewLanguages is returned when a registry would hold fewer than two entries
var ErrTooFewLanguages = errors.New("at least two languages are required")

// Entry is a selectable language
type Entry struct {
	Name string `mapstructure:"name"` // Display name, e.g. "English"
	Code string `mapstructure:"code"` // Code passed to the speech services, e.g. "en"
}

// Registry is an immutable ordered list of languages
type Registry struct {
	entries []Entry
}

// DefaultEntries returns the built-in language list
func DefaultEntries() []Entry {
	return []Entry{
		{Name: "English", Code: "en"},
		{Name: "Hindi", Code: "hi"},
		{Name: "Spanish", Code: "es"},
		{Name: "French", Code: "fr"},
		{Name: "German", Code: "de"},
		{Name: "Chinese (Simpl.)", Code: "zh-CN"},
	}
}

// NewRegistry validates entries and creates a registry from a copy of them
func NewRegistry(entries []Entry) (*Registry, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewLanguages, len(entries))
	}

	copied := make([]Entry, len(entries))
	for i, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		e.Code = strings.TrimSpace(e.Code)
		if e.Name == "" || e.Code == "" {
			return nil, fmt.Errorf("language %d: name and code must not be empty", i)
		}
		copied[i] = e
	}

	return &Registry{entries: copied}, nil
}

// Get returns the entry at index. It panics on an invalid index.
func (r *Registry) Get(index int) Entry {
	return r.entries[index]
}

// Count returns the number of languages
func (r *Registry) Count() int {
	return len(r.entries)
}

// Next returns the index after index, wrapping around
func (r *Registry) Next(index int) int {
	return (index + 1) % len(r.entries)
}
