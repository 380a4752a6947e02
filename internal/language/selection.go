package language

import "fmt"

// Selection is the pair of chosen source and destination indices.
// Source and destination never point at the same language.
//
// A Selection is not safe for concurrent use; the session controller owns it.
type Selection struct {
	registry    *Registry
	source      int
	destination int
}

// NewSelection starts with the first language as source and the second as destination
func NewSelection(registry *Registry) *Selection {
	return &Selection{
		registry:    registry,
		source:      0,
		destination: 1,
	}
}

// NewSelectionAt creates a selection with explicit indices
func NewSelectionAt(registry *Registry, source, destination int) (*Selection, error) {
	count := registry.Count()
	if source < 0 || source >= count || destination < 0 || destination >= count {
		return nil, fmt.Errorf("selection (%d, %d) out of range for %d languages", source, destination, count)
	}
	if source == destination {
		return nil, fmt.Errorf("source and destination must differ, both are %d", source)
	}
	return &Selection{registry: registry, source: source, destination: destination}, nil
}

// CycleSource advances the source language. When it lands on the destination,
// the destination is pushed forward once. Returns the new source index.
func (s *Selection) CycleSource() int {
	s.source = s.registry.Next(s.source)
	if s.source == s.destination {
		s.destination = s.registry.Next(s.destination)
	}
	return s.source
}

// CycleDestination advances the destination language, skipping over the
// source. The source is never changed. Returns the new destination index.
func (s *Selection) CycleDestination() int {
	s.destination = s.registry.Next(s.destination)
	if s.destination == s.source {
		s.destination = s.registry.Next(s.destination)
	}
	return s.destination
}

// SourceIndex returns the current source index
func (s *Selection) SourceIndex() int {
	return s.source
}

// DestinationIndex returns the current destination index
func (s *Selection) DestinationIndex() int {
	return s.destination
}

// Source returns the current source language
func (s *Selection) Source() Entry {
	return s.registry.Get(s.source)
}

// Destination returns the current destination language
func (s *Selection) Destination() Entry {
	return s.registry.Get(s.destination)
}

// Registry returns the registry the selection indexes into
func (s *Selection) Registry() *Registry {
	return s.registry
}
