package language

import (
	"math/rand"
	"testing"
)

func threeLanguages(t *testing.T) *Registry {
	t.Helper()

	reg, err := NewRegistry([]Entry{
		{Name: "English", Code: "en"},
		{Name: "Hindi", Code: "hi"},
		{Name: "Spanish", Code: "es"},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

func TestNewSelectionDefaults(t *testing.T) {
	sel := NewSelection(threeLanguages(t))

	if sel.SourceIndex() != 0 || sel.DestinationIndex() != 1 {
		t.Errorf("Expected (0, 1), got (%d, %d)", sel.SourceIndex(), sel.DestinationIndex())
	}

	if sel.Source().Code != "en" || sel.Destination().Code != "hi" {
		t.Errorf("Expected en->hi, got %s->%s", sel.Source().Code, sel.Destination().Code)
	}
}

func TestNewSelectionAt(t *testing.T) {
	reg := threeLanguages(t)

	tests := []struct {
		name     string
		src, dst int
		wantErr  bool
	}{
		{"valid", 2, 0, false},
		{"equal", 1, 1, true},
		{"negative", -1, 0, true},
		{"out of range", 0, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSelectionAt(reg, tt.src, tt.dst)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSelectionAt(%d, %d) error = %v, wantErr %v", tt.src, tt.dst, err, tt.wantErr)
			}
		})
	}
}

func TestCycleDestinationSkipsSource(t *testing.T) {
	sel := NewSelection(threeLanguages(t))

	if got := sel.CycleDestination(); got != 2 {
		t.Fatalf("First CycleDestination() = %d, want 2", got)
	}

	// 2 -> 0 collides with the source, so it moves on to 1
	if got := sel.CycleDestination(); got != 1 {
		t.Fatalf("Second CycleDestination() = %d, want 1", got)
	}

	if sel.SourceIndex() != 0 {
		t.Errorf("CycleDestination changed source to %d", sel.SourceIndex())
	}
}

func TestCycleSourcePushesDestination(t *testing.T) {
	sel := NewSelection(threeLanguages(t))

	// 0 -> 1 collides with the destination, which moves to 2
	if got := sel.CycleSource(); got != 1 {
		t.Fatalf("CycleSource() = %d, want 1", got)
	}
	if sel.DestinationIndex() != 2 {
		t.Errorf("Destination = %d, want 2", sel.DestinationIndex())
	}
}

func TestCycleSourceFullRound(t *testing.T) {
	reg, _ := NewRegistry(DefaultEntries())

	for start := 0; start < reg.Count(); start++ {
		for dst := 0; dst < reg.Count(); dst++ {
			if dst == start {
				continue
			}
			sel, err := NewSelectionAt(reg, start, dst)
			if err != nil {
				t.Fatalf("NewSelectionAt() error = %v", err)
			}

			for i := 0; i < reg.Count(); i++ {
				sel.CycleSource()
			}

			if sel.SourceIndex() != start {
				t.Errorf("After %d source cycles from %d, source = %d", reg.Count(), start, sel.SourceIndex())
			}

			// Once the source reaches the destination it keeps pushing it
			// ahead, so a full round always leaves it right after the source.
			want := reg.Next(start)
			if sel.DestinationIndex() != want {
				t.Errorf("Full source round from (%d, %d): destination = %d, want %d", start, dst, sel.DestinationIndex(), want)
			}
		}
	}
}

func TestCycleDestinationFullRound(t *testing.T) {
	reg, _ := NewRegistry(DefaultEntries())
	n := reg.Count()

	sel, _ := NewSelectionAt(reg, 2, 4)

	// The destination only visits the n-1 indices that are not the source
	for i := 0; i < n-1; i++ {
		sel.CycleDestination()
		if sel.DestinationIndex() == sel.SourceIndex() {
			t.Fatalf("Destination collided with source at step %d", i)
		}
	}

	if sel.DestinationIndex() != 4 {
		t.Errorf("After %d destination cycles, destination = %d, want 4", n-1, sel.DestinationIndex())
	}
	if sel.SourceIndex() != 2 {
		t.Errorf("Source changed to %d", sel.SourceIndex())
	}
}

func TestSelectionInvariantRandomWalk(t *testing.T) {
	for size := 2; size <= 7; size++ {
		entries := make([]Entry, size)
		for i := range entries {
			entries[i] = Entry{Name: string(rune('A' + i)), Code: string(rune('a' + i))}
		}
		reg, err := NewRegistry(entries)
		if err != nil {
			t.Fatalf("NewRegistry() error = %v", err)
		}

		rng := rand.New(rand.NewSource(int64(size)))
		sel := NewSelection(reg)

		for step := 0; step < 1000; step++ {
			if rng.Intn(2) == 0 {
				sel.CycleSource()
			} else {
				sel.CycleDestination()
			}

			if sel.SourceIndex() == sel.DestinationIndex() {
				t.Fatalf("size %d step %d: source == destination == %d", size, step, sel.SourceIndex())
			}
			if sel.SourceIndex() < 0 || sel.SourceIndex() >= size ||
				sel.DestinationIndex() < 0 || sel.DestinationIndex() >= size {
				t.Fatalf("size %d step %d: index out of range (%d, %d)", size, step, sel.SourceIndex(), sel.DestinationIndex())
			}
		}
	}
}

func TestTwoLanguageOscillation(t *testing.T) {
	reg, _ := NewRegistry([]Entry{{"English", "en"}, {"Hindi", "hi"}})
	sel := NewSelection(reg)

	// With two languages, cycling the destination always lands back on 1
	if got := sel.CycleDestination(); got != 1 {
		t.Errorf("CycleDestination() = %d, want 1", got)
	}

	// Cycling the source swaps the pair
	sel.CycleSource()
	if sel.SourceIndex() != 1 || sel.DestinationIndex() != 0 {
		t.Errorf("Expected (1, 0), got (%d, %d)", sel.SourceIndex(), sel.DestinationIndex())
	}
}
