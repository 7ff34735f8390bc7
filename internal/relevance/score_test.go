package relevance

import "testing"

func TestScore_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     float64
	}{
		{"empty text", "", []string{"a"}, 0},
		{"empty keywords", "budget overrun", nil, 0},
		{"no match", "budget overrun", []string{"rocket"}, 0},
		{"full match", "budget overrun", []string{"budget", "overrun"}, 1},
		{"partial match", "budget overrun", []string{"budget", "rocket"}, 0.5},
		{"substring match", "budgeting", []string{"budget"}, 1},
		{"blank keyword ignored in numerator only", "budget", []string{"budget", " "}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.text, tt.keywords)
			if got != tt.want {
				t.Errorf("Score(%q, %v) = %v, want %v", tt.text, tt.keywords, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("score out of range: %v", got)
			}
		})
	}
}

func TestScore_MonotoneInMatches(t *testing.T) {
	text := "delay in shipment of parts"
	prev := 0.0
	sets := [][]string{
		{"rocket", "engine", "fuel"},
		{"delay", "engine", "fuel"},
		{"delay", "shipment", "fuel"},
		{"delay", "shipment", "parts"},
	}
	for _, kws := range sets {
		got := Score(text, kws)
		if got < prev {
			t.Fatalf("score decreased with more matches: %v -> %v for %v", prev, got, kws)
		}
		prev = got
	}
}
