package reports

import (
	"reflect"
	"testing"
)

func TestTopRecurring(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		n       int
		want    []string
	}{
		{
			name:    "orders by frequency",
			entries: []string{"Comunicação", "Proatividade", "Comunicação", "Organização", "Comunicação", "Proatividade"},
			n:       5,
			want:    []string{"Comunicação", "Proatividade", "Organização"},
		},
		{
			name:    "case insensitive keeps first spelling",
			entries: []string{"comunicação", "Comunicação", "Proatividade"},
			n:       5,
			want:    []string{"comunicação", "Proatividade"},
		},
		{
			name:    "limit applies",
			entries: []string{"a", "b", "c", "d", "e", "f"},
			n:       3,
			want:    []string{"a", "b", "c"},
		},
		{
			name:    "blank entries ignored",
			entries: []string{"", "  ", "Foco"},
			n:       5,
			want:    []string{"Foco"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := TopRecurring(tc.entries, tc.n); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("TopRecurring = %v, want %v", got, tc.want)
			}
		})
	}
}
