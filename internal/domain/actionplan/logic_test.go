package actionplan

import (
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name  string
		total int
		done  int
		want  int
	}{
		{"no items", 0, 0, 0},
		{"none done", 4, 0, 0},
		{"three of four", 4, 3, 75},
		{"all done", 5, 5, 100},
		{"rounds up", 3, 2, 67},
		{"rounds down", 6, 1, 17},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Progress(tc.total, tc.done); got != tc.want {
				t.Fatalf("Progress(%d, %d) = %d, want %d", tc.total, tc.done, got, tc.want)
			}
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	nextWeek := now.AddDate(0, 0, 7)
	lastWeek := now.AddDate(0, 0, -7)

	tests := []struct {
		name string
		in   StatusInput
		want string
	}{
		{"empty plan before deadline", StatusInput{PrazoFinal: nextWeek}, StatusNaoIniciado},
		{"checkins alone mean underway", StatusInput{CheckinCount: 1, PrazoFinal: nextWeek}, StatusEmAndamento},
		{"three of four before deadline", StatusInput{TotalItems: 4, DoneItems: 3, PrazoFinal: nextWeek}, StatusEmAndamento},
		{"incomplete past deadline", StatusInput{TotalItems: 4, DoneItems: 3, PrazoFinal: lastWeek}, StatusAtrasado},
		{"empty plan past deadline", StatusInput{PrazoFinal: lastWeek}, StatusAtrasado},
		{"complete past deadline stays done", StatusInput{TotalItems: 2, DoneItems: 2, PrazoFinal: lastWeek}, StatusConcluido},
		{"complete before deadline", StatusInput{TotalItems: 2, DoneItems: 2, PrazoFinal: nextWeek}, StatusConcluido},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveStatus(tc.in, now); got != tc.want {
				t.Fatalf("DeriveStatus = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDoubleToggleRestoresDerivation(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	in := StatusInput{TotalItems: 4, DoneItems: 1, PrazoFinal: now.AddDate(0, 0, 7)}

	origPct := Progress(in.TotalItems, in.DoneItems)
	origStatus := DeriveStatus(in, now)

	in.DoneItems++ // toggle on
	in.DoneItems-- // toggle off

	if got := Progress(in.TotalItems, in.DoneItems); got != origPct {
		t.Fatalf("percentage after double toggle = %d, want %d", got, origPct)
	}
	if got := DeriveStatus(in, now); got != origStatus {
		t.Fatalf("status after double toggle = %q, want %q", got, origStatus)
	}
}
