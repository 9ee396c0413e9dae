package feedback

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	tests := []struct {
		name string
		in   StatusInput
		want string
	}{
		{
			name: "acknowledged is always on time",
			in:   StatusInput{CienciaColaborador: true, DataFeedback: now.AddDate(0, 0, -90), DataProximoFeedback: &yesterday},
			want: StatusEmDia,
		},
		{
			name: "next date in the past is overdue",
			in:   StatusInput{DataFeedback: now.AddDate(0, 0, -2), DataProximoFeedback: &yesterday},
			want: StatusAtrasado,
		},
		{
			name: "passed next date superseded by newer feedback",
			in:   StatusInput{DataFeedback: now.AddDate(0, 0, -2), DataProximoFeedback: &yesterday, HasNewer: true},
			want: StatusAguardandoCiencia,
		},
		{
			name: "next date in the future awaits acknowledgement",
			in:   StatusInput{DataFeedback: now.AddDate(0, 0, -1), DataProximoFeedback: &nextWeek},
			want: StatusAguardandoCiencia,
		},
		{
			name: "no next date within grace awaits acknowledgement",
			in:   StatusInput{DataFeedback: now.AddDate(0, 0, -10)},
			want: StatusAguardandoCiencia,
		},
		{
			name: "acknowledgement outstanding past grace is overdue",
			in:   StatusInput{DataFeedback: now.AddDate(0, 0, -31)},
			want: StatusAtrasado,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveStatus(tc.in, DefaultAckGraceDays, now); got != tc.want {
				t.Fatalf("DeriveStatus = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeriveStatusZeroGraceFallsBack(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	in := StatusInput{DataFeedback: now.AddDate(0, 0, -10)}
	if got := DeriveStatus(in, 0, now); got != StatusAguardandoCiencia {
		t.Fatalf("expected default grace period to apply, got %q", got)
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	in := StatusInput{DataFeedback: now.AddDate(0, 0, -30), DataProximoFeedback: &yesterday}
	if !Overdue(in, now) {
		t.Fatal("missed next date without acknowledgement must be overdue")
	}

	in.CienciaColaborador = true
	if Overdue(in, now) {
		t.Fatal("acknowledged feedback is never swept as overdue")
	}

	in = StatusInput{DataFeedback: now, DataProximoFeedback: &tomorrow}
	if Overdue(in, now) {
		t.Fatal("future next date is not overdue")
	}

	in = StatusInput{DataFeedback: now.AddDate(0, 0, -30), DataProximoFeedback: &yesterday, HasNewer: true}
	if Overdue(in, now) {
		t.Fatal("superseded feedback is not overdue")
	}
}
