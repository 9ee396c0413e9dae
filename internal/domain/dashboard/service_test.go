package dashboard

import (
	"testing"
	"time"

	"feedbackhub/internal/domain/feedback"
)

func TestCountWithoutRecentFeedback(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	members := []string{"c1", "c2", "c3"}

	tests := []struct {
		name string
		fbs  []feedback.Feedback
		want int
	}{
		{"no feedback at all", nil, 3},
		{
			"fresh feedback counts",
			[]feedback.Feedback{
				{ColaboradorID: "c1", DataFeedback: now.AddDate(0, 0, -10)},
			},
			2,
		},
		{
			"feedback older than 90 days is stale",
			[]feedback.Feedback{
				{ColaboradorID: "c1", DataFeedback: now.AddDate(0, 0, -120)},
				{ColaboradorID: "c2", DataFeedback: now.AddDate(0, 0, -89)},
			},
			2,
		},
		{
			"only the freshest feedback per member matters",
			[]feedback.Feedback{
				{ColaboradorID: "c1", DataFeedback: now.AddDate(0, 0, -200)},
				{ColaboradorID: "c1", DataFeedback: now.AddDate(0, 0, -5)},
			},
			2,
		},
		{
			"feedback for outsiders is ignored",
			[]feedback.Feedback{
				{ColaboradorID: "someone-else", DataFeedback: now},
			},
			3,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := CountWithoutRecentFeedback(members, tc.fbs, now); got != tc.want {
				t.Fatalf("CountWithoutRecentFeedback = %d, want %d", got, tc.want)
			}
		})
	}
}
