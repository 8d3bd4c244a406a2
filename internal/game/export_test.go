package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExportSummary(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out", "results.txt")
	sum := Summary{
		Code:       "ABCDE",
		Score:      525,
		Reason:     ReasonTimeUp,
		Correct:    2,
		BestStreak: 2,
		StartedAt:  epoch,
		EndedAt:    epoch.Add(5 * time.Minute),
		Rounds: []RoundRecord{
			{Index: 1, Track: Track{Title: "Song 1", Artist: "Artist 1"}, Outcome: OutcomeCorrect, Cause: CauseGuess, Score: 225, MultiplierApplied: 1, RemainingMs: 15000},
			{Index: 2, Track: Track{Title: "Song 2", Artist: "Artist 2"}, Outcome: OutcomeCorrect, Cause: CauseGuess, Score: 300, MultiplierApplied: 2, RemainingMs: 10000, WrongGuesses: 1},
			{Index: 3, Track: Track{Title: "Song 3", Artist: "Artist 3"}, Outcome: OutcomeTimedOut, Cause: CauseSessionTime},
		},
	}

	if err := ExportSummary(sum, file); err != nil {
		t.Fatalf("should be able to export: %v", err)
	}
	if err := ExportSummary(sum, file); err != nil {
		t.Fatalf("should be able to append: %v", err)
	}

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("should be able to read export: %v", err)
	}
	out := string(b)
	for _, want := range []string{
		"Guess The Intro - Session ABCDE",
		"+ Round 1: Artist 1 - Song 1 (225 points, x1, 15.0s left)",
		"+ Round 2: Artist 2 - Song 2 (300 points, x2, 10.0s left, 1 wrong)",
		"x Round 3: Artist 3 - Song 3 (session_time)",
		"Score: 525  Correct: 2/3  Best streak: 2",
		"(time_up)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("export missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "Guess The Intro - Session"); n != 2 {
		t.Fatalf("expected two appended sessions, got %d", n)
	}
}
