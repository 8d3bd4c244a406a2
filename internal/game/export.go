package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExportSummary appends a finished game to a plain text results file.
func ExportSummary(sum Summary, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if fileExists {
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Guess The Intro - Session %s\n", sum.Code))
	sb.WriteString(fmt.Sprintf("Started: %s\n", sum.StartedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	for _, r := range sum.Rounds {
		mark := "x"
		if r.Outcome == OutcomeCorrect {
			mark = "+"
		}
		sb.WriteString(fmt.Sprintf("%s Round %d: %s - %s", mark, r.Index, r.Track.Artist, r.Track.Title))
		if r.Outcome == OutcomeCorrect {
			sb.WriteString(fmt.Sprintf(" (%d points, x%d, %.1fs left", r.Score, r.MultiplierApplied, float64(r.RemainingMs)/1000))
		} else {
			sb.WriteString(fmt.Sprintf(" (%s", r.Cause))
		}
		if r.WrongGuesses > 0 {
			sb.WriteString(fmt.Sprintf(", %d wrong", r.WrongGuesses))
		}
		sb.WriteString(")\n")
	}

	sb.WriteString(strings.Repeat("-", 40) + "\n")
	sb.WriteString(fmt.Sprintf("Score: %d  Correct: %d/%d  Best streak: %d\n", sum.Score, sum.Correct, len(sum.Rounds), sum.BestStreak))
	sb.WriteString(fmt.Sprintf("Game ended at %s (%s)\n", sum.EndedAt.Format("2006-01-02 15:04:05"), sum.Reason))

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
