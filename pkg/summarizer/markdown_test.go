package summarizer

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/reelsort/pkg/mocks"
	"github.com/user/reelsort/pkg/review"
)

func sampleSummary() *Summary {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return NewBuilder().
		WithRun(RunInfo{
			Dir:       "/videos",
			TrashDir:  "/videos/trash",
			Queued:    4,
			Remaining: 1,
			StartedAt: start,
			EndedAt:   start.Add(75 * time.Second),
		}).
		WithResults([]review.Result{
			{File: "a.mp4", Outcome: review.OutcomeKept},
			{File: "b|c.mp4", Outcome: review.OutcomeTrashed, TrashedPath: "/videos/trash/b|c.mp4"},
			{File: "d.mp4", Outcome: review.OutcomeFailedOpen, Error: "moov atom not found"},
		}).
		Build()
}

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	result := NewMarkdownFormatter(WithTranslator(identity)).Format(sampleSummary())

	checks := []string{
		"# Review Summary",
		"| Directory | /videos |",
		"| Trash Directory | /videos/trash |",
		"| Queued | 4 |",
		"| Remaining | 1 |",
		"| Elapsed | 1:15 |",
		"| Status | Stopped |",
		"| Kept | 1 |",
		"| Trashed | 1 |",
		"| Skipped | 0 |",
		"| Failed to open | 1 |",
		"| 1 | a.mp4 | Kept |  |",
		`| 2 | b\|c.mp4 | Trashed | trash/b\|c.mp4 |`,
		"| 3 | d.mp4 | Failed to open | moov atom not found |",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q\n%s", check, result)
		}
	}
}

func TestMarkdownFormatter_Completed(t *testing.T) {
	s := sampleSummary()
	s.Run.Completed = true

	result := NewMarkdownFormatter(WithTranslator(identity)).Format(s)
	if !strings.Contains(result, "| Status | Completed |") {
		t.Error("expected completed status")
	}
}

func TestMarkdownFormatter_NoEntries(t *testing.T) {
	s := NewBuilder().WithRun(RunInfo{Dir: "/videos"}).Build()

	result := NewMarkdownFormatter(WithTranslator(identity)).Format(s)
	if strings.Contains(result, "## Files") {
		t.Error("expected no file table without entries")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Review Summary": "確認サマリー",
			"Directory":      "ディレクトリ",
			"Kept":           "保持",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	result := NewMarkdownFormatter(WithTranslator(translator)).Format(sampleSummary())

	for _, want := range []string{"確認サマリー", "ディレクトリ", "| 1 | a.mp4 | 保持 |"} {
		if !strings.Contains(result, want) {
			t.Errorf("expected translated %q", want)
		}
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	result := NewMarkdownFormatter(WithTranslator(identity), WithVersion("v1.2.0")).Format(sampleSummary())

	if !strings.Contains(result, "(reelsort v1.2.0)") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{1500 * time.Millisecond, "0:02"},
		{75 * time.Second, "1:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatDuration(tt.d); got != tt.want {
				t.Errorf("formatDuration(%s) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	path := filepath.Join("reports", "summary.md")
	w := NewWriter(FormatFunc(func(s *Summary) string { return "report for " + s.Run.Dir }), fs)

	if err := w.Write(path, sampleSummary()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, ok := fs.GetFile(path)
	if !ok {
		t.Fatal("expected summary file to be written")
	}
	if string(data) != "report for /videos" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error { return errors.New("disk full") }
	w := NewWriter(NewMarkdownFormatter(), fs)

	err := w.Write("summary.md", sampleSummary())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected write error, got %v", err)
	}
}

func identity(s string) string { return s }
