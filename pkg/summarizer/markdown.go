package summarizer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/reelsort/pkg/review"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator overrides the label translator. Defaults to l10n.T.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: l10n.T}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Review Summary"))

	// Run
	fmt.Fprintf(&b, "## %s\n\n", t("Run"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Directory"), s.Run.Dir)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Trash Directory"), s.Run.TrashDir)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Queued"), s.Run.Queued)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Remaining"), s.Run.Remaining)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Elapsed"), formatDuration(s.Run.Elapsed()))
	status := t("Stopped")
	if s.Run.Completed {
		status = t("Completed")
	}
	fmt.Fprintf(&b, "| %s | %s |\n\n", t("Status"), status)

	// Outcomes
	fmt.Fprintf(&b, "## %s\n\n", t("Outcomes"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Outcome"), t("Count"))
	fmt.Fprintf(&b, "| %s | %d |\n", t("Kept"), s.Stats.Kept)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Trashed"), s.Stats.Trashed)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Skipped"), s.Stats.Skipped)
	fmt.Fprintf(&b, "| %s | %d |\n\n", t("Failed to open"), s.Stats.FailedOpen)

	// Files
	if len(s.Entries) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Files"))
		fmt.Fprintf(&b, "| # | %s | %s | %s |\n|---|---|---|---|\n", t("File"), t("Outcome"), t("Detail"))
		for i, e := range s.Entries {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, escapeCell(e.File), f.outcomeLabel(e.Outcome), escapeCell(detail(e)))
		}
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("---\n\n")
	footer := fmt.Sprintf("%s %s", t("Generated at"), s.GeneratedAt.Format(time.RFC3339))
	if f.version != "" {
		footer += fmt.Sprintf(" (reelsort %s)", f.version)
	}
	b.WriteString(footer + "\n")

	return b.String()
}

func (f *MarkdownFormatter) outcomeLabel(o review.Outcome) string {
	switch o {
	case review.OutcomeKept:
		return f.translate("Kept")
	case review.OutcomeTrashed:
		return f.translate("Trashed")
	case review.OutcomeSkipped:
		return f.translate("Skipped")
	case review.OutcomeFailedOpen:
		return f.translate("Failed to open")
	default:
		return string(o)
	}
}

func detail(r review.Result) string {
	if r.Error != "" {
		return r.Error
	}
	if r.TrashedPath != "" {
		return filepath.Base(filepath.Dir(r.TrashedPath)) + "/" + filepath.Base(r.TrashedPath)
	}
	return ""
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// formatDuration renders d as m:ss, or h:mm:ss past an hour.
func formatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
