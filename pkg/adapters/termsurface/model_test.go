package termsurface

import (
	"image"
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/reelsort/pkg/ports"
)

func newTestModel() (model, *[]ports.Event) {
	var events []ports.Event
	m := newModel(func(ev ports.Event) { events = append(events, ev) })
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return updated.(model), &events
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_KeyBindings(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want ports.Event
	}{
		{"space toggles", runes(" "), ports.Toggle()},
		{"k keeps", runes("k"), ports.Decide(ports.DecisionKeep)},
		{"t trashes", runes("t"), ports.Decide(ports.DecisionTrash)},
		{"enter commits", tea.KeyMsg{Type: tea.KeyEnter}, ports.Commit()},
		{"s skips", runes("s"), ports.Skip()},
		{"q quits", runes("q"), ports.Quit()},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, ports.Quit()},
		{"digit jumps", runes("7"), ports.SeekTo(0.7)},
		{"zero jumps to start", runes("0"), ports.SeekTo(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, events := newTestModel()
			m.Update(tt.msg)

			if len(*events) != 1 {
				t.Fatalf("expected 1 event, got %v", *events)
			}
			if (*events)[0] != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, (*events)[0])
			}
		})
	}
}

func TestModel_ArrowsSeekRelative(t *testing.T) {
	m, events := newTestModel()
	updated, _ := m.Update(statusMsg{status: ports.Status{File: "a.mp4", Position: 5, Duration: 10}})
	m = updated.(model)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})

	if len(*events) != 2 {
		t.Fatalf("expected 2 events, got %v", *events)
	}
	if f := (*events)[0].Fraction; f < 0.549 || f > 0.551 {
		t.Errorf("expected +5%% to 0.55, got %v", f)
	}
	if f := (*events)[1].Fraction; f < 0.449 || f > 0.451 {
		t.Errorf("expected -5%% to 0.45, got %v", f)
	}
}

func TestModel_UnboundKeyEmitsNothing(t *testing.T) {
	m, events := newTestModel()
	m.Update(runes("x"))
	if len(*events) != 0 {
		t.Errorf("expected no events, got %v", *events)
	}
}

func TestModel_FinishQuits(t *testing.T) {
	m, _ := newTestModel()
	updated, cmd := m.Update(finishMsg{message: "All videos reviewed"})

	if updated.(model).finished != "All videos reviewed" {
		t.Error("expected finish message stored")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestModel_ViewShowsProgressAndDecision(t *testing.T) {
	m, _ := newTestModel()
	updated, _ := m.Update(statusMsg{status: ports.Status{
		File:     "b.mp4",
		Index:    1,
		Total:    3,
		Decision: ports.DecisionTrash,
		Position: 65,
		Duration: 130,
	}})
	view := updated.(model).View()

	for _, want := range []string{"Video 2 of 3", "b.mp4", "TRASH", "1:05 / 2:10"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestModel_NoticeClearedOnNextFile(t *testing.T) {
	m, _ := newTestModel()
	updated, _ := m.Update(statusMsg{status: ports.Status{File: "a.mp4", Total: 2}})
	updated, _ = updated.Update(noticeMsg{notice: ports.Notice{Text: "commit failed", Error: true}})
	if !strings.Contains(updated.View(), "commit failed") {
		t.Fatal("expected notice in view")
	}

	updated, _ = updated.Update(statusMsg{status: ports.Status{File: "b.mp4", Index: 1, Total: 2}})
	if strings.Contains(updated.View(), "commit failed") {
		t.Error("expected notice cleared when the file changes")
	}
}

func TestModel_FrameRendered(t *testing.T) {
	m, _ := newTestModel()
	img := image.NewRGBA(image.Rect(0, 0, 160, 90))
	updated, _ := m.Update(frameMsg{img: img})

	if updated.(model).picture == "" {
		t.Error("expected picture to be rendered")
	}
}

func TestCellSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 360))

	tests := []struct {
		maxCols, maxRows int
		wantCols         int
		wantRows         int
	}{
		{80, 100, 80, 22},
		{80, 10, 35, 10},
		{0, 10, 0, 0},
	}

	for _, tt := range tests {
		cols, rows := cellSize(img, tt.maxCols, tt.maxRows)
		if cols != tt.wantCols || rows != tt.wantRows {
			t.Errorf("cellSize(%d, %d) = %dx%d, want %dx%d", tt.maxCols, tt.maxRows, cols, rows, tt.wantCols, tt.wantRows)
		}
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}

	out := renderHalfBlocks(img, 4, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if strings.Count(out, halfBlock) != 8 {
		t.Errorf("expected 8 cells, got %d", strings.Count(out, halfBlock))
	}
	if renderHalfBlocks(img, 0, 2) != "" {
		t.Error("expected empty output for zero columns")
	}
}

func TestHexColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 0x12, G: 0xab, B: 0xff, A: 0xff})
	if got := hexColor(img, 0, 0); got != "#12abff" {
		t.Errorf("expected #12abff, got %s", got)
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{65, "1:05"},
		{3600, "60:00"},
		{-1, "0:00"},
	}
	for _, tt := range tests {
		if got := clock(tt.seconds); got != tt.want {
			t.Errorf("clock(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if progressBar(0.5, 0) != "" {
		t.Error("expected empty bar for zero width")
	}
	bar := progressBar(0.5, 10)
	if strings.Count(bar, "━") != 5 || strings.Count(bar, "─") != 5 {
		t.Errorf("expected half filled bar, got %q", bar)
	}
	if strings.Count(progressBar(2, 4), "━") != 4 {
		t.Error("expected fraction clamped to 1")
	}
}
