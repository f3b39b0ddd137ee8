package dialogue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/adventure-engine/pkg/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	seq    *Sequencer
	loader *MemoryLoader
	ended  int
	starts []events.LineStarted
}

func newHarness() *harness {
	h := &harness{loader: NewMemoryLoader()}
	bus := events.NewBus(testLogger())
	bus.Subscribe(events.DialogueEnded, func(events.Event) { h.ended++ })
	bus.Subscribe(events.DialogueLineStarted, func(e events.Event) {
		h.starts = append(h.starts, e.(events.LineStarted))
	})
	h.seq = NewSequencer(h.loader, bus, testLogger())
	return h
}

func TestSequencer_HiBye(t *testing.T) {
	h := newHarness()
	h.loader.Put("greeting", Line{"A", "hi"}, Line{"A", "bye"})
	ctx := context.Background()

	if err := h.seq.LoadScript(ctx, "greeting", ""); err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if h.seq.State() != Loaded {
		t.Fatalf("state = %s, want loaded", h.seq.State())
	}
	if err := h.seq.StartDialogue(); err != nil {
		t.Fatalf("StartDialogue: %v", err)
	}
	if line, _ := h.seq.CurrentLine(); line != (Line{"A", "hi"}) {
		t.Errorf("current line = %+v, want hi", line)
	}

	h.seq.AdvanceDialogue()
	if line, _ := h.seq.CurrentLine(); line != (Line{"A", "bye"}) {
		t.Errorf("current line = %+v, want bye", line)
	}

	h.seq.AdvanceDialogue()
	if h.seq.State() != Idle || h.seq.IsActive() {
		t.Errorf("state = %s after final advance, want idle", h.seq.State())
	}
	if _, ok := h.seq.CurrentLine(); ok {
		t.Error("current line should be cleared after the end")
	}
	if h.ended != 1 {
		t.Errorf("dialogue-ended emitted %d times, want 1", h.ended)
	}

	h.seq.AdvanceDialogue()
	h.seq.AdvanceDialogue()
	if h.ended != 1 {
		t.Errorf("advancing while idle emitted extra ended events: %d", h.ended)
	}
}

func TestSequencer_EndsAfterExactlyLenAdvances(t *testing.T) {
	for n := 1; n <= 6; n++ {
		h := newHarness()
		lines := make([]Line, n)
		for i := range lines {
			lines[i] = Line{Speaker: "jessica", Text: string(rune('a' + i))}
		}
		h.loader.Put("script", lines...)

		if err := h.seq.Play(context.Background(), "script", ""); err != nil {
			t.Fatalf("Play: %v", err)
		}
		for i := 0; i < n; i++ {
			if h.ended != 0 {
				t.Fatalf("n=%d: ended early after %d advances", n, i)
			}
			h.seq.AdvanceDialogue()
		}
		if h.seq.State() != Idle || h.ended != 1 {
			t.Errorf("n=%d: state=%s ended=%d", n, h.seq.State(), h.ended)
		}
		if len(h.starts) != n {
			t.Errorf("n=%d: %d line-start events, want %d", n, len(h.starts), n)
		}
	}
}

func TestSequencer_GoBack(t *testing.T) {
	h := newHarness()
	h.loader.Put("s", Line{"A", "one"}, Line{"B", "two"})
	if err := h.seq.Play(context.Background(), "s", ""); err != nil {
		t.Fatal(err)
	}

	h.seq.GoBackDialogue()
	if h.seq.Cursor() != 0 || len(h.starts) != 1 {
		t.Errorf("go back at cursor 0 changed state: cursor=%d starts=%d", h.seq.Cursor(), len(h.starts))
	}

	h.seq.AdvanceDialogue()
	h.seq.GoBackDialogue()
	if line, _ := h.seq.CurrentLine(); line.Text != "one" {
		t.Errorf("current line = %q after go back, want one", line.Text)
	}
	if h.seq.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", h.seq.Cursor())
	}
}

func TestSequencer_LoadFailures(t *testing.T) {
	h := newHarness()
	h.loader.PutSection("kitchen", "freezer_first_open", Line{"jessica", "brr"})
	h.loader.Put("greeting", Line{"A", "hi"})
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		section string
		wantErr error
	}{
		{"missing document", "nope", "", ErrScriptNotFound},
		{"missing section", "kitchen", "wine_cooler_locked", ErrSectionNotFound},
		{"sectioned without section", "kitchen", "", ErrSectionNotFound},
		{"section of flat document", "greeting", "intro", ErrSectionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.seq.Play(ctx, "greeting", ""); err != nil {
				t.Fatal(err)
			}
			err := h.seq.LoadScript(ctx, tt.id, tt.section)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if h.seq.IsActive() {
				t.Error("failed load must leave the sequencer idle")
			}
			if err := h.seq.StartDialogue(); !errors.Is(err, ErrNoScript) {
				t.Errorf("StartDialogue after failed load = %v, want ErrNoScript", err)
			}
		})
	}
	if h.ended != 0 {
		t.Errorf("failed loads emitted %d ended events", h.ended)
	}
}

func TestSequencer_LoadOverwritesActive(t *testing.T) {
	h := newHarness()
	h.loader.Put("first", Line{"A", "1"}, Line{"A", "2"})
	h.loader.PutSection("doc", "second", Line{"B", "x"})
	ctx := context.Background()

	_ = h.seq.Play(ctx, "first", "")
	h.seq.AdvanceDialogue()
	if err := h.seq.Play(ctx, "doc", "second"); err != nil {
		t.Fatal(err)
	}
	if h.seq.ScriptID() != "doc/second" || h.seq.Cursor() != 0 {
		t.Errorf("script=%s cursor=%d", h.seq.ScriptID(), h.seq.Cursor())
	}
}

func TestSequencer_EmptyScript(t *testing.T) {
	h := newHarness()
	h.loader.Put("empty")
	if err := h.seq.LoadScript(context.Background(), "empty", ""); !errors.Is(err, ErrEmptyScript) {
		t.Errorf("LoadScript(empty) = %v, want ErrEmptyScript", err)
	}
	if h.seq.IsActive() {
		t.Errorf("sequencer active after loading an empty script, state = %s", h.seq.State())
	}
	if err := h.seq.Play(context.Background(), "empty", ""); !errors.Is(err, ErrEmptyScript) {
		t.Errorf("Play(empty) = %v, want ErrEmptyScript", err)
	}
	if h.ended != 0 {
		t.Errorf("ended = %d, want 0", h.ended)
	}
}

func TestSequencer_AdvanceBeforeStartIsIgnored(t *testing.T) {
	h := newHarness()
	h.loader.Put("s", Line{"A", "one"})
	_ = h.seq.LoadScript(context.Background(), "s", "")
	h.seq.AdvanceDialogue()
	if h.seq.State() != Loaded || h.ended != 0 {
		t.Errorf("state=%s ended=%d", h.seq.State(), h.ended)
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	flat := `{"lines":[{"speaker":"jessica","text":"oi"}]}`
	sectioned := "intro:\n  lines:\n    - speaker: ric\n      text: hey\n"
	if err := os.WriteFile(filepath.Join(dir, "note_on_fridge.json"), []byte(flat), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hallway.yaml"), []byte(sectioned), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"lines":[{"speaker":1}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := NewFileLoader(dir)
	ctx := context.Background()

	doc, err := loader.Load(ctx, "note_on_fridge")
	if err != nil {
		t.Fatalf("Load flat: %v", err)
	}
	s, err := doc.Script("")
	if err != nil || len(s.Lines) != 1 || s.ID != "note_on_fridge" {
		t.Errorf("flat script = %+v, %v", s, err)
	}

	doc, err = loader.Load(ctx, "hallway")
	if err != nil {
		t.Fatalf("Load yaml: %v", err)
	}
	s, err = doc.Script("intro")
	if err != nil || s.Lines[0].Speaker != "ric" {
		t.Errorf("yaml section = %+v, %v", s, err)
	}

	if _, err := loader.Load(ctx, "broken"); !errors.Is(err, ErrMalformed) {
		t.Errorf("broken document err = %v, want ErrMalformed", err)
	}
	if _, err := loader.Load(ctx, "../etc/passwd"); !errors.Is(err, ErrInvalidScriptID) {
		t.Errorf("traversal err = %v, want ErrInvalidScriptID", err)
	}
	if _, err := loader.Load(ctx, "absent"); !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("absent err = %v, want ErrScriptNotFound", err)
	}

	ids, err := loader.IDs()
	if err != nil || len(ids) != 3 {
		t.Errorf("IDs = %v, %v", ids, err)
	}
}
