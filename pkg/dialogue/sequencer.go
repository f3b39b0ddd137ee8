package dialogue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/adventure-engine/pkg/events"
)

// State is the sequencer's lifecycle position.
type State int

const (
	Idle State = iota
	Loaded
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Sequencer plays one script at a time and reports its progress on the
// bus. It is not safe for concurrent use; callers serialize access.
type Sequencer struct {
	loader Loader
	bus    *events.Bus
	logger *slog.Logger

	script  *Script
	cursor  int
	state   State
	current *Line
}

func NewSequencer(loader Loader, bus *events.Bus, logger *slog.Logger) *Sequencer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{
		loader: loader,
		bus:    bus,
		logger: logger,
	}
}

// LoadScript replaces any current script with the one named by id, or with
// one of its sections. A script without lines is rejected. On failure the
// sequencer is left Idle with no script.
func (s *Sequencer) LoadScript(ctx context.Context, id, section string) error {
	s.reset()

	doc, err := s.loader.Load(ctx, id)
	if err != nil {
		s.logger.Error("failed to load dialogue script", "script", id, "section", section, "error", err)
		return err
	}
	script, err := doc.Script(section)
	if err != nil {
		s.logger.Error("failed to load dialogue script", "script", id, "section", section, "error", err)
		return err
	}
	if len(script.Lines) == 0 {
		err := fmt.Errorf("%w: %s", ErrEmptyScript, script.ID)
		s.logger.Error("failed to load dialogue script", "script", id, "section", section, "error", err)
		return err
	}

	s.script = &script
	s.cursor = 0
	s.state = Loaded
	s.logger.Debug("dialogue script loaded", "script", script.ID, "lines", len(script.Lines))
	return nil
}

// StartDialogue shows the first line of the loaded script.
func (s *Sequencer) StartDialogue() error {
	if s.script == nil || len(s.script.Lines) == 0 {
		s.logger.Warn("cannot start dialogue", "error", ErrNoScript)
		return ErrNoScript
	}
	s.cursor = 0
	s.state = Playing
	s.show()
	return nil
}

// AdvanceDialogue moves to the next line, ending the dialogue after the
// last one. It does nothing unless a dialogue is playing.
func (s *Sequencer) AdvanceDialogue() {
	if s.state != Playing {
		s.logger.Debug("advance ignored", "state", s.state.String())
		return
	}
	s.cursor++
	if s.cursor >= len(s.script.Lines) {
		s.end()
		return
	}
	s.show()
}

// GoBackDialogue moves to the previous line. At the first line it does
// nothing.
func (s *Sequencer) GoBackDialogue() {
	if s.state != Playing || s.cursor == 0 {
		return
	}
	s.cursor--
	s.show()
}

// Play loads and starts a script in one call.
func (s *Sequencer) Play(ctx context.Context, id, section string) error {
	if err := s.LoadScript(ctx, id, section); err != nil {
		return err
	}
	return s.StartDialogue()
}

// IsActive reports whether a script is loaded.
func (s *Sequencer) IsActive() bool { return s.state != Idle }

func (s *Sequencer) State() State { return s.state }

func (s *Sequencer) Cursor() int { return s.cursor }

// CurrentLine returns the line on display, if any.
func (s *Sequencer) CurrentLine() (Line, bool) {
	if s.current == nil {
		return Line{}, false
	}
	return *s.current, true
}

// ScriptID names the loaded script, or "" when idle.
func (s *Sequencer) ScriptID() string {
	if s.script == nil {
		return ""
	}
	return s.script.ID
}

func (s *Sequencer) show() {
	line := s.script.Lines[s.cursor]
	s.current = &line
	s.bus.Publish(events.LineStarted{
		ScriptID: s.script.ID,
		Index:    s.cursor,
		Line:     events.Line{Speaker: line.Speaker, Text: line.Text},
	})
}

func (s *Sequencer) end() {
	id := s.script.ID
	s.reset()
	s.logger.Debug("dialogue ended", "script", id)
	s.bus.Publish(events.Ended{ScriptID: id})
}

func (s *Sequencer) reset() {
	s.script = nil
	s.cursor = 0
	s.state = Idle
	s.current = nil
}
