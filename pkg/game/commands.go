package game

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jwebster45206/adventure-engine/pkg/dialogue"
	"github.com/jwebster45206/adventure-engine/pkg/events"
)

// run executes one command under the session lock, collecting the events
// it caused, and writes the snapshot through afterwards.
func (s *Session) run(ctx context.Context, name string, fn func() error) ([]events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := events.Record(s.bus)
	err := fn()
	evts := rec.Stop()
	if err != nil {
		s.log.Debug("command rejected", "command", name, "error", err)
		return evts, err
	}
	s.save(ctx)
	return evts, nil
}

func (s *Session) playing() error {
	if s.clock.Over() {
		return ErrGameOver
	}
	return nil
}

// Click handles a click on a hotspot of the current scene. Clicks are
// refused while a dialogue line or a prompt is on screen.
func (s *Session) Click(ctx context.Context, hotspot string) ([]events.Event, error) {
	return s.run(ctx, "click", func() error {
		if err := s.playing(); err != nil {
			return err
		}
		if s.seq.State() == dialogue.Playing || s.desk.modal() {
			return ErrBusy
		}
		return s.current.Click(ctx, hotspot)
	})
}

// Advance moves the dialogue to its next line.
func (s *Session) Advance(ctx context.Context) ([]events.Event, error) {
	return s.run(ctx, "advance", func() error {
		s.seq.AdvanceDialogue()
		return nil
	})
}

// GoBack shows the previous dialogue line again.
func (s *Session) GoBack(ctx context.Context) ([]events.Event, error) {
	return s.run(ctx, "back", func() error {
		s.seq.GoBackDialogue()
		return nil
	})
}

// Select makes a held item the one used on the next click. Selecting the
// selected item again deselects it.
func (s *Session) Select(ctx context.Context, itemID string) ([]events.Event, error) {
	return s.run(ctx, "select", func() error {
		item, ok := s.inv.Get(itemID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotHeld, itemID)
		}
		if s.sel.IsSelected(itemID) {
			s.sel.Clear()
			return nil
		}
		s.sel.Select(item)
		return nil
	})
}

func (s *Session) Deselect(ctx context.Context) ([]events.Event, error) {
	return s.run(ctx, "deselect", func() error {
		s.sel.ClearAll()
		return nil
	})
}

// Combine tries the recipe for two held items. Without a recipe the player
// gets a line and the selection is cleared.
func (s *Session) Combine(ctx context.Context, a, b string) ([]events.Event, error) {
	return s.run(ctx, "combine", func() error {
		if err := s.playing(); err != nil {
			return err
		}
		if s.seq.State() == dialogue.Playing || s.desk.modal() {
			return ErrBusy
		}
		first, ok := s.inv.Get(a)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotHeld, a)
		}
		second, ok := s.inv.Get(b)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotHeld, b)
		}
		s.sel.SetPending(first)
		s.sel.Select(second)
		if out := s.combinations.Combine(s.ctx, first, second); !out.Matched {
			s.sel.ClearAll()
			s.bus.Publish(events.Inline{Speaker: "jessica", Text: "Não consigo combinar essas coisas."})
		}
		return nil
	})
}

// Choose answers the open choice prompt, by choice id or, when id is
// empty, by index.
func (s *Session) Choose(ctx context.Context, id string, index int) ([]events.Event, error) {
	return s.run(ctx, "choose", func() error {
		open := s.desk.choices
		if open == nil {
			return fmt.Errorf("%w: no choices are open", ErrInvalidCommand)
		}
		if id != "" {
			index = slices.IndexFunc(open.Choices, func(c events.Choice) bool { return c.ID == id })
		}
		if index < 0 || index >= len(open.Choices) {
			return fmt.Errorf("%w: unknown choice %q", ErrInvalidCommand, id)
		}
		s.bus.Publish(events.Chosen{ChoiceID: open.Choices[index].ID, Index: index})
		return nil
	})
}

// ClickCloseupZone forwards a click on a zone of the open closeup.
func (s *Session) ClickCloseupZone(ctx context.Context, zone string) ([]events.Event, error) {
	return s.run(ctx, "closeup zone", func() error {
		open := s.desk.closeup
		if open == nil {
			return fmt.Errorf("%w: no closeup is open", ErrInvalidCommand)
		}
		if !slices.ContainsFunc(open.Zones, func(z events.Zone) bool { return z.ID == zone }) {
			return fmt.Errorf("%w: unknown zone %q", ErrInvalidCommand, zone)
		}
		s.bus.Publish(events.ZoneClicked{ZoneID: zone})
		return nil
	})
}

func (s *Session) CloseCloseup(ctx context.Context) ([]events.Event, error) {
	return s.run(ctx, "close closeup", func() error {
		if s.desk.closeup == nil {
			return fmt.Errorf("%w: no closeup is open", ErrInvalidCommand)
		}
		s.bus.Publish(events.CloseupDone{})
		return nil
	})
}

// CloseNoteCloseup dismisses the note, telling the waiting chain whether
// the note goes to the inventory.
func (s *Session) CloseNoteCloseup(ctx context.Context, addToInventory bool) ([]events.Event, error) {
	return s.run(ctx, "close note", func() error {
		if s.desk.note == nil {
			return fmt.Errorf("%w: no note is open", ErrInvalidCommand)
		}
		s.bus.Publish(events.NoteCloseupDone{AddToInventory: addToInventory})
		return nil
	})
}

// CompleteAcquisition reports that the pickup of itemID was shown. The
// item enters the inventory now.
func (s *Session) CompleteAcquisition(ctx context.Context, itemID string) ([]events.Event, error) {
	return s.run(ctx, "complete acquisition", func() error {
		if !s.desk.complete(itemID) {
			return fmt.Errorf("%w: no pending acquisition of %q", ErrInvalidCommand, itemID)
		}
		return nil
	})
}

// SubmitPadlock tries a code on the front gate.
func (s *Session) SubmitPadlock(ctx context.Context, code string) ([]events.Event, error) {
	return s.run(ctx, "padlock", func() error {
		if err := s.playing(); err != nil {
			return err
		}
		if s.desk.puzzle != PuzzlePadlock {
			return fmt.Errorf("%w: the padlock is not open", ErrInvalidCommand)
		}
		if !s.opts.Content.ValidPadlockCode(code) {
			s.bus.Publish(events.Inline{Speaker: "jessica", Text: "Não abriu. Esse não é o código."})
			return nil
		}
		s.desk.puzzle = ""
		s.bus.Publish(events.Signal{Name: events.GateUnlocked})
		return nil
	})
}

// ReportPuzzle delivers the outcome of a puzzle the client ran. The quiz
// reports a score instead of success.
func (s *Session) ReportPuzzle(ctx context.Context, puzzle string, success bool, score int) ([]events.Event, error) {
	return s.run(ctx, "puzzle", func() error {
		if err := s.playing(); err != nil {
			return err
		}
		if puzzle == "" || s.desk.puzzle != puzzle {
			return fmt.Errorf("%w: puzzle %q is not open", ErrInvalidCommand, puzzle)
		}
		s.desk.puzzle = ""
		switch puzzle {
		case PuzzleSafe:
			if success {
				s.bus.Publish(events.Signal{Name: events.SafeUnlocked})
			}
		case PuzzleHandGesture:
			if success {
				s.bus.Publish(events.Signal{Name: events.WardrobeUnlocked})
			}
		case PuzzleRhymeBattle:
			s.bus.Publish(events.RhymeBattleDone{Success: success})
		case PuzzleQuiz:
			s.bus.Publish(events.QuizDone{Score: score})
		case PuzzlePadlock:
			// Closing the padlock without a code.
		}
		return nil
	})
}

// Tick lets d of game time pass.
func (s *Session) Tick(ctx context.Context, d time.Duration) ([]events.Event, error) {
	return s.run(ctx, "tick", func() error {
		if err := s.playing(); err != nil {
			return err
		}
		s.clock.Advance(d)
		return nil
	})
}
