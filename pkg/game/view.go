package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/inventory"
	"github.com/jwebster45206/adventure-engine/pkg/scene"
)

// DialogueView is the line on screen.
type DialogueView struct {
	ScriptID string `json:"script_id"`
	Index    int    `json:"index"`
	Speaker  string `json:"speaker"`
	Text     string `json:"text"`
}

// View is everything a client needs to draw the game.
type View struct {
	SessionID           uuid.UUID           `json:"session_id"`
	Scene               string              `json:"scene"`
	Background          string              `json:"background,omitempty"`
	Hotspots            []scene.Hotspot     `json:"hotspots"`
	Inventory           []inventory.Item    `json:"inventory"`
	InventoryVisible    bool                `json:"inventory_visible"`
	Selected            *inventory.Item     `json:"selected,omitempty"`
	Dialogue            *DialogueView       `json:"dialogue,omitempty"`
	Choices             *events.Choices     `json:"choices,omitempty"`
	Closeup             *events.Closeup     `json:"closeup,omitempty"`
	NoteCloseup         *events.NoteCloseup `json:"note_closeup,omitempty"`
	Puzzle              string              `json:"puzzle,omitempty"`
	PendingAcquisitions []inventory.Item    `json:"pending_acquisitions,omitempty"`
	Objectives          bool                `json:"objectives_revealed"`
	Gifts               []string            `json:"gifts"`
	OfferingsTotal      int                 `json:"offerings_total"`
	Clock               string              `json:"clock"`
	RemainingSeconds    int                 `json:"remaining_seconds"`
	GameOver            bool                `json:"game_over"`
	Finished            bool                `json:"finished"`
}

// View returns the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	d := s.desk
	v := View{
		SessionID:        s.id,
		Inventory:        s.inv.Items(),
		InventoryVisible: d.inventoryVisible,
		Choices:          d.choices,
		Closeup:          d.closeup,
		NoteCloseup:      d.note,
		Puzzle:           d.puzzle,
		Objectives:       d.objectives,
		Gifts:            d.giftList(),
		OfferingsTotal:   len(s.opts.Content.Offerings),
		Clock:            s.clock.String(),
		RemainingSeconds: int(s.clock.Remaining() / time.Second),
		GameOver:         s.clock.Over(),
		Finished:         d.finished,
	}
	if len(d.pending) > 0 {
		v.PendingAcquisitions = append([]inventory.Item(nil), d.pending...)
	}
	if s.current != nil {
		v.Scene = s.current.Name()
		v.Background = s.current.Background()
		v.Hotspots = s.current.Hotspots()
	}
	if item, ok := s.sel.Selected(); ok {
		v.Selected = &item
	}
	if line, ok := s.seq.CurrentLine(); ok {
		v.Dialogue = &DialogueView{
			ScriptID: s.seq.ScriptID(),
			Index:    s.seq.Cursor(),
			Speaker:  line.Speaker,
			Text:     line.Text,
		}
	}
	return v
}

// Command is the wire form of a player action.
type Command struct {
	Type    string `json:"type"`
	Hotspot string `json:"hotspot,omitempty"`
	Item    string `json:"item,omitempty"`
	With    string `json:"with,omitempty"`
	Choice  string `json:"choice,omitempty"`
	Index   int    `json:"index,omitempty"`
	Zone    string `json:"zone,omitempty"`
	Code    string `json:"code,omitempty"`
	Puzzle  string `json:"puzzle,omitempty"`
	Success bool   `json:"success,omitempty"`
	Score   int    `json:"score,omitempty"`
	// AddToInventory defaults to true when closing a note.
	AddToInventory *bool `json:"add_to_inventory,omitempty"`
	Seconds        int   `json:"seconds,omitempty"`
}

// Command types.
const (
	CmdClick               = "click"
	CmdAdvance             = "advance"
	CmdBack                = "back"
	CmdSelect              = "select"
	CmdDeselect            = "deselect"
	CmdCombine             = "combine"
	CmdChoose              = "choose"
	CmdZone                = "zone"
	CmdCloseCloseup        = "close_closeup"
	CmdCloseNote           = "close_note"
	CmdCompleteAcquisition = "complete_acquisition"
	CmdPadlock             = "padlock"
	CmdPuzzle              = "puzzle"
	CmdTick                = "tick"
)

// Result is what a command caused and the state after it.
type Result struct {
	View   View           `json:"view"`
	Events []events.Event `json:"-"`
}

// Execute dispatches a wire command.
func (s *Session) Execute(ctx context.Context, cmd Command) (Result, error) {
	var (
		evts []events.Event
		err  error
	)
	switch cmd.Type {
	case CmdClick:
		evts, err = s.Click(ctx, cmd.Hotspot)
	case CmdAdvance:
		evts, err = s.Advance(ctx)
	case CmdBack:
		evts, err = s.GoBack(ctx)
	case CmdSelect:
		evts, err = s.Select(ctx, cmd.Item)
	case CmdDeselect:
		evts, err = s.Deselect(ctx)
	case CmdCombine:
		evts, err = s.Combine(ctx, cmd.Item, cmd.With)
	case CmdChoose:
		evts, err = s.Choose(ctx, cmd.Choice, cmd.Index)
	case CmdZone:
		evts, err = s.ClickCloseupZone(ctx, cmd.Zone)
	case CmdCloseCloseup:
		evts, err = s.CloseCloseup(ctx)
	case CmdCloseNote:
		add := cmd.AddToInventory == nil || *cmd.AddToInventory
		evts, err = s.CloseNoteCloseup(ctx, add)
	case CmdCompleteAcquisition:
		evts, err = s.CompleteAcquisition(ctx, cmd.Item)
	case CmdPadlock:
		evts, err = s.SubmitPadlock(ctx, cmd.Code)
	case CmdPuzzle:
		evts, err = s.ReportPuzzle(ctx, cmd.Puzzle, cmd.Success, cmd.Score)
	case CmdTick:
		evts, err = s.Tick(ctx, time.Duration(cmd.Seconds)*time.Second)
	default:
		err = fmt.Errorf("%w: unknown command type %q", ErrInvalidCommand, cmd.Type)
	}
	return Result{View: s.View(), Events: evts}, err
}
