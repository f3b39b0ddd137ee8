// Package events defines the closed set of game events and the synchronous
// bus that carries them between scenes, services and the presentation layer.
package events

import "github.com/jwebster45206/adventure-engine/pkg/inventory"

// Name identifies an event on the bus.
type Name string

const (
	DialogueLineStarted     Name = "dialogue-line-start"
	DialogueEnded           Name = "dialogue-ended"
	ShowDialogue            Name = "show-dialogue"
	ItemAcquired            Name = "item-acquired"
	ItemAcquisitionComplete Name = "item-acquisition-complete"
	ShowChoices             Name = "show-choices"
	ChoiceMade              Name = "choice-made"
	GiftCollected           Name = "gift-collected"
	AllOfferingsCollected   Name = "all-offerings-collected"
	ShowInventory           Name = "show-inventory"
	HideInventory           Name = "hide-inventory"
	ShowCloseup             Name = "show-closeup"
	CloseupZoneClicked      Name = "closeup-zone-clicked"
	CloseupClosed           Name = "closeup-closed"
	CloseCloseup            Name = "close-closeup"
	ShowNoteCloseup         Name = "show-note-closeup"
	NoteCloseupClosed       Name = "note-closeup-closed"
	RhymeBattleCompleted    Name = "rhyme-battle-completed"
	QuizCompleted           Name = "quiz-completed"
	SceneChanged            Name = "scene-changed"
	GameTimeChanged         Name = "game-time-changed"
	GameOver                Name = "game-over"

	// Any is the wildcard subscription key. Handlers registered under Any
	// observe every published event after the name-specific handlers.
	Any Name = "*"
)

// Scene-specific signals. These carry no payload beyond their name.
const (
	GateUnlocked          Name = "gate-unlocked"
	SafeUnlocked          Name = "safe-unlocked"
	WardrobeUnlocked      Name = "wardrobe-unlocked"
	ShowPadlock           Name = "show-padlock"
	ShowSafe              Name = "show-safe"
	ShowHandGesturePuzzle Name = "show-hand-gesture-puzzle"
	RevealObjectives      Name = "reveal-objectives"
	StartRhymeBattle      Name = "start-rhyme-battle"
	StartQuiz             Name = "start-quiz"
	ShowHappyBirthday     Name = "show-happy-birthday"
)

// Event is implemented by every payload type that may travel on the bus.
type Event interface {
	EventName() Name
}

// Line mirrors a dialogue line without importing the dialogue package.
type Line struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type LineStarted struct {
	ScriptID string `json:"script_id"`
	Index    int    `json:"index"`
	Line     Line   `json:"line"`
}

func (LineStarted) EventName() Name { return DialogueLineStarted }

type Ended struct {
	ScriptID string `json:"script_id"`
}

func (Ended) EventName() Name { return DialogueEnded }

// Inline is a non-blocking narrative line shown outside the sequencer.
type Inline struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

func (Inline) EventName() Name { return ShowDialogue }

type Acquired struct {
	Item inventory.Item `json:"item"`
}

func (Acquired) EventName() Name { return ItemAcquired }

type AcquisitionComplete struct {
	Item inventory.Item `json:"item"`
}

func (AcquisitionComplete) EventName() Name { return ItemAcquisitionComplete }

type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Choices struct {
	Question string   `json:"question,omitempty"`
	Choices  []Choice `json:"choices"`
}

func (Choices) EventName() Name { return ShowChoices }

type Chosen struct {
	ChoiceID string `json:"choice_id"`
	Index    int    `json:"index"`
}

func (Chosen) EventName() Name { return ChoiceMade }

type Gift struct {
	GiftID string `json:"gift_id"`
}

func (Gift) EventName() Name { return GiftCollected }

type OfferingsComplete struct{}

func (OfferingsComplete) EventName() Name { return AllOfferingsCollected }

type InventoryShown struct{}

func (InventoryShown) EventName() Name { return ShowInventory }

type InventoryHidden struct{}

func (InventoryHidden) EventName() Name { return HideInventory }

type Zone struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

type Closeup struct {
	Image string `json:"image"`
	Title string `json:"title,omitempty"`
	Zones []Zone `json:"zones,omitempty"`
}

func (Closeup) EventName() Name { return ShowCloseup }

type ZoneClicked struct {
	ZoneID string `json:"zone_id"`
}

func (ZoneClicked) EventName() Name { return CloseupZoneClicked }

type CloseupDone struct{}

func (CloseupDone) EventName() Name { return CloseupClosed }

// HideCloseup asks the presentation layer to dismiss the open closeup.
type HideCloseup struct{}

func (HideCloseup) EventName() Name { return CloseCloseup }

type NoteCloseup struct {
	AddToInventory bool `json:"add_to_inventory"`
}

func (NoteCloseup) EventName() Name { return ShowNoteCloseup }

type NoteCloseupDone struct {
	AddToInventory bool `json:"add_to_inventory"`
}

func (NoteCloseupDone) EventName() Name { return NoteCloseupClosed }

type RhymeBattleDone struct {
	Success bool `json:"success"`
}

func (RhymeBattleDone) EventName() Name { return RhymeBattleCompleted }

type QuizDone struct {
	Score int `json:"score"`
}

func (QuizDone) EventName() Name { return QuizCompleted }

type SceneSwitch struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
}

func (SceneSwitch) EventName() Name { return SceneChanged }

type TimeChanged struct {
	Clock     string `json:"clock"`
	Remaining int    `json:"remaining_seconds"`
}

func (TimeChanged) EventName() Name { return GameTimeChanged }

type Over struct {
	Reason string `json:"reason"`
}

func (Over) EventName() Name { return GameOver }

// Signal is a named world-state effect with no payload, such as an
// interaction effect ("grill_lit") or a puzzle outcome ("gate-unlocked").
type Signal struct {
	Name Name `json:"name"`
}

func (s Signal) EventName() Name { return s.Name }
