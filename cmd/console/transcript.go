package main

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/adventure-engine/pkg/events"
	"github.com/jwebster45206/adventure-engine/pkg/game"
)

// describe renders an event as a transcript entry. Events with nothing
// worth showing return "".
func describe(evt events.Event) string {
	switch e := evt.(type) {
	case events.LineStarted:
		return speak(e.Line.Speaker, e.Line.Text)
	case events.Inline:
		return speak(e.Speaker, e.Text)
	case events.AcquisitionComplete:
		return fmt.Sprintf("+ %s %s", e.Item.Icon, e.Item.DisplayName())
	case events.SceneSwitch:
		return "== " + e.To + " =="
	case events.Choices:
		var b strings.Builder
		if e.Question != "" {
			b.WriteString(e.Question + "\n")
		}
		for i, c := range e.Choices {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, c.Text)
		}
		return strings.TrimRight(b.String(), "\n")
	case events.Closeup:
		zones := make([]string, 0, len(e.Zones))
		for _, z := range e.Zones {
			zones = append(zones, z.ID)
		}
		return fmt.Sprintf("[%s] zones: %s (zone <id>, close)", e.Title, strings.Join(zones, ", "))
	case events.NoteCloseup:
		return "[bilhete] keep / leave"
	case events.Over:
		return "*** " + e.Reason + " ***"
	case events.Signal:
		switch e.Name {
		case events.ShowPadlock:
			return "[cadeado] code <1234>"
		case events.ShowSafe:
			return "[cofre] win safe / lose safe"
		case events.ShowHandGesturePuzzle:
			return "[armário] win hand_gesture / lose hand_gesture"
		case events.StartQuiz:
			return "[quiz] win quiz <score> / lose quiz <score>"
		case events.StartRhymeBattle:
			return "[batalha de rimas] win rhyme_battle / lose rhyme_battle"
		case events.RevealObjectives:
			return "* Objetivos revelados"
		case events.ShowHappyBirthday:
			return "*** Feliz aniversário! ***"
		}
	}
	return ""
}

func speak(speaker, text string) string {
	if speaker == "" {
		return text
	}
	return speaker + ": " + text
}

// formatEntry wraps a transcript entry and colors a leading speaker name.
func formatEntry(entry string, width int) string {
	if width > 0 {
		entry = wordwrap.String(entry, width)
	}
	switch {
	case strings.HasPrefix(entry, "+ "):
		return itemStyle.Render(entry)
	case strings.HasPrefix(entry, "== "):
		return sceneStyle.Render(entry)
	case strings.HasPrefix(entry, "["), strings.HasPrefix(entry, "*"):
		return promptStyle.Render(entry)
	}
	if idx := strings.Index(entry, ": "); idx > 0 && idx <= 20 && !strings.Contains(entry[:idx], "\n") {
		return speakerStyle.Render(entry[:idx+1]) + entry[idx+1:]
	}
	return entry
}

func writeMetadata(v game.View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("GAME STATE") + "\n\n")

	fmt.Fprintf(&b, "Scene:\n%s\n\n", v.Scene)
	fmt.Fprintf(&b, "Clock:\n%s\n\n", v.Clock)

	b.WriteString("Hotspots:\n")
	ids := clickable(v)
	if len(ids) == 0 {
		b.WriteString("None\n")
	}
	for i, id := range ids {
		fmt.Fprintf(&b, "%d. %s\n", i+1, id)
	}
	b.WriteString("\n")

	if v.InventoryVisible {
		b.WriteString("Inventory:\n")
		for _, it := range v.Inventory {
			marker := "•"
			if v.Selected != nil && v.Selected.ID == it.ID {
				marker = "▶"
			}
			line := fmt.Sprintf("%s %s %s", marker, it.Icon, it.ID)
			if it.Quantity > 1 {
				line += fmt.Sprintf(" x%d", it.Quantity)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if v.Objectives {
		fmt.Fprintf(&b, "Oferendas: %d/%d\n\n", len(v.Gifts), v.OfferingsTotal)
	}
	if v.Puzzle != "" {
		fmt.Fprintf(&b, "Puzzle: %s\n\n", v.Puzzle)
	}
	return b.String()
}
