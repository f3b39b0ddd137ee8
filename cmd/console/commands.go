package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/game"
)

var errEmpty = errors.New("empty input")

const helpText = `Commands:
• Enter (empty): next line      • b: previous line
• <n> or <hotspot>: click       • use <item>: select an item
• drop: clear the selection     • combine <item> <item>
• choose <n>                    • zone <id>, close
• keep / leave: close a note    • code <1234>: padlock
• win|lose <puzzle> [score]     • /copy: copy transcript
• /help                         • Ctrl+C: quit`

// parseCommand turns a line typed by the player into a game command.
// Bare numbers pick from the listed hotspots or, while a choice is open,
// from the choices.
func parseCommand(input string, v game.View) (game.Command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		if v.Dialogue != nil {
			return game.Command{Type: game.CmdAdvance}, nil
		}
		return game.Command{}, errEmpty
	}
	verb, args := fields[0], fields[1:]

	if n, err := strconv.Atoi(verb); err == nil && len(args) == 0 {
		if v.Choices != nil {
			return choose(n, v)
		}
		hs := clickable(v)
		if n < 1 || n > len(hs) {
			return game.Command{}, fmt.Errorf("no hotspot %d", n)
		}
		return game.Command{Type: game.CmdClick, Hotspot: hs[n-1]}, nil
	}

	switch verb {
	case "n", "next":
		return game.Command{Type: game.CmdAdvance}, nil
	case "b", "back":
		return game.Command{Type: game.CmdBack}, nil
	case "click":
		if len(args) != 1 {
			return game.Command{}, errors.New("usage: click <hotspot>")
		}
		return game.Command{Type: game.CmdClick, Hotspot: args[0]}, nil
	case "use", "select":
		if len(args) != 1 {
			return game.Command{}, errors.New("usage: use <item>")
		}
		return game.Command{Type: game.CmdSelect, Item: args[0]}, nil
	case "drop", "deselect":
		return game.Command{Type: game.CmdDeselect}, nil
	case "combine":
		if len(args) != 2 {
			return game.Command{}, errors.New("usage: combine <item> <item>")
		}
		return game.Command{Type: game.CmdCombine, Item: args[0], With: args[1]}, nil
	case "choose":
		if len(args) != 1 {
			return game.Command{}, errors.New("usage: choose <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return game.Command{}, fmt.Errorf("not a number: %s", args[0])
		}
		return choose(n, v)
	case "zone":
		if len(args) != 1 {
			return game.Command{}, errors.New("usage: zone <id>")
		}
		return game.Command{Type: game.CmdZone, Zone: args[0]}, nil
	case "close":
		return game.Command{Type: game.CmdCloseCloseup}, nil
	case "keep", "leave":
		add := verb == "keep"
		return game.Command{Type: game.CmdCloseNote, AddToInventory: &add}, nil
	case "code":
		if len(args) != 1 {
			return game.Command{}, errors.New("usage: code <digits>")
		}
		return game.Command{Type: game.CmdPadlock, Code: args[0]}, nil
	case "win", "lose":
		if len(args) < 1 || len(args) > 2 {
			return game.Command{}, fmt.Errorf("usage: %s <puzzle> [score]", verb)
		}
		cmd := game.Command{Type: game.CmdPuzzle, Puzzle: args[0], Success: verb == "win"}
		if len(args) == 2 {
			score, err := strconv.Atoi(args[1])
			if err != nil {
				return game.Command{}, fmt.Errorf("not a score: %s", args[1])
			}
			cmd.Score = score
		}
		return cmd, nil
	default:
		for _, id := range clickable(v) {
			if id == verb && len(args) == 0 {
				return game.Command{Type: game.CmdClick, Hotspot: id}, nil
			}
		}
		return game.Command{}, fmt.Errorf("unknown command %q, try /help", verb)
	}
}

func choose(n int, v game.View) (game.Command, error) {
	if v.Choices == nil {
		return game.Command{}, errors.New("nothing to choose")
	}
	if n < 1 || n > len(v.Choices.Choices) {
		return game.Command{}, fmt.Errorf("no choice %d", n)
	}
	c := v.Choices.Choices[n-1]
	return game.Command{Type: game.CmdChoose, Choice: c.ID, Index: n - 1}, nil
}

// clickable lists the ids of the hotspots a click is handled on.
func clickable(v game.View) []string {
	var ids []string
	for _, h := range v.Hotspots {
		if h.Interactive() {
			ids = append(ids, h.ID)
		}
	}
	return ids
}
