package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jwebster45206/adventure-engine/internal/content"
	"github.com/jwebster45206/adventure-engine/pkg/dialogue"
)

func main() {
	dir := "data"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	fmt.Printf("Validating %s...\n", dir)
	problems, err := validateDataDir(context.Background(), dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	if len(problems) > 0 {
		fmt.Fprintf(os.Stderr, "Validation errors in %s:\n", dir)
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "  %s\n", p)
		}
		os.Exit(1)
	}
	fmt.Println("Game data is valid!")
}

// validateDataDir checks every dialogue document and the content file under
// dir. It returns the problems found; err is reserved for failures that
// stop validation altogether.
func validateDataDir(ctx context.Context, dir string) ([]string, error) {
	loader := dialogue.NewFileLoader(filepath.Join(dir, "dialogues"))
	ids, err := loader.IDs()
	if err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		problems []string
		docs     = make(map[string]*dialogue.Document, len(ids))
	)
	report := func(format string, args ...any) {
		mu.Lock()
		problems = append(problems, fmt.Sprintf(format, args...))
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, id := range ids {
		g.Go(func() error {
			if !dialogue.ValidID(id) {
				report("dialogue file %q must be lowercase snake_case", id)
				return nil
			}
			doc, err := loader.Load(gctx, id)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				report("%v", err)
				return nil
			}
			for _, msg := range checkDocument(doc) {
				report("%s: %s", id, msg)
			}
			mu.Lock()
			docs[id] = doc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := content.Load(filepath.Join(dir, "content.yaml"))
	if err != nil {
		problems = append(problems, err.Error())
	} else {
		problems = append(problems, checkRecipeDialogues(c, docs)...)
	}

	sort.Strings(problems)
	return problems, nil
}

func checkDocument(doc *dialogue.Document) []string {
	var out []string
	checkScript := func(where string, s dialogue.Script) {
		if len(s.Lines) == 0 {
			out = append(out, fmt.Sprintf("%s has no lines", where))
		}
		for i, l := range s.Lines {
			if l.Text == "" {
				out = append(out, fmt.Sprintf("%s line %d has no text", where, i))
			}
		}
	}
	if doc.Flat != nil {
		checkScript("script", *doc.Flat)
		return out
	}
	if len(doc.Sections) == 0 {
		out = append(out, "document has no sections")
	}
	for _, name := range doc.SectionNames() {
		if !dialogue.ValidID(name) {
			out = append(out, fmt.Sprintf("section %q must be lowercase snake_case", name))
		}
		checkScript(fmt.Sprintf("section %q", name), doc.Sections[name])
	}
	return out
}

// checkRecipeDialogues makes sure every recipe dialogue points at a script
// that exists.
func checkRecipeDialogues(c *content.Content, docs map[string]*dialogue.Document) []string {
	var out []string
	for i, r := range c.Recipes {
		if r.Dialogue == nil {
			continue
		}
		doc, ok := docs[r.Dialogue.Script]
		if !ok {
			out = append(out, fmt.Sprintf("recipes[%d] dialogue script %q does not exist", i, r.Dialogue.Script))
			continue
		}
		if _, err := doc.Script(r.Dialogue.Section); err != nil {
			out = append(out, fmt.Sprintf("recipes[%d]: %v", i, err))
		}
	}
	return out
}
