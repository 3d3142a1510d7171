// ABOUTME: Render directive types and the externally owned expand/collapse set
// ABOUTME: Directives are recomputed every pass and never persisted

package render

import (
	"sort"

	"github.com/2389/coven-notebook/internal/notebook"
)

// Kind names what a directive displays
type Kind string

// Kind constants for every directive the renderer emits
const (
	KindMarkdown     Kind = "markdown"
	KindSection      Kind = "section"
	KindIntroduction Kind = "introduction"
	KindDefinition   Kind = "definition"
	KindExamples     Kind = "examples"
	KindNotes        Kind = "notes"
	KindNote         Kind = "note"
	KindTheorem      Kind = "theorem"
	KindTheoremProof Kind = "theorem_proof"
	KindSummary      Kind = "summary"
	KindExercises    Kind = "exercises"

	KindQuestion      Kind = "question"
	KindOptions       Kind = "options"
	KindReveal        Kind = "reveal"
	KindCorrectAnswer Kind = "correct_answer"
	KindBlankAnswers  Kind = "blank_answers"
	KindAnswer        Kind = "answer"
	KindProofSteps    Kind = "proof_steps"
	KindCodeAnswer    Kind = "code_answer"
	KindExplanation   Kind = "explanation"
)

// Option is one lettered multiple-choice option
type Option struct {
	Label string
	Text  string
	// Correct is only set on options carried by a KindCorrectAnswer directive
	Correct bool
}

// Directive describes one piece of content and how it starts out.
type Directive struct {
	// ID is a stable path such as "s0/cb1/examples/2/reveal"
	ID    string
	Kind  Kind
	Label string
	// Text is markdown handed to the markdown engine
	Text  string
	Depth int

	Collapsible     bool
	DefaultExpanded bool
	// ItemCount is the number of children of a group directive
	ItemCount int

	// Expanded is the resolved state: always true for non-collapsible directives
	Expanded bool
	// Visible is true when every collapsible ancestor is expanded
	Visible bool

	// Runs holds the annotated question of a fill-blank example
	Runs []notebook.Run
	// Options holds multiple-choice options
	Options []Option
	// Entries holds fill-blank answers in placeholder order
	Entries []notebook.Pair
}

// IsGroup reports whether d collects a list of items
func (d Directive) IsGroup() bool {
	switch d.Kind {
	case KindExamples, KindNotes, KindExercises:
		return true
	}
	return false
}

// ExpandedSet holds the ids of collapsible directives the user has opened.
// Each id toggles independently. The zero value is empty and ready to use.
type ExpandedSet struct {
	ids map[string]struct{}
}

// NewExpandedSet creates a set holding ids
func NewExpandedSet(ids ...string) ExpandedSet {
	var s ExpandedSet
	for _, id := range ids {
		s.Expand(id)
	}
	return s
}

// Has reports whether id is expanded
func (s ExpandedSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Expand marks id expanded
func (s *ExpandedSet) Expand(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

// Collapse marks id collapsed
func (s *ExpandedSet) Collapse(id string) {
	delete(s.ids, id)
}

// Toggle flips id and returns its new state
func (s *ExpandedSet) Toggle(id string) bool {
	if s.Has(id) {
		s.Collapse(id)
		return false
	}
	s.Expand(id)
	return true
}

// Len returns the number of expanded ids
func (s ExpandedSet) Len() int {
	return len(s.ids)
}

// IDs returns the expanded ids sorted
func (s ExpandedSet) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// VisibleOnly returns the directives the user currently sees
func VisibleOnly(directives []Directive) []Directive {
	out := make([]Directive, 0, len(directives))
	for _, d := range directives {
		if d.Visible {
			out = append(out, d)
		}
	}
	return out
}
