// ABOUTME: Walks a normalized notebook and emits ordered render directives
// ABOUTME: Decides what is always shown and what sits behind a collapsible reveal

package render

import (
	"fmt"
	"strings"

	"github.com/2389/coven-notebook/internal/notebook"
)

// Render walks doc in outline order and returns every directive, with
// Expanded and Visible resolved against expanded. It is a pure function of
// its arguments; an empty set gives the default (all collapsed) view.
func Render(doc *notebook.Document, expanded ExpandedSet) []Directive {
	if doc == nil {
		return nil
	}

	r := &renderer{expanded: expanded}

	if doc.Format == notebook.FormatMarkdown {
		r.fixed(Directive{ID: "markdown", Kind: KindMarkdown, Text: doc.Markdown}, true)
		return r.out
	}

	for i, pair := range doc.Outline.Sections {
		r.section(fmt.Sprintf("s%d", i), pair.Key, pair.Value, doc.Sections[pair.Key])
	}
	return r.out
}

type renderer struct {
	expanded ExpandedSet
	out      []Directive
}

// fixed emits an always-expanded directive. Empty text is omitted.
func (r *renderer) fixed(d Directive, visible bool) {
	if d.Text == "" && d.Kind != KindSection && d.Kind != KindQuestion {
		return
	}
	d.DefaultExpanded = true
	d.Expanded = true
	d.Visible = visible
	r.out = append(r.out, d)
}

// collapsible emits a directive that starts collapsed and returns whether
// its children are visible.
func (r *renderer) collapsible(d Directive, visible bool) bool {
	d.Collapsible = true
	d.DefaultExpanded = false
	d.Expanded = r.expanded.Has(d.ID)
	d.Visible = visible
	r.out = append(r.out, d)
	return visible && d.Expanded
}

func (r *renderer) section(id, title, description string, sec *notebook.Section) {
	r.fixed(Directive{ID: id, Kind: KindSection, Label: title, Text: description}, true)
	if sec == nil {
		return
	}

	r.fixed(Directive{ID: id + "/intro", Kind: KindIntroduction, Label: "Introduction", Text: sec.Introduction, Depth: 1}, true)

	for j, block := range sec.ConceptBlocks {
		r.conceptBlock(fmt.Sprintf("%s/cb%d", id, j), block)
	}

	r.examples(id+"/examples", KindExamples, "Examples", sec.StandaloneExamples, 1, true)
	r.notes(id+"/notes", sec.StandaloneNotes, 1, true)
	r.fixed(Directive{ID: id + "/summary", Kind: KindSummary, Label: "Summary", Text: sec.Summary, Depth: 1}, true)
	r.examples(id+"/exercises", KindExercises, "Exercises", sec.Exercises, 1, true)
}

func (r *renderer) conceptBlock(id string, block notebook.ConceptBlock) {
	r.fixed(Directive{ID: id + "/definition", Kind: KindDefinition, Label: "Definition", Text: block.Definition, Depth: 1}, true)
	r.examples(id+"/examples", KindExamples, "Examples", block.Examples, 1, true)
	r.notes(id+"/notes", block.Notes, 1, true)

	for k, thm := range block.Theorems {
		thmID := fmt.Sprintf("%s/thm%d", id, k)
		r.fixed(Directive{ID: thmID, Kind: KindTheorem, Label: "Theorem", Text: thm.Statement, Depth: 1}, true)
		r.fixed(Directive{ID: thmID + "/proof", Kind: KindTheoremProof, Label: "Proof", Text: thm.Proof, Depth: 1}, true)
		r.examples(thmID+"/examples", KindExamples, "Examples", thm.Examples, 2, true)
	}
}

func (r *renderer) examples(id string, kind Kind, label string, examples []notebook.Example, depth int, visible bool) {
	if len(examples) == 0 {
		return
	}
	childVisible := r.collapsible(Directive{
		ID:        id,
		Kind:      kind,
		Label:     label,
		Depth:     depth,
		ItemCount: len(examples),
	}, visible)

	for k, ex := range examples {
		r.example(fmt.Sprintf("%s/%d", id, k), ex, depth+1, childVisible)
	}
}

func (r *renderer) notes(id string, notes []string, depth int, visible bool) {
	if len(notes) == 0 {
		return
	}
	childVisible := r.collapsible(Directive{
		ID:        id,
		Kind:      KindNotes,
		Label:     "Notes",
		Depth:     depth,
		ItemCount: len(notes),
	}, visible)

	for k, note := range notes {
		r.fixed(Directive{ID: fmt.Sprintf("%s/%d", id, k), Kind: KindNote, Text: note, Depth: depth + 1}, childVisible)
	}
}

// example emits the always-visible part of ex, then its reveal region.
// The reveal is omitted when the example has nothing to reveal.
func (r *renderer) example(id string, ex notebook.Example, depth int, visible bool) {
	q := Directive{
		ID:    id,
		Kind:  KindQuestion,
		Label: VariantLabel(ex.QuestionType()),
		Text:  ex.Prompt(),
		Depth: depth,
	}
	if fb, ok := ex.(notebook.FillBlank); ok {
		q.Runs = notebook.Annotate(fb.Question)
	}
	r.fixed(q, visible)

	if mc, ok := ex.(notebook.MultipleChoice); ok && len(mc.Options) > 0 {
		r.fixed(Directive{
			ID:      id + "/options",
			Kind:    KindOptions,
			Text:    optionsMarkdown(mc),
			Depth:   depth,
			Options: options(mc, false),
		}, visible)
	}

	revealed := revealFor(ex)
	if len(revealed) == 0 {
		return
	}

	revealID := id + "/reveal"
	childVisible := r.collapsible(Directive{
		ID:        revealID,
		Kind:      KindReveal,
		Label:     "Answer",
		Depth:     depth,
		ItemCount: len(revealed),
	}, visible)

	for _, d := range revealed {
		d.ID = revealID + "/" + string(d.Kind)
		d.Depth = depth + 1
		r.fixed(d, childVisible)
	}
}

// revealFor lists the hidden-until-revealed parts of ex in display order,
// skipping empty optional fields.
func revealFor(ex notebook.Example) []Directive {
	var out []Directive
	add := func(kind Kind, label, text string) {
		if text != "" {
			out = append(out, Directive{Kind: kind, Label: label, Text: text})
		}
	}

	switch e := ex.(type) {
	case notebook.MultipleChoice:
		if e.CorrectAnswer != "" {
			text := e.CorrectAnswer
			if opt, ok := e.CorrectOption(); ok {
				text = fmt.Sprintf("**%s.** %s", e.CorrectAnswer, opt)
			}
			out = append(out, Directive{
				Kind:    KindCorrectAnswer,
				Label:   "Correct answer",
				Text:    text,
				Options: options(e, true),
			})
		}
		add(KindExplanation, "Explanation", e.Explanation)
	case notebook.FillBlank:
		if e.Blanks.Len() > 0 {
			out = append(out, Directive{
				Kind:    KindBlankAnswers,
				Label:   "Blanks",
				Text:    blanksMarkdown(e.Blanks),
				Entries: append([]notebook.Pair(nil), e.Blanks...),
			})
		}
		// Both the per-blank answers and the combined answer are shown.
		add(KindAnswer, "Answer", e.Answer)
		add(KindExplanation, "Explanation", e.Explanation)
	case notebook.Proof:
		add(KindAnswer, "Answer", e.Answer)
		add(KindProofSteps, "Proof steps", e.ProofSteps)
	case notebook.ShortAnswer:
		add(KindAnswer, "Answer", e.Answer)
		add(KindExplanation, "Explanation", e.Explanation)
	case notebook.Code:
		add(KindCodeAnswer, "Code", e.CodeAnswer)
		add(KindExplanation, "Explanation", e.Explanation)
	case notebook.Legacy:
		add(KindAnswer, "Answer", e.Answer)
		add(KindProofSteps, "Proof", e.Proof)
	}
	return out
}

// VariantLabel is the display label for a question type
func VariantLabel(t notebook.QuestionType) string {
	switch t {
	case notebook.QuestionMultipleChoice:
		return "Multiple choice"
	case notebook.QuestionFillBlank:
		return "Fill in the blank"
	case notebook.QuestionProof:
		return "Proof"
	case notebook.QuestionShortAnswer:
		return "Short answer"
	case notebook.QuestionCode:
		return "Code"
	default:
		return "Legacy"
	}
}

func options(mc notebook.MultipleChoice, markCorrect bool) []Option {
	out := make([]Option, len(mc.Options))
	for i, text := range mc.Options {
		label := notebook.OptionLabel(i)
		out[i] = Option{Label: label, Text: text, Correct: markCorrect && mc.IsCorrect(label)}
	}
	return out
}

func optionsMarkdown(mc notebook.MultipleChoice) string {
	var b strings.Builder
	for _, opt := range options(mc, false) {
		fmt.Fprintf(&b, "- **%s.** %s\n", opt.Label, opt.Text)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func blanksMarkdown(blanks notebook.OrderedMap) string {
	var b strings.Builder
	for _, p := range blanks {
		fmt.Fprintf(&b, "- `%s`: %s\n", p.Key, p.Value)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
