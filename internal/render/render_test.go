// ABOUTME: Tests for directive emission from normalized notebooks
// ABOUTME: Covers traversal order, visibility defaults, reveal contents and independent toggles

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/coven-notebook/internal/notebook"
)

func parse(t *testing.T, raw string) *notebook.Document {
	t.Helper()
	doc, err := notebook.NewNormalizer(nil).ParseDocument([]byte(raw))
	require.NoError(t, err)
	return doc
}

func byID(t *testing.T, directives []Directive, id string) Directive {
	t.Helper()
	for _, d := range directives {
		if d.ID == id {
			return d
		}
	}
	require.Failf(t, "directive not found", "id %q", id)
	return Directive{}
}

func ids(directives []Directive) []string {
	out := make([]string, len(directives))
	for i, d := range directives {
		out[i] = d.ID
	}
	return out
}

const conceptDoc = `{
	"format": "structured",
	"outline": {"notebook_title": "N", "outlines": {"Signs": "About signs"}},
	"sections": {
		"Signs": {
			"concept_blocks": [{
				"definition": "x is positive when x>0",
				"examples": [
					{"question_type":"multiple_choice","question":"Which is negative?","options":["x>0","x<0","x=0"],"correct_answer":"B"},
					{"question_type":"fill_blank","question":"[空1]+[空2]=10","blanks":["5","5"]}
				]
			}]
		}
	}
}`

func TestRender_ConceptBlockScenario(t *testing.T) {
	directives := Render(parse(t, conceptDoc), ExpandedSet{})

	def := byID(t, directives, "s0/cb0/definition")
	assert.Equal(t, KindDefinition, def.Kind)
	assert.False(t, def.Collapsible)
	assert.True(t, def.DefaultExpanded)
	assert.True(t, def.Visible)

	group := byID(t, directives, "s0/cb0/examples")
	assert.Equal(t, KindExamples, group.Kind)
	assert.True(t, group.Collapsible)
	assert.False(t, group.DefaultExpanded)
	assert.False(t, group.Expanded)
	assert.Equal(t, 2, group.ItemCount)

	assert.Equal(t, []string{
		"s0",
		"s0/cb0/definition",
		"s0/cb0/examples",
		"s0/cb0/examples/0",
		"s0/cb0/examples/0/options",
		"s0/cb0/examples/0/reveal",
		"s0/cb0/examples/0/reveal/correct_answer",
		"s0/cb0/examples/1",
		"s0/cb0/examples/1/reveal",
		"s0/cb0/examples/1/reveal/blank_answers",
	}, ids(directives))

	// Collapsed group hides everything under it.
	assert.Equal(t, []string{"s0", "s0/cb0/definition", "s0/cb0/examples"}, ids(VisibleOnly(directives)))
}

func TestRender_SectionOrderFollowsOutline(t *testing.T) {
	doc := &notebook.Document{
		Format: notebook.FormatStructured,
		Outline: notebook.Outline{Sections: notebook.OrderedMap{
			{Key: "Third", Value: "c"},
			{Key: "First", Value: "a"},
			{Key: "Missing", Value: "m"},
		}},
		Sections: map[string]*notebook.Section{
			"First": {Introduction: "intro first"},
			"Third": {
				Introduction: "intro third",
				ConceptBlocks: []notebook.ConceptBlock{
					{Definition: "d0"},
					{Definition: "d1"},
					{Definition: "d2"},
				},
			},
			"Unlisted": {Introduction: "never shown"},
		},
	}

	directives := Render(doc, ExpandedSet{})

	var headings, defs []string
	for _, d := range directives {
		switch d.Kind {
		case KindSection:
			headings = append(headings, d.Label)
		case KindDefinition:
			defs = append(defs, d.Text)
		}
		assert.NotEqual(t, "never shown", d.Text)
	}
	assert.Equal(t, []string{"Third", "First", "Missing"}, headings)
	assert.Equal(t, []string{"d0", "d1", "d2"}, defs)
}

func TestRender_SectionSequence(t *testing.T) {
	sec := &notebook.Section{
		Introduction: "intro",
		ConceptBlocks: []notebook.ConceptBlock{{
			Definition: "def",
			Examples:   []notebook.Example{notebook.ShortAnswer{Question: "q"}},
			Notes:      []string{"n"},
			Theorems: []notebook.Theorem{{
				Statement: "thm",
				Proof:     "pf",
				Examples:  []notebook.Example{notebook.Proof{Question: "prove"}},
			}},
		}},
		StandaloneExamples: []notebook.Example{notebook.Code{Question: "code"}},
		StandaloneNotes:    []string{"sn"},
		Summary:            "sum",
		Exercises:          []notebook.Example{notebook.ShortAnswer{Question: "ex"}},
	}
	doc := &notebook.Document{
		Format:   notebook.FormatStructured,
		Outline:  notebook.Outline{Sections: notebook.OrderedMap{{Key: "S", Value: ""}}},
		Sections: map[string]*notebook.Section{"S": sec},
	}

	var kinds []Kind
	for _, d := range Render(doc, ExpandedSet{}) {
		if d.Depth <= 2 && d.Kind != KindQuestion && d.Kind != KindNote {
			kinds = append(kinds, d.Kind)
		}
	}
	assert.Equal(t, []Kind{
		KindSection,
		KindIntroduction,
		KindDefinition,
		KindExamples,
		KindNotes,
		KindTheorem,
		KindTheoremProof,
		KindExamples,
		KindExamples,
		KindNotes,
		KindSummary,
		KindExercises,
	}, kinds)

	thmExamples := byID(t, Render(doc, ExpandedSet{}), "s0/cb0/thm0/examples")
	assert.Equal(t, 2, thmExamples.Depth)
	assert.True(t, thmExamples.Collapsible)
}

func TestRender_RevealContentsPerVariant(t *testing.T) {
	tests := []struct {
		name  string
		ex    notebook.Example
		kinds []Kind
	}{
		{
			name:  "multiple choice",
			ex:    notebook.MultipleChoice{Question: "q", Options: []string{"a", "b"}, CorrectAnswer: "A", Explanation: "e"},
			kinds: []Kind{KindQuestion, KindOptions, KindReveal, KindCorrectAnswer, KindExplanation},
		},
		{
			name:  "fill blank shows blanks and answer",
			ex:    notebook.FillBlank{Question: "[空1]", Blanks: notebook.OrderedMap{{Key: "[空1]", Value: "x"}}, Answer: "x", Explanation: "e"},
			kinds: []Kind{KindQuestion, KindReveal, KindBlankAnswers, KindAnswer, KindExplanation},
		},
		{
			name:  "proof",
			ex:    notebook.Proof{Question: "q", Answer: "a", ProofSteps: "s"},
			kinds: []Kind{KindQuestion, KindReveal, KindAnswer, KindProofSteps},
		},
		{
			name:  "short answer without explanation",
			ex:    notebook.ShortAnswer{Question: "q", Answer: "a"},
			kinds: []Kind{KindQuestion, KindReveal, KindAnswer},
		},
		{
			name:  "code",
			ex:    notebook.Code{Question: "q", CodeAnswer: "c", Explanation: "e"},
			kinds: []Kind{KindQuestion, KindReveal, KindCodeAnswer, KindExplanation},
		},
		{
			name:  "legacy",
			ex:    notebook.Legacy{Question: "q", Answer: "a", Proof: "p"},
			kinds: []Kind{KindQuestion, KindReveal, KindAnswer, KindProofSteps},
		},
		{
			name:  "nothing to reveal",
			ex:    notebook.ShortAnswer{Question: "q"},
			kinds: []Kind{KindQuestion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &renderer{}
			r.example("x", tt.ex, 0, true)

			var kinds []Kind
			for _, d := range r.out {
				kinds = append(kinds, d.Kind)
			}
			assert.Equal(t, tt.kinds, kinds)
		})
	}
}

func TestRender_LegacyAnswerOnly(t *testing.T) {
	r := &renderer{expanded: NewExpandedSet("x/reveal")}
	r.example("x", notebook.Legacy{Answer: "42"}, 0, true)

	require.Len(t, r.out, 3)
	assert.Equal(t, "Legacy", r.out[0].Label)
	assert.Empty(t, r.out[0].Text)
	assert.Equal(t, KindAnswer, r.out[2].Kind)
	assert.Equal(t, "42", r.out[2].Text)
	assert.True(t, r.out[2].Visible)
}

func TestRender_MultipleChoiceHighlighting(t *testing.T) {
	r := &renderer{}
	r.example("x", notebook.MultipleChoice{Question: "q", Options: []string{"x>0", "x<0", "x=0"}, CorrectAnswer: "B"}, 0, true)

	opts := r.out[1]
	require.Equal(t, KindOptions, opts.Kind)
	for _, o := range opts.Options {
		assert.False(t, o.Correct, "always-visible options must not give the answer away")
	}

	correct := r.out[3]
	require.Equal(t, KindCorrectAnswer, correct.Kind)
	assert.Equal(t, "**B.** x<0", correct.Text)
	assert.Equal(t, []Option{
		{Label: "A", Text: "x>0"},
		{Label: "B", Text: "x<0", Correct: true},
		{Label: "C", Text: "x=0"},
	}, correct.Options)
}

func TestRender_MultipleChoiceAnswerOutsideLabels(t *testing.T) {
	r := &renderer{}
	r.example("x", notebook.MultipleChoice{Question: "q", Options: []string{"a"}, CorrectAnswer: "Q"}, 0, true)

	correct := r.out[3]
	assert.Equal(t, "Q", correct.Text)
	for _, o := range correct.Options {
		assert.False(t, o.Correct)
	}
}

func TestRender_FillBlankRunsAndEntries(t *testing.T) {
	r := &renderer{}
	r.example("x", notebook.FillBlank{
		Question: "[空1]+[空2]=10",
		Blanks: notebook.OrderedMap{
			{Key: "[空1]", Value: "5"},
			{Key: "[空2]", Value: "5"},
			{Key: "[空9]", Value: "extra"},
		},
	}, 0, true)

	q := r.out[0]
	assert.Equal(t, "[空1]+[空2]=10", notebook.Join(q.Runs))
	assert.Equal(t, notebook.RunBlank, q.Runs[0].Kind)

	blanks := r.out[2]
	require.Equal(t, KindBlankAnswers, blanks.Kind)
	assert.Len(t, blanks.Entries, 3, "unmatched blank keys are still shown")
	assert.Equal(t, "- `[空1]`: 5\n- `[空2]`: 5\n- `[空9]`: extra", blanks.Text)
}

func TestRender_TogglesAreIndependent(t *testing.T) {
	doc := parse(t, conceptDoc)

	var open ExpandedSet
	open.Toggle("s0/cb0/examples")
	open.Toggle("s0/cb0/examples/1/reveal")

	directives := Render(doc, open)

	assert.True(t, byID(t, directives, "s0/cb0/examples").Expanded)
	assert.True(t, byID(t, directives, "s0/cb0/examples/0").Visible)
	assert.False(t, byID(t, directives, "s0/cb0/examples/0/reveal").Expanded)
	assert.False(t, byID(t, directives, "s0/cb0/examples/0/reveal/correct_answer").Visible)
	assert.True(t, byID(t, directives, "s0/cb0/examples/1/reveal").Expanded)
	assert.True(t, byID(t, directives, "s0/cb0/examples/1/reveal/blank_answers").Visible)

	// Closing the group hides the open reveal without changing its own state.
	open.Toggle("s0/cb0/examples")
	directives = Render(doc, open)
	reveal := byID(t, directives, "s0/cb0/examples/1/reveal")
	assert.True(t, reveal.Expanded)
	assert.False(t, reveal.Visible)
}

func TestRender_DroppedExampleShrinksCount(t *testing.T) {
	doc := parse(t, `{
		"outline": {"outlines": {"S": ""}},
		"sections": {"S": {"exercises": [
			{"question_type":"short_answer","question":"a"},
			{"question_type":"proof"},
			{"question_type":"short_answer","question":"c"}
		]}}
	}`)

	group := byID(t, Render(doc, ExpandedSet{}), "s0/exercises")
	assert.Equal(t, KindExercises, group.Kind)
	assert.Equal(t, 2, group.ItemCount)
}

func TestRender_EmptyGroupsOmitted(t *testing.T) {
	doc := &notebook.Document{
		Format:   notebook.FormatStructured,
		Outline:  notebook.Outline{Sections: notebook.OrderedMap{{Key: "S"}}},
		Sections: map[string]*notebook.Section{"S": {ConceptBlocks: []notebook.ConceptBlock{{Definition: "d"}}}},
	}

	assert.Equal(t, []string{"s0", "s0/cb0/definition"}, ids(Render(doc, ExpandedSet{})))
}

func TestRender_MarkdownDocument(t *testing.T) {
	doc := &notebook.Document{Format: notebook.FormatMarkdown, Markdown: "# Title"}

	directives := Render(doc, ExpandedSet{})
	require.Len(t, directives, 1)
	assert.Equal(t, KindMarkdown, directives[0].Kind)
	assert.True(t, directives[0].Visible)
}

func TestRender_Deterministic(t *testing.T) {
	doc := parse(t, conceptDoc)
	open := NewExpandedSet("s0/cb0/examples")
	assert.Equal(t, Render(doc, open), Render(doc, open))
	assert.Nil(t, Render(nil, open))
}

func TestExpandedSet(t *testing.T) {
	var s ExpandedSet
	assert.False(t, s.Has("a"))
	assert.True(t, s.Toggle("a"))
	assert.True(t, s.Toggle("b"))
	assert.False(t, s.Toggle("a"))
	assert.True(t, s.Has("b"))
	assert.Equal(t, []string{"b"}, s.IDs())

	s.Collapse("missing")
	assert.Equal(t, 1, s.Len())
}
