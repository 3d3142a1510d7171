// ABOUTME: Converts loosely-typed notebook JSON into the canonical document model
// ABOUTME: Absorbs legacy shapes (list blanks, untagged examples) and drops malformed items

package notebook

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
)

// ErrInvalidDocument is returned when notebook content is not a JSON object
var ErrInvalidDocument = errors.New("invalid notebook document")

// ErrUnsupportedFormat is returned for a document format other than structured or markdown
var ErrUnsupportedFormat = errors.New("unsupported notebook format")

// Normalizer turns raw notebook JSON into a Document.
// Per-item problems are logged and skipped; they never fail the document.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer. A nil logger uses slog.Default().
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger.With("component", "normalizer")}
}

// ParseDocument parses one notebook's content.
// A missing format is treated as structured.
func (n *Normalizer) ParseDocument(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidDocument)
	}

	format := str(root.Get("format"))
	if format == "" {
		format = FormatStructured
	}

	switch format {
	case FormatMarkdown:
		return &Document{
			Format:   FormatMarkdown,
			Outline:  n.parseOutline(root.Get("outline")),
			Sections: map[string]*Section{},
			Markdown: str(first(root, "content", "markdown")),
		}, nil
	case FormatStructured:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	doc := &Document{
		Format:   FormatStructured,
		Outline:  n.parseOutline(root.Get("outline")),
		Sections: make(map[string]*Section),
	}

	root.Get("sections").ForEach(func(key, value gjson.Result) bool {
		title := key.String()
		if !value.IsObject() {
			n.logger.Warn("skipping malformed section", "section", title)
			return true
		}
		doc.Sections[title] = n.parseSection(title, value)
		return true
	})

	return doc, nil
}

func (n *Normalizer) parseOutline(raw gjson.Result) Outline {
	out := Outline{
		Title:       str(first(raw, "notebook_title", "title")),
		Description: str(first(raw, "notebook_description", "description")),
	}
	sections := first(raw, "outlines", "sections")
	if !sections.IsObject() {
		return out
	}
	sections.ForEach(func(key, value gjson.Result) bool {
		out.Sections = out.Sections.set(key.String(), str(value))
		return true
	})
	return out
}

func (n *Normalizer) parseSection(key string, raw gjson.Result) *Section {
	path := fmt.Sprintf("sections[%q]", key)

	sec := &Section{
		Title:        str(raw.Get("section_title")),
		Introduction: str(raw.Get("introduction")),
		Summary:      str(raw.Get("summary")),
	}
	if sec.Title == "" {
		sec.Title = key
	}

	i := 0
	raw.Get("concept_blocks").ForEach(func(_, value gjson.Result) bool {
		blockPath := fmt.Sprintf("%s.concept_blocks[%d]", path, i)
		i++
		if !value.IsObject() {
			n.logger.Warn("skipping malformed concept block", "path", blockPath)
			return true
		}
		sec.ConceptBlocks = append(sec.ConceptBlocks, n.parseConceptBlock(blockPath, value))
		return true
	})

	sec.StandaloneExamples = n.NormalizeExamples(raw.Get("standalone_examples"), path+".standalone_examples")
	sec.StandaloneNotes = notes(raw.Get("standalone_notes"))
	sec.Exercises = n.NormalizeExamples(raw.Get("exercises"), path+".exercises")
	return sec
}

func (n *Normalizer) parseConceptBlock(path string, raw gjson.Result) ConceptBlock {
	block := ConceptBlock{
		Definition: str(raw.Get("definition")),
		Examples:   n.NormalizeExamples(raw.Get("examples"), path+".examples"),
		Notes:      notes(raw.Get("notes")),
	}

	i := 0
	raw.Get("theorems").ForEach(func(_, value gjson.Result) bool {
		thmPath := fmt.Sprintf("%s.theorems[%d]", path, i)
		i++
		thm := Theorem{
			Statement: str(value.Get("statement")),
			Proof:     str(value.Get("proof")),
		}
		if !value.IsObject() || (thm.Statement == "" && thm.Proof == "") {
			n.logger.Warn("dropping empty theorem", "path", thmPath)
			return true
		}
		thm.Examples = n.NormalizeExamples(value.Get("examples"), thmPath+".examples")
		block.Theorems = append(block.Theorems, thm)
		return true
	})

	return block
}

// NormalizeExamples normalizes every entry of a JSON array, dropping the
// entries NormalizeExample rejects. path only labels log lines.
func (n *Normalizer) NormalizeExamples(raw gjson.Result, path string) []Example {
	if !raw.IsArray() {
		if raw.Exists() && raw.Type != gjson.Null {
			n.logger.Warn("examples field is not a list", "path", path)
		}
		return nil
	}

	var out []Example
	for i, item := range raw.Array() {
		ex := n.NormalizeExample(item)
		if ex == nil {
			n.logger.Warn("dropping malformed example", "path", fmt.Sprintf("%s[%d]", path, i))
			continue
		}
		out = append(out, ex)
	}
	return out
}

// NormalizeExample converts one raw example. It returns nil when the entry
// cannot be shown: a tagged example without a question, a legacy entry with
// no question, answer or proof, or a value that is not an object.
func (n *Normalizer) NormalizeExample(raw gjson.Result) Example {
	if !raw.IsObject() {
		return nil
	}

	tag := QuestionType(str(first(raw, "question_type", "questionType")))
	if tag == "" {
		return legacy(raw)
	}
	if !knownTypes[tag] {
		n.logger.Debug("unknown question type, reading as legacy", "question_type", string(tag))
		return legacy(raw)
	}

	question := str(raw.Get("question"))
	if question == "" {
		return nil
	}

	switch tag {
	case QuestionMultipleChoice:
		ex := MultipleChoice{
			Question:      question,
			CorrectAnswer: str(first(raw, "correct_answer", "correctAnswer")),
			Explanation:   str(raw.Get("explanation")),
		}
		raw.Get("options").ForEach(func(_, opt gjson.Result) bool {
			ex.Options = append(ex.Options, str(opt))
			return true
		})
		return ex
	case QuestionFillBlank:
		return FillBlank{
			Question:    question,
			Blanks:      blanks(raw.Get("blanks")),
			Answer:      str(raw.Get("answer")),
			Explanation: str(raw.Get("explanation")),
		}
	case QuestionProof:
		return Proof{
			Question:   question,
			Answer:     str(raw.Get("answer")),
			ProofSteps: str(first(raw, "proof_steps", "proofSteps", "proof")),
		}
	case QuestionShortAnswer:
		return ShortAnswer{
			Question:    question,
			Answer:      str(raw.Get("answer")),
			Explanation: str(raw.Get("explanation")),
		}
	case QuestionCode:
		return Code{
			Question:    question,
			CodeAnswer:  str(first(raw, "code_answer", "codeAnswer")),
			Explanation: str(raw.Get("explanation")),
		}
	}
	return nil
}

// NormalizeExample converts one raw example with a default Normalizer
func NormalizeExample(raw gjson.Result) Example {
	return NewNormalizer(nil).NormalizeExample(raw)
}

func legacy(raw gjson.Result) Example {
	ex := Legacy{
		Question: str(raw.Get("question")),
		Answer:   str(raw.Get("answer")),
		Proof:    str(raw.Get("proof")),
	}
	if ex.Question == "" && ex.Answer == "" && ex.Proof == "" {
		return nil
	}
	return ex
}

// blanks reads the blanks field. A list becomes [空1], [空2], ... in list order;
// an object keeps its own keys and order.
func blanks(raw gjson.Result) OrderedMap {
	var out OrderedMap
	switch {
	case raw.IsArray():
		for i, v := range raw.Array() {
			out = out.set(fmt.Sprintf("[空%d]", i+1), str(v))
		}
	case raw.IsObject():
		raw.ForEach(func(key, value gjson.Result) bool {
			out = out.set(key.String(), str(value))
			return true
		})
	}
	return out
}

func notes(raw gjson.Result) []string {
	var out []string
	raw.ForEach(func(_, value gjson.Result) bool {
		if s := str(value); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}

// first returns the first of keys present on raw
func first(raw gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := raw.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// str reads a scalar as a string. Null, objects and arrays read as empty.
func str(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return r.String()
	default:
		return ""
	}
}
