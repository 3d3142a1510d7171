// ABOUTME: Canonical document model for structured notebooks
// ABOUTME: Outline, sections, concept blocks and the Example tagged union

package notebook

// Document formats accepted by ParseDocument
const (
	FormatStructured = "structured"
	FormatMarkdown   = "markdown"
)

// QuestionType tags the variant carried by an Example
type QuestionType string

// QuestionType constants for the known example variants
const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFillBlank      QuestionType = "fill_blank"
	QuestionProof          QuestionType = "proof"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionCode           QuestionType = "code"
	QuestionLegacy         QuestionType = "legacy"
)

// knownTypes are the tags a raw example may carry. Legacy is never a tag on input.
var knownTypes = map[QuestionType]bool{
	QuestionMultipleChoice: true,
	QuestionFillBlank:      true,
	QuestionProof:          true,
	QuestionShortAnswer:    true,
	QuestionCode:           true,
}

// Pair is one entry of an OrderedMap
type Pair struct {
	Key   string
	Value string
}

// OrderedMap is a string map that remembers insertion order.
// Duplicate keys keep their first position and the last value.
type OrderedMap []Pair

// Get returns the value stored under key
func (m OrderedMap) Get(key string) (string, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Keys returns the keys in order
func (m OrderedMap) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// Len returns the number of entries
func (m OrderedMap) Len() int {
	return len(m)
}

// set inserts or replaces key, keeping the original position on replace
func (m OrderedMap) set(key, value string) OrderedMap {
	for i := range m {
		if m[i].Key == key {
			m[i].Value = value
			return m
		}
	}
	return append(m, Pair{Key: key, Value: value})
}

// Document is one notebook's normalized content.
// A refresh replaces the whole Document; nothing in it is mutated after parsing.
type Document struct {
	Format   string
	Outline  Outline
	Sections map[string]*Section

	// Markdown holds the body of FormatMarkdown documents
	Markdown string
}

// Outline is the notebook title, description and ordered section list
type Outline struct {
	Title       string
	Description string
	// Sections maps section title to section description; order is document order
	Sections OrderedMap
}

// Section is one chapter of a notebook
type Section struct {
	Title              string
	Introduction       string
	ConceptBlocks      []ConceptBlock
	StandaloneExamples []Example
	StandaloneNotes    []string
	Summary            string
	Exercises          []Example
}

// ConceptBlock is a definition with its attached examples, notes and theorems
type ConceptBlock struct {
	Definition string
	Examples   []Example
	Notes      []string
	Theorems   []Theorem
}

// Theorem is a statement with an optional proof and its own examples
type Theorem struct {
	Statement string
	Proof     string
	Examples  []Example
}

// Example is one question instance. The concrete type is one of
// MultipleChoice, FillBlank, Proof, ShortAnswer, Code or Legacy.
type Example interface {
	QuestionType() QuestionType
	// Prompt returns the question text, which may be empty only for Legacy
	Prompt() string
	isExample()
}

// MultipleChoice is a question with lettered options
type MultipleChoice struct {
	Question      string
	Options       []string
	CorrectAnswer string
	Explanation   string
}

// FillBlank is a question whose text contains placeholder tokens
type FillBlank struct {
	Question string
	// Blanks maps placeholder token to its answer, in question order
	Blanks      OrderedMap
	Answer      string
	Explanation string
}

// Proof asks for a proof
type Proof struct {
	Question   string
	Answer     string
	ProofSteps string
}

// ShortAnswer is a free-text question
type ShortAnswer struct {
	Question    string
	Answer      string
	Explanation string
}

// Code asks for a code answer
type Code struct {
	Question    string
	CodeAnswer  string
	Explanation string
}

// Legacy is an untagged example that only carries the generic fields
type Legacy struct {
	Question string
	Answer   string
	Proof    string
}

func (MultipleChoice) QuestionType() QuestionType { return QuestionMultipleChoice }
func (FillBlank) QuestionType() QuestionType      { return QuestionFillBlank }
func (Proof) QuestionType() QuestionType          { return QuestionProof }
func (ShortAnswer) QuestionType() QuestionType    { return QuestionShortAnswer }
func (Code) QuestionType() QuestionType           { return QuestionCode }
func (Legacy) QuestionType() QuestionType         { return QuestionLegacy }

func (e MultipleChoice) Prompt() string { return e.Question }
func (e FillBlank) Prompt() string      { return e.Question }
func (e Proof) Prompt() string          { return e.Question }
func (e ShortAnswer) Prompt() string    { return e.Question }
func (e Code) Prompt() string           { return e.Question }
func (e Legacy) Prompt() string         { return e.Question }

func (MultipleChoice) isExample() {}
func (FillBlank) isExample()      {}
func (Proof) isExample()          {}
func (ShortAnswer) isExample()    {}
func (Code) isExample()           {}
func (Legacy) isExample()         {}

// OptionLabel returns the positional label for option i: A, B, ..., Z, AA, AB, ...
func OptionLabel(i int) string {
	if i < 0 {
		return ""
	}
	label := ""
	for n := i; ; n = n/26 - 1 {
		label = string(rune('A'+n%26)) + label
		if n < 26 {
			break
		}
	}
	return label
}

// Labels returns the generated labels for the options, in order
func (e MultipleChoice) Labels() []string {
	labels := make([]string, len(e.Options))
	for i := range e.Options {
		labels[i] = OptionLabel(i)
	}
	return labels
}

// IsCorrect reports whether label is the correct answer.
// CorrectAnswer is compared verbatim; a value outside the label set matches nothing.
func (e MultipleChoice) IsCorrect(label string) bool {
	return label != "" && label == e.CorrectAnswer
}

// CorrectOption returns the text of the option labeled CorrectAnswer
func (e MultipleChoice) CorrectOption() (string, bool) {
	for i, opt := range e.Options {
		if e.IsCorrect(OptionLabel(i)) {
			return opt, true
		}
	}
	return "", false
}

// UnmatchedBlanks returns blank keys that have no placeholder token in the question
func (e FillBlank) UnmatchedBlanks() []string {
	tokens := make(map[string]bool)
	for _, tok := range Placeholders(e.Question) {
		tokens[tok] = true
	}
	var missing []string
	for _, key := range e.Blanks.Keys() {
		if !tokens[key] {
			missing = append(missing, key)
		}
	}
	return missing
}
