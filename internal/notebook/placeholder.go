// ABOUTME: Tokenizes fill-in-the-blank question text into text and blank runs
// ABOUTME: Recognizes [空N], {blankN} and {blankWord} placeholder tokens

package notebook

import "regexp"

// RunKind distinguishes plain text from placeholder tokens
type RunKind string

// RunKind constants
const (
	RunText  RunKind = "text"
	RunBlank RunKind = "blank"
)

// Run is one contiguous piece of annotated question text
type Run struct {
	Kind  RunKind
	Value string
}

// placeholderPattern matches [空1], {blank1} and {blankName}
var placeholderPattern = regexp.MustCompile(`\[空\d+\]|\{blank\w+\}`)

// Annotate splits question into ordered text and blank runs.
// Joining every run's Value reproduces question exactly. Empty gaps between
// adjacent tokens produce no run. Without any token the result is a single
// text run holding the whole input.
func Annotate(question string) []Run {
	matches := placeholderPattern.FindAllStringIndex(question, -1)
	if len(matches) == 0 {
		return []Run{{Kind: RunText, Value: question}}
	}

	runs := make([]Run, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			runs = append(runs, Run{Kind: RunText, Value: question[last:m[0]]})
		}
		runs = append(runs, Run{Kind: RunBlank, Value: question[m[0]:m[1]]})
		last = m[1]
	}
	if last < len(question) {
		runs = append(runs, Run{Kind: RunText, Value: question[last:]})
	}
	return runs
}

// Placeholders returns the placeholder tokens in question, in order
func Placeholders(question string) []string {
	return placeholderPattern.FindAllString(question, -1)
}

// Join concatenates run values
func Join(runs []Run) string {
	n := 0
	for _, r := range runs {
		n += len(r.Value)
	}
	b := make([]byte, 0, n)
	for _, r := range runs {
		b = append(b, r.Value...)
	}
	return string(b)
}
