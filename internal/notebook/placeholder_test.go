// ABOUTME: Tests for placeholder annotation of fill-blank questions
// ABOUTME: Covers token forms, fallback to plain text and the round-trip property

package notebook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestAnnotate(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     []Run
	}{
		{
			name:     "numbered chinese placeholders",
			question: "[空1]+[空2]=10",
			want: []Run{
				{Kind: RunBlank, Value: "[空1]"},
				{Kind: RunText, Value: "+"},
				{Kind: RunBlank, Value: "[空2]"},
				{Kind: RunText, Value: "=10"},
			},
		},
		{
			name:     "brace placeholders",
			question: "The {blank1} of a {blankNoun}.",
			want: []Run{
				{Kind: RunText, Value: "The "},
				{Kind: RunBlank, Value: "{blank1}"},
				{Kind: RunText, Value: " of a "},
				{Kind: RunBlank, Value: "{blankNoun}"},
				{Kind: RunText, Value: "."},
			},
		},
		{
			name:     "adjacent tokens have no empty run between them",
			question: "[空1][空2]",
			want: []Run{
				{Kind: RunBlank, Value: "[空1]"},
				{Kind: RunBlank, Value: "[空2]"},
			},
		},
		{
			name:     "no tokens",
			question: "What is 2+2?",
			want:     []Run{{Kind: RunText, Value: "What is 2+2?"}},
		},
		{
			name:     "empty input",
			question: "",
			want:     []Run{{Kind: RunText, Value: ""}},
		},
		{
			name:     "near misses stay text",
			question: "[空] {blank} [空a]",
			want:     []Run{{Kind: RunText, Value: "[空] {blank} [空a]"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Annotate(tt.question)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.question, Join(got))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"[空1]", "{blankx}"}, Placeholders("a [空1] b {blankx}"))
	assert.Empty(t, Placeholders("nothing here"))
}

// TestAnnotateRoundTrip verifies that joining the runs of any string gives the string back.
func TestAnnotateRoundTrip(t *testing.T) {
	tokens := rapid.SampledFrom([]string{"[空1]", "[空12]", "{blank3}", "{blankword}", "[空", "{blank", "}"})
	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOf(rapid.OneOf(rapid.String(), tokens)).Draw(t, "parts")
		question := strings.Join(parts, "")

		runs := Annotate(question)
		if got := Join(runs); got != question {
			t.Fatalf("Join(Annotate(%q)) = %q", question, got)
		}
		for i, r := range runs {
			if r.Kind == RunBlank && !placeholderPattern.MatchString(r.Value) {
				t.Fatalf("blank run %q is not a placeholder", r.Value)
			}
			if i > 0 && r.Kind == RunText && runs[i-1].Kind == RunText {
				t.Fatalf("adjacent text runs at %d in %q", i, question)
			}
		}
	})
}

func TestFillBlank_UnmatchedBlanks(t *testing.T) {
	ex := FillBlank{
		Question: "[空1]+[空2]=10",
		Blanks: OrderedMap{
			{Key: "[空1]", Value: "5"},
			{Key: "[空3]", Value: "7"},
			{Key: "[空2]", Value: "5"},
		},
	}
	assert.Equal(t, []string{"[空3]"}, ex.UnmatchedBlanks())
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "A", OptionLabel(0))
	assert.Equal(t, "C", OptionLabel(2))
	assert.Equal(t, "Z", OptionLabel(25))
	assert.Equal(t, "AA", OptionLabel(26))
	assert.Equal(t, "AB", OptionLabel(27))
	assert.Equal(t, "", OptionLabel(-1))
}
