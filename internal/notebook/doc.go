// Package notebook holds the structured notebook document model and the
// normalization that produces it.
//
// # Overview
//
// Notebook content arrives as loosely-typed JSON produced by an AI authoring
// agent. ParseDocument reads it once, at the boundary, into a canonical tree:
//
//	Document
//	  Outline (title, description, ordered section titles)
//	  Sections[title]
//	    Introduction
//	    ConceptBlocks[]  (definition, examples, notes, theorems)
//	    StandaloneExamples[], StandaloneNotes[]
//	    Summary
//	    Exercises[]
//
// Everything downstream works on this tree and never looks at raw JSON again.
//
// # Examples
//
// Example is a closed tagged union. The concrete type is chosen by the raw
// question_type field:
//
//   - multiple_choice: MultipleChoice (options labeled A, B, C, ...)
//   - fill_blank: FillBlank (blanks keyed by placeholder token)
//   - proof: Proof
//   - short_answer: ShortAnswer
//   - code: Code
//   - absent or unrecognized: Legacy
//
// # Legacy Shapes
//
// Older generators emit fill-blank answers as a plain list. The normalizer
// rewrites the list into a map keyed [空1], [空2], ... in list order:
//
//	{"question_type": "fill_blank", "question": "[空1]+[空2]=10", "blanks": ["5", "5"]}
//
// # Failure Policy
//
// One malformed example never aborts the rest of the document. A tagged
// example without a question is dropped and logged as a warning; the containing
// list simply gets shorter. Only a document that is not JSON at all, or that
// declares an unknown format, fails ParseDocument.
//
// # Placeholders
//
// Annotate splits fill-blank question text into text and blank runs:
//
//	runs := notebook.Annotate("[空1]+[空2]=10")
//	// blank "[空1]", text "+", blank "[空2]", text "=10"
//
// Joining the runs always reproduces the input.
package notebook
