// Package render turns a normalized notebook into an ordered list of
// directives.
//
// Render is a pure function of the document and an ExpandedSet owned by the
// caller. Definitions, introductions, summaries and theorems are always
// expanded. Example, exercise and note groups, and each example's answer
// region, start collapsed; each id in the ExpandedSet opens exactly one of
// them.
//
//	var open render.ExpandedSet
//	open.Toggle("s0/cb0/examples")
//	directives := render.Render(doc, open)
//	for _, d := range render.VisibleOnly(directives) {
//	    ...
//	}
package render
