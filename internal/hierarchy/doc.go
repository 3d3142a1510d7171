// Package hierarchy lays out an agent with its parent and children.
//
// # Overview
//
// Layout runs in two passes. The logical pass (Layout) assigns each agent a
// tier and a position:
//
//	tier 0  parent (optional)
//	tier 1  current
//	tier 2  children, left to right in input order
//
// The geometry pass (ComputeEdges) runs once the nodes have been drawn and
// their boxes measured. It connects the bottom center of each source box to
// the top center of each target box:
//
//	plan := hierarchy.Layout(parent, current, children)
//	canvas := hierarchy.Mount(plan)
//	edges := hierarchy.ComputeEdges(plan, canvas)
//	fmt.Println(canvas.Draw(edges))
//
// # Partial Geometry
//
// A node that has not been measured yet is a normal state. ComputeEdges leaves
// out any edge touching it and can be called again as measurements arrive.
// Plan.Signature changes whenever the agent set changes, which is the signal
// to recompute.
package hierarchy
