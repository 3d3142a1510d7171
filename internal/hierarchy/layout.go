// ABOUTME: Two-pass layout for the parent/current/children agent hierarchy
// ABOUTME: Logical tiers first, then edges derived from measured node boxes

package hierarchy

import (
	"fmt"
	"strings"
)

// AgentKind classifies an agent in the authoring platform
type AgentKind string

// AgentKind constants
const (
	KindTopLevel AgentKind = "top_level"
	KindMaster   AgentKind = "master"
	KindNotebook AgentKind = "notebook"
)

// Agent is the part of an agent record the layout needs
type Agent struct {
	ID          string
	DisplayName string
	Kind        AgentKind
	Description string
}

// Name returns the display name, falling back to the id
func (a Agent) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.ID
}

// Tier indices
const (
	TierParent   = 0
	TierCurrent  = 1
	TierChildren = 2
)

// Node keys for the parent and current agent; children are child-<i>
const (
	KeyParent  = "parent"
	KeyCurrent = "current"
)

// ChildKey returns the node key of child i
func ChildKey(i int) string {
	return fmt.Sprintf("child-%d", i)
}

// Node is an agent placed in a tier
type Node struct {
	Key      string
	Agent    Agent
	Tier     int
	Position int
}

// Plan is the logical layout: nodes in tier order, children left to right
type Plan struct {
	Nodes []Node
}

// Layout assigns tiers and positions. parent may be nil.
func Layout(parent *Agent, current Agent, children []Agent) Plan {
	nodes := make([]Node, 0, len(children)+2)
	if parent != nil {
		nodes = append(nodes, Node{Key: KeyParent, Agent: *parent, Tier: TierParent})
	}
	nodes = append(nodes, Node{Key: KeyCurrent, Agent: current, Tier: TierCurrent})
	for i, c := range children {
		nodes = append(nodes, Node{Key: ChildKey(i), Agent: c, Tier: TierChildren, Position: i})
	}
	return Plan{Nodes: nodes}
}

// Tier returns the nodes of tier t in position order
func (p Plan) Tier(t int) []Node {
	var out []Node
	for _, n := range p.Nodes {
		if n.Tier == t {
			out = append(out, n)
		}
	}
	return out
}

// Node returns the node with key
func (p Plan) Node(key string) (Node, bool) {
	for _, n := range p.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}

// HasParent reports whether the plan has a parent tier
func (p Plan) HasParent() bool {
	_, ok := p.Node(KeyParent)
	return ok
}

// Signature identifies the agent set. Edges must be recomputed when it changes.
func (p Plan) Signature() string {
	parts := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		parts[i] = fmt.Sprintf("%d:%s", n.Tier, n.Agent.ID)
	}
	return strings.Join(parts, "|")
}

// Point is a position in layout units
type Point struct {
	X, Y float64
}

// Box is a measured node rectangle; Y grows downward
type Box struct {
	X, Y, Width, Height float64
}

// TopCenter is where incoming edges attach
func (b Box) TopCenter() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y}
}

// BottomCenter is where outgoing edges attach
func (b Box) BottomCenter() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height}
}

// Measurer reports the box of a mounted node. ok is false while the node is
// not mounted or not yet measured.
type Measurer interface {
	Measure(key string) (box Box, ok bool)
}

// MeasureFunc adapts a function to Measurer
type MeasureFunc func(key string) (Box, bool)

// Measure calls f
func (f MeasureFunc) Measure(key string) (Box, bool) {
	return f(key)
}

// Measurements is a fixed set of boxes keyed by node key
type Measurements map[string]Box

// Measure looks key up
func (m Measurements) Measure(key string) (Box, bool) {
	b, ok := m[key]
	return b, ok
}

// Edge connects the bottom center of From to the top center of To
type Edge struct {
	From  string
	To    string
	Start Point
	End   Point
}

// ComputeEdges derives the edge list from measured geometry: parent→current
// when there is a parent, then current→child for each child in order. An edge
// with an unmeasured endpoint is left out. The result depends only on plan
// and the boxes m reports.
func ComputeEdges(plan Plan, m Measurer) []Edge {
	if m == nil {
		return nil
	}

	current, ok := plan.Node(KeyCurrent)
	if !ok {
		return nil
	}

	var edges []Edge
	connect := func(from, to string) {
		fb, ok := m.Measure(from)
		if !ok {
			return
		}
		tb, ok := m.Measure(to)
		if !ok {
			return
		}
		edges = append(edges, Edge{From: from, To: to, Start: fb.BottomCenter(), End: tb.TopCenter()})
	}

	if plan.HasParent() {
		connect(KeyParent, current.Key)
	}
	for _, child := range plan.Tier(TierChildren) {
		connect(current.Key, child.Key)
	}
	return edges
}
