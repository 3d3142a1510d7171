// ABOUTME: Terminal mount for the agent hierarchy using lipgloss boxes
// ABOUTME: Measures rendered boxes and draws the computed edges as connector bands

package hierarchy

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	nodeSpacing = 4
	bandHeight  = 3
	descWidth   = 28
)

var (
	nodeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	currentStyle = nodeStyle.
			BorderForeground(lipgloss.Color("62"))

	nameStyle  = lipgloss.NewStyle().Bold(true)
	badgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	descStyle  = lipgloss.NewStyle().Width(descWidth)
)

// Canvas is a plan mounted as terminal boxes. It measures its own boxes, so
// it can be passed to ComputeEdges.
type Canvas struct {
	plan     Plan
	rendered map[string]string
	boxes    Measurements
	width    int
}

// Mount renders every node of plan and records its geometry in character
// cells. Tiers are stacked top to bottom and centered horizontally.
func Mount(plan Plan) *Canvas {
	c := &Canvas{
		plan:     plan,
		rendered: make(map[string]string),
		boxes:    make(Measurements),
	}

	for _, n := range plan.Nodes {
		c.rendered[n.Key] = renderNode(n)
	}

	for _, t := range c.tiers() {
		if w := c.tierWidth(t); w > c.width {
			c.width = w
		}
	}

	y := 0
	for _, t := range c.tiers() {
		x := (c.width - c.tierWidth(t)) / 2
		height := 0
		for _, n := range c.plan.Tier(t) {
			s := c.rendered[n.Key]
			w, h := lipgloss.Width(s), lipgloss.Height(s)
			c.boxes[n.Key] = Box{X: float64(x), Y: float64(y), Width: float64(w), Height: float64(h)}
			x += w + nodeSpacing
			if h > height {
				height = h
			}
		}
		y += height + bandHeight
	}

	return c
}

// Measure returns the box of a mounted node
func (c *Canvas) Measure(key string) (Box, bool) {
	return c.boxes.Measure(key)
}

// Draw lays out the mounted boxes and draws edges between tiers
func (c *Canvas) Draw(edges []Edge) string {
	var blocks []string
	tiers := c.tiers()
	for i, t := range tiers {
		blocks = append(blocks, c.tierBlock(t))
		if i < len(tiers)-1 {
			blocks = append(blocks, c.band(edges, tiers[i+1]))
		}
	}
	return strings.Join(blocks, "\n")
}

// tiers returns the non-empty tier indices in order
func (c *Canvas) tiers() []int {
	var out []int
	for _, t := range []int{TierParent, TierCurrent, TierChildren} {
		if len(c.plan.Tier(t)) > 0 {
			out = append(out, t)
		}
	}
	return out
}

func (c *Canvas) tierWidth(t int) int {
	nodes := c.plan.Tier(t)
	w := 0
	for i, n := range nodes {
		if i > 0 {
			w += nodeSpacing
		}
		w += lipgloss.Width(c.rendered[n.Key])
	}
	return w
}

func (c *Canvas) tierBlock(t int) string {
	nodes := c.plan.Tier(t)
	parts := make([]string, 0, 2*len(nodes))
	for i, n := range nodes {
		if i > 0 {
			parts = append(parts, strings.Repeat(" ", nodeSpacing))
		}
		parts = append(parts, c.rendered[n.Key])
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	pad := (c.width - c.tierWidth(t)) / 2
	return lipgloss.NewStyle().PaddingLeft(pad).Render(row)
}

// band draws the connectors of edges that end in tier next: a drop from each
// source, a horizontal run spanning all endpoints, and a drop into each target.
func (c *Canvas) band(edges []Edge, next int) string {
	var starts, ends []int
	for _, e := range edges {
		n, ok := c.plan.Node(e.To)
		if !ok || n.Tier != next {
			continue
		}
		starts = append(starts, column(e.Start.X))
		ends = append(ends, column(e.End.X))
	}

	rows := make([][]rune, bandHeight)
	for i := range rows {
		rows[i] = []rune(strings.Repeat(" ", c.width))
	}
	if len(starts) == 0 {
		return joinRows(rows)
	}

	lo, hi := c.width, -1
	for _, x := range append(append([]int(nil), starts...), ends...) {
		lo, hi = min(lo, x), max(hi, x)
	}

	mid := rows[1]
	for x := lo; x <= hi; x++ {
		set(mid, x, '─')
	}
	for _, x := range starts {
		set(rows[0], x, '│')
		set(mid, x, '┴')
	}
	for _, x := range ends {
		set(rows[2], x, '│')
		if x >= 0 && x < len(mid) && mid[x] == '┴' {
			set(mid, x, '┼')
		} else {
			set(mid, x, '┬')
		}
	}
	if lo == hi {
		set(mid, lo, '│')
	}
	return joinRows(rows)
}

func renderNode(n Node) string {
	content := nameStyle.Render(n.Agent.Name())
	if n.Agent.Kind != "" {
		content += "\n" + badgeStyle.Render("["+string(n.Agent.Kind)+"]")
	}
	if n.Agent.Description != "" {
		desc := n.Agent.Description
		if lipgloss.Width(desc) > descWidth {
			desc = descStyle.Render(desc)
		}
		content += "\n" + desc
	}

	if n.Key == KeyCurrent {
		return currentStyle.Render(content)
	}
	return nodeStyle.Render(content)
}

func column(x float64) int {
	return int(math.Floor(x))
}

func set(row []rune, x int, r rune) {
	if x >= 0 && x < len(row) {
		row[x] = r
	}
}

func joinRows(rows [][]rune) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.TrimRight(string(r), " ")
	}
	return strings.Join(lines, "\n")
}
