// ABOUTME: Agent listing, hierarchy and instruction endpoints
// ABOUTME: Converts wire agent records into hierarchy.Agent values

package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2389/coven-notebook/internal/hierarchy"
)

// agentInfo is an agent record as the API sends it
type agentInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AgentType   string `json:"agent_type"`
	Description string `json:"description,omitempty"`
}

func (a agentInfo) toAgent() hierarchy.Agent {
	return hierarchy.Agent{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		Kind:        hierarchy.AgentKind(a.AgentType),
		Description: a.Description,
	}
}

// hierarchyResponse is the body of GET /api/agents/{id}/hierarchy
type hierarchyResponse struct {
	Parent   *agentInfo  `json:"parent"`
	Current  agentInfo   `json:"current"`
	Children []agentInfo `json:"children"`
}

// Hierarchy is an agent with its parent and direct children
type Hierarchy struct {
	Parent   *hierarchy.Agent
	Current  hierarchy.Agent
	Children []hierarchy.Agent
}

// Plan runs the logical layout pass over h
func (h Hierarchy) Plan() hierarchy.Plan {
	return hierarchy.Layout(h.Parent, h.Current, h.Children)
}

// instructionsBody is the body of the instructions endpoints
type instructionsBody struct {
	Instructions string `json:"instructions"`
}

// ListAgents returns every agent visible to the token
func (c *Client) ListAgents(ctx context.Context) ([]hierarchy.Agent, error) {
	var infos []agentInfo
	if err := c.getJSON(ctx, "/api/agents", &infos); err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}

	agents := make([]hierarchy.Agent, len(infos))
	for i, a := range infos {
		agents[i] = a.toAgent()
	}
	return agents, nil
}

// Hierarchy returns the agent id with its parent and children
func (c *Client) Hierarchy(ctx context.Context, id string) (*Hierarchy, error) {
	var resp hierarchyResponse
	if err := c.getJSON(ctx, "/api/agents/"+escape(id)+"/hierarchy", &resp); err != nil {
		return nil, fmt.Errorf("fetching hierarchy for %s: %w", id, err)
	}

	h := &Hierarchy{
		Current:  resp.Current.toAgent(),
		Children: make([]hierarchy.Agent, len(resp.Children)),
	}
	if resp.Parent != nil {
		parent := resp.Parent.toAgent()
		h.Parent = &parent
	}
	for i, child := range resp.Children {
		h.Children[i] = child.toAgent()
	}
	return h, nil
}

// Instructions returns the system instructions of an agent
func (c *Client) Instructions(ctx context.Context, id string) (string, error) {
	var body instructionsBody
	if err := c.getJSON(ctx, "/api/agents/"+escape(id)+"/instructions", &body); err != nil {
		return "", fmt.Errorf("fetching instructions for %s: %w", id, err)
	}
	return body.Instructions, nil
}

// UpdateInstructions replaces the system instructions of an agent
func (c *Client) UpdateInstructions(ctx context.Context, id, instructions string) error {
	_, err := c.do(ctx, http.MethodPut, "/api/agents/"+escape(id)+"/instructions", instructionsBody{Instructions: instructions})
	if err != nil {
		return fmt.Errorf("updating instructions for %s: %w", id, err)
	}
	return nil
}
