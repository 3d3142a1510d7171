// Package client is an HTTP client for the agent platform API.
//
// # Overview
//
// The client covers the read paths the notebook viewer needs plus agent
// instruction editing:
//
//   - ListAgents: GET /api/agents
//   - Hierarchy: GET /api/agents/{id}/hierarchy
//   - Instructions: GET /api/agents/{id}/instructions
//   - UpdateInstructions: PUT /api/agents/{id}/instructions
//   - NotebookContent: GET /api/notebooks/{id}/content
//
// # Authentication
//
// A bearer token, when configured, is passed through on every request:
//
//	c := client.New("https://platform.example", client.WithToken(token))
//
// # Errors
//
// Non-2xx responses are returned as *APIError. A 404 also matches
// ErrNotFound:
//
//	if errors.Is(err, client.ErrNotFound) { ... }
//
// Every request carries a fresh X-Request-ID which is logged at debug level
// alongside status and duration.
package client
