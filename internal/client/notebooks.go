// ABOUTME: Notebook content endpoint
// ABOUTME: Returns raw document JSON for the normalizer

package client

import (
	"context"
	"fmt"
	"net/http"
)

// NotebookContent returns the raw document JSON of a notebook. The body is
// not decoded here; notebook.Normalizer owns the document shape.
func (c *Client) NotebookContent(ctx context.Context, id string) ([]byte, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/notebooks/"+escape(id)+"/content", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching notebook %s: %w", id, err)
	}
	return data, nil
}
