package renderers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dejo1307/rockymcp/internal/facts"
)

// JSONRenderer writes the document as indented JSON.
type JSONRenderer struct{}

// NewJSON creates a JSONRenderer.
func NewJSON() *JSONRenderer {
	return &JSONRenderer{}
}

func (JSONRenderer) Name() string {
	return "json"
}

// Render produces a single document.json artifact.
func (JSONRenderer) Render(ctx context.Context, doc *Document) ([]facts.Artifact, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}
	return []facts.Artifact{
		{
			Name:    "document.json",
			Content: append(data, '\n'),
			Type:    "application/json",
		},
	}, nil
}
