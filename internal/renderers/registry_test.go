package renderers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/rockymcp/internal/facts"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string { return s.name }

func (s stubRenderer) Render(context.Context, *Document) ([]facts.Artifact, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewJSON())
	reg.Register(stubRenderer{name: "markdown"})

	assert.Equal(t, []string{"json", "markdown"}, reg.Names())
	assert.Len(t, reg.All(), 2)
	assert.Equal(t, "markdown", reg.Get("markdown").Name())
	assert.Nil(t, reg.Get("pdf"))
}

func TestJSONRenderer(t *testing.T) {
	doc := &Document{Explanation: &facts.Explanation{Audience: "customer"}}

	artifacts, err := NewJSON().Render(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "document.json", artifacts[0].Name)
	assert.Equal(t, "application/json", artifacts[0].Type)

	var got map[string]any
	require.NoError(t, json.Unmarshal(artifacts[0].Content, &got))
	assert.NotContains(t, got, "result")
	assert.NotContains(t, got, "depot")
	assert.Equal(t, "customer", got["explanation"].(map[string]any)["audience"])
}
