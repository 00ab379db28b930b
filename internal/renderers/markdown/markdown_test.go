package markdown

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dejo1307/rockymcp/internal/depot"
	"github.com/dejo1307/rockymcp/internal/engine"
	"github.com/dejo1307/rockymcp/internal/explainers/sarah"
	"github.com/dejo1307/rockymcp/internal/renderers"
)

const transcript = `Semi detached, 3 bedroom. Existing Baxi combi boiler, 18 years old.
15mm pipework, 7 radiators, 100 amp main fuse. Monkey muck in the loft.`

var processedAt = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func document(t *testing.T) *renderers.Document {
	t.Helper()
	clock := func() time.Time { return processedAt }

	res, err := engine.New(engine.WithClock(clock)).Process("sess-1", transcript, "en")
	require.NoError(t, err)

	ex, err := sarah.New(sarah.WithClock(clock)).Explain(sarah.Request{Facts: &res.Facts, Audience: "customer"})
	require.NoError(t, err)

	raw := orderedmap.New[string, string]()
	raw.Set("Boiler", "Baxi combi | kitchen")
	raw.Set("Materials", "2x Magnetic filter - 22mm")
	raw.Set("Notes for Bob", "ring first")
	dn := depot.DefaultConfig().Process(raw, "")

	return &renderers.Document{Result: res, Explanation: ex, Depot: dn}
}

func render(t *testing.T, r *Renderer, doc *renderers.Document) string {
	t.Helper()
	artifacts, err := r.Render(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, ArtifactName, artifacts[0].Name)
	assert.Equal(t, "text/markdown", artifacts[0].Type)
	return string(artifacts[0].Content)
}

func TestRenderFullDocument(t *testing.T) {
	out := render(t, New(0), document(t))

	assert.True(t, strings.HasPrefix(out, "# Survey Report\n\n"))
	for _, want := range []string{
		"## Survey Notes",
		"### Measurements",
		"- Pipe size: 15mm",
		"- Main fuse: 100A",
		"## Explanation (customer, friendly)",
		"## Depot Notes",
		"| `existing_system` | Baxi combi \\| kitchen |",
		"- **Notes for Bob**: ring first",
		"- Magnetic filter x2 (22mm)",
		"- [x] `magnetic_filter`",
		"## Engineer Basics",
		"| Boiler make | Baxi |",
		"Session sess-1 processed at 2026-03-02T09:30:00Z",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Truncated")
	assert.NotContains(t, out, "Omitted")
}

func TestRenderSectionOrder(t *testing.T) {
	out := render(t, New(0), document(t))

	var last int
	for _, heading := range []string{"## Survey Notes", "## Explanation", "## Depot Notes", "## Engineer Basics", "*Session"} {
		i := strings.Index(out, heading)
		require.GreaterOrEqual(t, i, 0, heading)
		assert.Greater(t, i, last, heading)
		last = i
	}
}

func TestRenderTokenBudget(t *testing.T) {
	out := render(t, New(100), document(t))

	assert.Contains(t, out, "[Truncated in: Survey Notes]")
	assert.LessOrEqual(t, len(out), 100*4+50)
}

func TestRenderTinyBudgetOmits(t *testing.T) {
	out := render(t, New(10), document(t))

	assert.Contains(t, out, "*[Omitted: ")
	assert.Contains(t, out, "Survey Notes, Explanation, Depot Notes, Engineer Basics, Meta]*")
	assert.NotContains(t, out, "## Survey Notes")
}

func TestRenderEmptyDocument(t *testing.T) {
	assert.Equal(t, "# Survey Report\n\n", render(t, New(0), &renderers.Document{}))
	assert.Equal(t, "# Survey Report\n\n", render(t, New(0), nil))
}

func TestRenderWarningsFirst(t *testing.T) {
	res, err := engine.New().Process("sparse", "Customer was friendly.", "en")
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)

	out := render(t, New(0), &renderers.Document{Result: res})

	assert.Less(t, strings.Index(out, "## Warnings"), strings.Index(out, "## Survey Notes"))
	assert.Contains(t, out, "- Missing required field: property.type")
}

func TestCut(t *testing.T) {
	assert.Equal(t, "a\n", cut("a\nbcdef", 4))
	assert.Equal(t, "abc", cut("abcdef", 3))
	assert.Equal(t, "abc", cut("abc", 10))
	assert.Equal(t, "", cut("abc", -1))
}
