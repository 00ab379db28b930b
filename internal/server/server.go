package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"

	"github.com/dejo1307/rockymcp/internal/completeness"
	"github.com/dejo1307/rockymcp/internal/config"
	"github.com/dejo1307/rockymcp/internal/depot"
	"github.com/dejo1307/rockymcp/internal/engine"
	"github.com/dejo1307/rockymcp/internal/explainers/sarah"
	"github.com/dejo1307/rockymcp/internal/facts"
	"github.com/dejo1307/rockymcp/internal/logging"
	"github.com/dejo1307/rockymcp/internal/renderers"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// DepotConfigURI is the resource exposing the loaded Depot configuration.
const DepotConfigURI = "rocky://config/depot"

// Options wires the server to its collaborators. Nil fields get defaults.
type Options struct {
	Engine    *engine.Engine
	Sarah     *sarah.Renderer
	Depot     *depot.Config
	Store     *facts.Store
	Renderers *renderers.Registry
	Config    *config.Config
	Logger    *zap.Logger
}

// Server wraps the MCP server and connects it to Rocky, Sarah and Depot.
type Server struct {
	mcp       *mcp.Server
	eng       *engine.Engine
	sarah     *sarah.Renderer
	depot     *depot.Config
	store     *facts.Store
	renderers *renderers.Registry
	cfg       *config.Config
	logger    *zap.Logger
}

// New creates a new MCP server.
func New(opts Options) *Server {
	s := &Server{
		eng:       opts.Engine,
		sarah:     opts.Sarah,
		depot:     opts.Depot,
		store:     opts.Store,
		renderers: opts.Renderers,
		cfg:       opts.Config,
		logger:    logging.Or(opts.Logger).Named("server"),
	}
	if s.eng == nil {
		s.eng = engine.New()
	}
	if s.sarah == nil {
		s.sarah = sarah.New()
	}
	if s.depot == nil {
		s.depot = depot.DefaultConfig()
	}
	if s.store == nil {
		s.store = facts.NewStore()
	}
	if s.renderers == nil {
		s.renderers = renderers.NewRegistry()
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "rockymcp",
		Version: Version,
	}, nil)
	s.registerResources()
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport",
		zap.Strings("extractors", s.eng.Extractors()),
		zap.Int("stored_records", s.store.Count()),
	)
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// registerResources adds MCP resources.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         DepotConfigURI,
		Name:        "Depot Configuration",
		Description: "Loaded section schema, checklist configuration and where each file came from",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := json.MarshalIndent(s.depot, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding depot config: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: string(data), MIMEType: "application/json"},
			},
		}, nil
	})
}

// processArgs are the arguments for the rocky_process tool.
type processArgs struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Survey session identifier. A new one is generated when empty."`
	Text      string `json:"text" jsonschema:"Raw survey transcript"`
	Language  string `json:"language,omitempty" jsonschema:"Transcript language code (default from config)"`
	Format    string `json:"format,omitempty" jsonschema:"Output format: json (default) or markdown"`
}

// explainArgs are the arguments for the sarah_explain tool.
type explainArgs struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Explain the latest stored Facts for this session"`
	RecordID  string `json:"record_id,omitempty" jsonschema:"Explain a specific stored record"`
	FactsJSON string `json:"facts_json,omitempty" jsonschema:"Explain this Facts document instead of a stored one"`
	Audience  string `json:"audience" jsonschema:"One of customer, engineer, surveyor, manager, admin"`
	Tone      string `json:"tone,omitempty" jsonschema:"One of professional, friendly, technical, simple, urgent. Defaults per audience."`
}

// sectionArg is one raw section as proposed by an upstream model.
type sectionArg struct {
	Key   string `json:"key" jsonschema:"Section name as written by the model"`
	Value string `json:"value" jsonschema:"Section content"`
}

// depotNormalizeArgs are the arguments for the depot_normalize tool.
type depotNormalizeArgs struct {
	Sections     []sectionArg `json:"sections,omitempty" jsonschema:"Raw sections in input order"`
	SectionsJSON string       `json:"sections_json,omitempty" jsonschema:"Raw sections as a JSON object; key order is kept"`
	Transcript   string       `json:"transcript,omitempty" jsonschema:"Optional transcript scanned for materials and checklist items"`
	Format       string       `json:"format,omitempty" jsonschema:"Output format: json (default) or markdown"`
}

// matchChecklistArgs are the arguments for the depot_match_checklist tool.
type matchChecklistArgs struct {
	Text      string   `json:"text" jsonschema:"Text to scan"`
	Materials []string `json:"materials,omitempty" jsonschema:"Names of materials already extracted"`
}

// historyArgs are the arguments for the facts_history tool.
type historyArgs struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"List every stored record for this session"`
	Hash      string `json:"hash,omitempty" jsonschema:"List every stored record with this natural notes hash"`
}

// slotsArgs are the arguments for the survey_slots tool.
type slotsArgs struct {
	Slots       []completeness.Slot `json:"slots" jsonschema:"Survey form questions in display order"`
	AnswersJSON string              `json:"answers_json" jsonschema:"JSON object of slot key to answer. null means a declined answer, an absent key or blank string means no answer."`
}

// registerTools adds the Rocky, Sarah, Depot and history tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rocky_process",
		Description: "Extract structured Facts from a heating survey transcript. Returns Facts, Automatic Notes, Engineer Basics and warnings. The result is stored for later explanation.",
	}, s.handleProcess)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "sarah_explain",
		Description: "Explain a Facts record for an audience. Uses only values present in the Facts; never adds recommendations.",
	}, s.handleExplain)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "depot_normalize",
		Description: "Canonicalize model-proposed sections into the Depot section schema, parse materials, match the checklist and list missing required sections.",
	}, s.handleDepotNormalize)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "depot_match_checklist",
		Description: "Return the ids of checklist items matched by the text or by the given material names.",
	}, s.handleMatchChecklist)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "facts_history",
		Description: "List stored Facts records by session or by natural notes hash, oldest first.",
	}, s.handleHistory)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "survey_slots",
		Description: "Score survey form answers. An explicit null (don't know) counts as answered; a missing key or blank string does not.",
	}, s.handleSlots)
}

func (s *Server) handleProcess(ctx context.Context, req *mcp.CallToolRequest, args processArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Text) == "" {
		return errorResult("text is required"), nil, nil
	}
	sessionID := args.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	lang := args.Language
	if lang == "" {
		lang = s.cfg.Language
	}

	res, err := s.eng.Process(sessionID, args.Text, lang)
	if err != nil {
		return errorResult(fmt.Sprintf("processing failed: %v", err)), nil, nil
	}

	rec := s.store.Append(res.Facts)
	if s.cfg.Ledger.Enabled && s.cfg.Ledger.Path != "" {
		if err := facts.AppendJSONLFile(s.cfg.Ledger.Path, rec); err != nil {
			s.logger.Warn("failed to append ledger", zap.String("path", s.cfg.Ledger.Path), zap.Error(err))
		}
	}

	if args.Format == "markdown" {
		return s.renderMarkdown(ctx, &renderers.Document{Result: res})
	}

	out := struct {
		RecordID string `json:"recordId"`
		*engine.Result
	}{rec.ID.String(), res}
	return jsonResult(out)
}

func (s *Server) handleExplain(ctx context.Context, req *mcp.CallToolRequest, args explainArgs) (*mcp.CallToolResult, any, error) {
	f, err := s.resolveFacts(args)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	ex, err := s.sarah.Explain(sarah.Request{Facts: f, Audience: args.Audience, Tone: args.Tone})
	if err != nil {
		return errorResult(fmt.Sprintf("explanation failed: %v", err)), nil, nil
	}
	return jsonResult(ex)
}

var errNoFacts = errors.New("no stored facts")

// resolveFacts picks the Facts to explain: inline JSON first, then a record
// id, then the latest record of a session.
func (s *Server) resolveFacts(args explainArgs) (*facts.Facts, error) {
	switch {
	case args.FactsJSON != "":
		var f facts.Facts
		if err := json.Unmarshal([]byte(args.FactsJSON), &f); err != nil {
			return nil, fmt.Errorf("invalid facts_json: %w", err)
		}
		return &f, nil
	case args.RecordID != "":
		id, err := uuid.Parse(args.RecordID)
		if err != nil {
			return nil, fmt.Errorf("invalid record_id: %w", err)
		}
		rec, ok := s.store.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: record %s", errNoFacts, args.RecordID)
		}
		return &rec.Facts, nil
	case args.SessionID != "":
		rec, ok := s.store.Latest(args.SessionID)
		if !ok {
			return nil, fmt.Errorf("%w: session %s (run rocky_process first)", errNoFacts, args.SessionID)
		}
		return &rec.Facts, nil
	default:
		return nil, errors.New("one of facts_json, record_id or session_id is required")
	}
}

func (s *Server) handleDepotNormalize(ctx context.Context, req *mcp.CallToolRequest, args depotNormalizeArgs) (*mcp.CallToolResult, any, error) {
	raw := orderedmap.New[string, string]()
	if args.SectionsJSON != "" {
		if err := json.Unmarshal([]byte(args.SectionsJSON), raw); err != nil {
			return errorResult(fmt.Sprintf("invalid sections_json: %v", err)), nil, nil
		}
	}
	for _, sec := range args.Sections {
		raw.Set(sec.Key, sec.Value)
	}
	if raw.Len() == 0 && strings.TrimSpace(args.Transcript) == "" {
		return errorResult("sections, sections_json or transcript is required"), nil, nil
	}

	notes := s.depot.Process(raw, args.Transcript)
	s.logger.Debug("depot notes normalized",
		zap.Int("sections", notes.Sections.Len()),
		zap.Int("checklist_items", len(notes.ChecklistItems)),
		zap.Int("missing", len(notes.MissingInfo)),
	)

	if args.Format == "markdown" {
		return s.renderMarkdown(ctx, &renderers.Document{Depot: notes})
	}
	return jsonResult(notes)
}

func (s *Server) handleMatchChecklist(ctx context.Context, req *mcp.CallToolRequest, args matchChecklistArgs) (*mcp.CallToolResult, any, error) {
	materials := make([]facts.MaterialItem, 0, len(args.Materials))
	for _, name := range args.Materials {
		materials = append(materials, facts.MaterialItem{Name: name})
	}
	ids := s.depot.MatchChecklistItems(args.Text, materials)
	if ids == nil {
		ids = []string{}
	}
	return jsonResult(ids)
}

func (s *Server) handleHistory(ctx context.Context, req *mcp.CallToolRequest, args historyArgs) (*mcp.CallToolResult, any, error) {
	var recs []facts.Record
	switch {
	case args.SessionID != "":
		recs = s.store.History(args.SessionID)
	case args.Hash != "":
		recs = s.store.ByHash(args.Hash)
	default:
		return errorResult("session_id or hash is required"), nil, nil
	}
	if len(recs) == 0 {
		return errorResult("No stored records match. Run rocky_process first."), nil, nil
	}

	// Limit output
	truncated := false
	total := len(recs)
	if total > 50 {
		recs = recs[total-50:]
		truncated = true
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to marshal records: %v", err)), nil, nil
	}
	text := string(data)
	if truncated {
		text += fmt.Sprintf("\n\n... (showing latest 50 of %d records)", total)
	}
	return textResult(text), nil, nil
}

func (s *Server) handleSlots(ctx context.Context, req *mcp.CallToolRequest, args slotsArgs) (*mcp.CallToolResult, any, error) {
	if len(args.Slots) == 0 {
		return errorResult("slots is required"), nil, nil
	}
	answers := map[string]completeness.Answer{}
	if args.AnswersJSON != "" {
		if err := json.Unmarshal([]byte(args.AnswersJSON), &answers); err != nil {
			return errorResult(fmt.Sprintf("invalid answers_json: %v", err)), nil, nil
		}
	}
	return jsonResult(completeness.SlotCompleteness(args.Slots, answers))
}

func (s *Server) renderMarkdown(ctx context.Context, doc *renderers.Document) (*mcp.CallToolResult, any, error) {
	rnd := s.renderers.Get("markdown")
	if rnd == nil {
		return errorResult("markdown renderer is not registered"), nil, nil
	}
	artifacts, err := rnd.Render(ctx, doc)
	if err != nil {
		return errorResult(fmt.Sprintf("rendering failed: %v", err)), nil, nil
	}
	var sb strings.Builder
	for _, a := range artifacts {
		sb.Write(a.Content)
	}
	return textResult(sb.String()), nil, nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to marshal result: %v", err)), nil, nil
	}
	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
