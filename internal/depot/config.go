package depot

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dejo1307/rockymcp/internal/logging"
)

// Config file names, looked up in each candidate directory.
const (
	SchemaFile    = "depot_schema.json"
	ChecklistFile = "checklist_config.json"
)

//go:embed defaults/depot_schema.json defaults/checklist_config.json
var defaultsFS embed.FS

// Source names where a config file was loaded from.
type Source string

const (
	SourceOverride Source = "override"
	SourceInstall  Source = "install"
	SourceEmbedded Source = "embedded"
)

// FileProvenance records where one config file came from.
type FileProvenance struct {
	Source Source `json:"source"`
	Path   string `json:"path,omitempty"`
}

// Provenance records how a Config was assembled. UsedFallback is set when any
// file came from the embedded default. Warnings lists every configured file
// that could not be used.
type Provenance struct {
	Schema       FileProvenance `json:"schema"`
	Checklist    FileProvenance `json:"checklist"`
	UsedFallback bool           `json:"usedFallback"`
	Warnings     []string       `json:"warnings,omitempty"`
}

// Config is the loaded Depot configuration. It is read-only after load and
// safe for concurrent use.
type Config struct {
	Schema     Schema     `json:"schema"`
	Checklist  Checklist  `json:"checklist"`
	Provenance Provenance `json:"provenance"`

	aliases map[string]string
}

// NewConfig builds a Config from explicit values with the built-in alias
// table. Sections are ordered by their Order field.
func NewConfig(schema Schema, checklist Checklist) *Config {
	return &Config{
		Schema:    schema.sorted(),
		Checklist: checklist,
		aliases:   sectionAliases,
	}
}

// Resolve maps a raw section name onto a schema key.
func (c *Config) Resolve(input string) (string, bool) {
	return ResolveCanonicalSectionName(c.Schema, c.aliases, input)
}

// LoadOptions lists the directories searched before the embedded defaults.
// Empty directories are skipped.
type LoadOptions struct {
	OverrideDir string
	InstallDir  string
	Logger      *zap.Logger
}

type candidate struct {
	source Source
	dir    string
}

// LoadConfig loads each file from the override directory, then the install
// directory, then the embedded defaults. It never fails: unreadable or invalid
// files are skipped and recorded in Provenance.
func LoadConfig(opts LoadOptions) *Config {
	logger := logging.Or(opts.Logger).Named("depot")
	candidates := []candidate{
		{SourceOverride, opts.OverrideDir},
		{SourceInstall, opts.InstallDir},
	}

	var prov Provenance
	schema, schemaProv := loadFile(SchemaFile, Schema.validate, candidates, &prov, logger)
	checklist, checklistProv := loadFile(ChecklistFile, Checklist.validate, candidates, &prov, logger)
	prov.Schema, prov.Checklist = schemaProv, checklistProv

	cfg := NewConfig(schema, checklist)
	cfg.Provenance = prov

	logger.Info("depot config loaded",
		zap.String("schema_source", string(prov.Schema.Source)),
		zap.String("checklist_source", string(prov.Checklist.Source)),
		zap.Bool("used_fallback", prov.UsedFallback),
		zap.Int("sections", len(cfg.Schema.Sections)),
		zap.Int("checklist_items", len(cfg.Checklist.Items)),
	)
	return cfg
}

// DefaultConfig returns the embedded configuration.
func DefaultConfig() *Config {
	return LoadConfig(LoadOptions{})
}

func loadFile[T any](name string, validate func(T) error, candidates []candidate, prov *Provenance, logger *zap.Logger) (T, FileProvenance) {
	for _, c := range candidates {
		if c.dir == "" {
			continue
		}
		path := filepath.Join(c.dir, name)
		v, err := decodeFile(path, validate)
		if err == nil {
			return v, FileProvenance{Source: c.source, Path: path}
		}
		if errors.Is(err, os.ErrNotExist) && c.source == SourceInstall {
			logger.Debug("depot config file not found", zap.String("path", path))
		} else {
			logger.Warn("depot config file unusable", zap.String("path", path), zap.String("source", string(c.source)), zap.Error(err))
		}
		prov.Warnings = append(prov.Warnings, fmt.Sprintf("%s: %v", path, err))
	}

	prov.UsedFallback = true
	var v T
	data, err := defaultsFS.ReadFile("defaults/" + name)
	if err == nil {
		err = json.Unmarshal(data, &v)
	}
	if err == nil {
		err = validate(v)
	}
	if err != nil {
		// The embedded files are part of the build.
		panic(fmt.Sprintf("depot: embedded %s is invalid: %v", name, err))
	}
	return v, FileProvenance{Source: SourceEmbedded}
}

func decodeFile[T any](path string, validate func(T) error) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := validate(v); err != nil {
		return v, fmt.Errorf("validating %s: %w", path, err)
	}
	return v, nil
}
