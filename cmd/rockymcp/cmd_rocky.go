package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dejo1307/rockymcp/internal/engine"
	"github.com/dejo1307/rockymcp/internal/explainers/sarah"
	"github.com/dejo1307/rockymcp/internal/facts"
	"github.com/dejo1307/rockymcp/internal/renderers"
)

var (
	sessionID   string
	language    string
	format      string
	record      bool
	audience    string
	tone        string
	concurrency int
)

var processCmd = &cobra.Command{
	Use:   "process [transcript-file]",
	Short: "Extract Facts from one transcript (stdin when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProcess,
}

var explainCmd = &cobra.Command{
	Use:   "explain [facts-file]",
	Short: "Explain a Facts record (or a process result) for an audience",
	Long: `Reads a Facts document, or the JSON output of "rockymcp process", and
renders Sarah's explanation for the given audience.

Audiences: customer, engineer, surveyor, manager, admin
Tones:     professional, friendly, technical, simple, urgent`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplain,
}

var batchCmd = &cobra.Command{
	Use:   "batch [transcript-file...]",
	Short: "Process many transcripts in parallel and print one JSON result per line",
	Long: `Processes every transcript file independently. The session id of each
result is the file name without its extension. Results are printed as JSON
lines in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	processCmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id (default: random uuid)")
	processCmd.Flags().StringVarP(&language, "language", "l", "", "transcript language (default from config)")
	processCmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or markdown")
	processCmd.Flags().BoolVar(&record, "record", false, "append the Facts record to the ledger")

	explainCmd.Flags().StringVarP(&audience, "audience", "a", "customer", "target audience")
	explainCmd.Flags().StringVarP(&tone, "tone", "t", "", "tone (default depends on audience)")
	explainCmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or markdown")

	batchCmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "parallel workers (default from config)")
	batchCmd.Flags().BoolVar(&record, "record", false, "append every Facts record to the ledger")

	rootCmd.AddCommand(processCmd, explainCmd, batchCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	id := sessionID
	if id == "" {
		id = uuid.NewString()
	}
	lang := language
	if lang == "" {
		lang = cfg.Language
	}

	res, err := newEngine().Process(id, string(data), lang)
	if err != nil {
		return err
	}
	if record {
		if err := appendLedger(res.Facts); err != nil {
			return err
		}
	}

	if format == "json" {
		return writeJSON(cmd, res)
	}
	return render(cmd, format, &renderers.Document{Result: res})
}

func runExplain(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	f, err := decodeFacts(data)
	if err != nil {
		return err
	}

	ex, err := sarah.New(sarah.WithLogger(logger)).Explain(sarah.Request{Facts: f, Audience: audience, Tone: tone})
	if err != nil {
		return err
	}

	if format == "json" {
		return writeJSON(cmd, ex)
	}
	return render(cmd, format, &renderers.Document{Explanation: ex})
}

// decodeFacts accepts either a process result or a bare Facts document.
func decodeFacts(data []byte) (*facts.Facts, error) {
	var res engine.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decoding facts: %w", err)
	}
	if res.Facts.Version != "" {
		return &res.Facts, nil
	}

	var f facts.Facts
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding facts: %w", err)
	}
	if f.Version == "" {
		return nil, errors.New("decoding facts: no version field, not a Facts document")
	}
	return &f, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputs := make([]engine.Input, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		base := filepath.Base(path)
		inputs = append(inputs, engine.Input{
			SessionID: strings.TrimSuffix(base, filepath.Ext(base)),
			Text:      string(data),
			Language:  cfg.Language,
		})
	}

	n := concurrency
	if n <= 0 {
		n = cfg.Batch.Concurrency
	}
	results, err := newEngine().ProcessAll(cmd.Context(), inputs, n)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, res := range results {
		if record {
			if err := appendLedger(res.Facts); err != nil {
				return err
			}
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	logger.Info("batch complete", zap.Int("transcripts", len(results)), zap.Int("concurrency", n))
	return nil
}

// appendLedger writes f to the configured ledger file as a new record.
func appendLedger(f facts.Facts) error {
	rec := facts.NewStore().Append(f)
	if err := facts.AppendJSONLFile(cfg.Ledger.Path, rec); err != nil {
		return err
	}
	logger.Debug("recorded facts", zap.String("session_id", f.SessionID), zap.String("record_id", rec.ID.String()))
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
