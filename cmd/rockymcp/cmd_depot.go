package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dejo1307/rockymcp/internal/renderers"
)

var transcriptPath string

var depotCmd = &cobra.Command{
	Use:   "depot [sections-file]",
	Short: "Canonicalize raw survey sections into the Depot schema",
	Long: `Reads a JSON object of raw section names to content (as proposed by an
upstream model), maps it onto the section schema, parses the parts list,
matches the checklist and lists required sections that are missing.

Section files are looked up in --config's depot.config_dir, then
depot.install_dir, then the built-in defaults.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDepot,
}

var depotConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the loaded Depot configuration and where it came from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd, loadDepot())
	},
}

func init() {
	depotCmd.Flags().StringVar(&transcriptPath, "transcript", "", "transcript file scanned for materials and checklist items")
	depotCmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or markdown")

	depotCmd.AddCommand(depotConfigCmd)
	rootCmd.AddCommand(depotCmd)
}

func runDepot(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	raw := orderedmap.New[string, string]()
	if err := json.Unmarshal(data, raw); err != nil {
		return fmt.Errorf("decoding sections: %w", err)
	}

	var transcript string
	if transcriptPath != "" {
		b, err := os.ReadFile(transcriptPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", transcriptPath, err)
		}
		transcript = string(b)
	}

	notes := loadDepot().Process(raw, transcript)
	if format == "json" {
		return writeJSON(cmd, notes)
	}
	return render(cmd, format, &renderers.Document{Depot: notes})
}
