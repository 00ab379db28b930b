package main

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dejo1307/rockymcp/internal/depot"
	"github.com/dejo1307/rockymcp/internal/engine"
	"github.com/dejo1307/rockymcp/internal/facts"
)

// schemaTargets are the documents the schema command can describe.
var schemaTargets = map[string]any{
	"facts":        &facts.Facts{},
	"result":       &engine.Result{},
	"explanation":  &facts.Explanation{},
	"depot":        &depot.DepotNotes{},
	"depot-config": &depot.Config{},
}

var schemaCmd = &cobra.Command{
	Use:       "schema [" + strings.Join(schemaTargetNames(), "|") + "]",
	Short:     "Print the JSON Schema of an output document",
	Args:      cobra.ExactArgs(1),
	ValidArgs: schemaTargetNames(),
	RunE:      runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func schemaTargetNames() []string {
	names := make([]string, 0, len(schemaTargets))
	for name := range schemaTargets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var orderedSectionsType = reflect.TypeOf((*orderedmap.OrderedMap[string, string])(nil)).Elem()

func newReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		// Ordered section maps serialize as plain string-to-string objects.
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == orderedSectionsType {
				return &jsonschema.Schema{
					Type:                 "object",
					AdditionalProperties: &jsonschema.Schema{Type: "string"},
				}
			}
			return nil
		},
	}
}

func runSchema(cmd *cobra.Command, args []string) error {
	v, ok := schemaTargets[args[0]]
	if !ok {
		return fmt.Errorf("unknown schema %q (want one of %s)", args[0], strings.Join(schemaTargetNames(), ", "))
	}
	return writeJSON(cmd, newReflector().Reflect(v))
}
