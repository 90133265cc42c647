package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/glimte/strong-lambda-go/contracts"
	"github.com/glimte/strong-lambda-go/hydrate"
	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contract-check",
		Short: "Check events against strong-lambda contracts",
		Long: `contract-check loads a contract schema from YAML and checks JSON events against it.
It lists required paths, reports missing keys, shows the hydrated record
and exports the schema as JSON Schema.`,
		Version:      fmt.Sprintf("%s (commit: %s)", version, gitCommit),
		SilenceUsage: true,
	}

	var schemaPaths []string
	var schemaName string
	rootCmd.PersistentFlags().StringArrayVarP(&schemaPaths, "schema", "s", nil, "YAML contract schema (repeatable)")
	rootCmd.PersistentFlags().StringVarP(&schemaName, "name", "n", "", "Schema to use when several are loaded (default: the first)")
	_ = rootCmd.MarkPersistentFlagRequired("schema")

	schemasCmd := &cobra.Command{
		Use:   "schemas",
		Short: "List the loaded schema names",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := loadSchemas(schemaPaths)
			if err != nil {
				return err
			}
			for _, name := range registry.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	pathsCmd := &cobra.Command{
		Use:   "paths",
		Short: "List the required paths of a schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := selectSchema(schemaPaths, schemaName)
			if err != nil {
				return err
			}
			printPaths(cmd.OutOrStdout(), schema)
			return nil
		},
	}

	var eventPath string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Report required keys missing from an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, event, err := load(schemaPaths, schemaName, eventPath)
			if err != nil {
				return err
			}

			if err := hydrate.Validate(event, hydrate.PathsFor(event, schema)); err != nil {
				if paths, ok := hydrate.MissingPaths(err); ok {
					for _, path := range paths {
						fmt.Fprintf(cmd.OutOrStdout(), "missing: %s\n", path)
					}
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: all required keys present\n", schema.Name())
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&eventPath, "event", "e", "", "JSON event file")
	_ = validateCmd.MarkFlagRequired("event")

	var asJSON bool
	hydrateCmd := &cobra.Command{
		Use:   "hydrate",
		Short: "Hydrate an event and print the record",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, event, err := load(schemaPaths, schemaName, eventPath)
			if err != nil {
				return err
			}

			record, err := hydrate.HydrateRecord(event, schema)
			if err != nil {
				return err
			}

			if asJSON {
				output, err := json.MarshalIndent(record, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}

			dumper := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
			dumper.Fdump(cmd.OutOrStdout(), record)
			return nil
		},
	}
	hydrateCmd.Flags().StringVarP(&eventPath, "event", "e", "", "JSON event file")
	hydrateCmd.Flags().BoolVar(&asJSON, "json", false, "Print the record as JSON")
	_ = hydrateCmd.MarkFlagRequired("event")

	jsonSchemaCmd := &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the schema as a JSON Schema document",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := selectSchema(schemaPaths, schemaName)
			if err != nil {
				return err
			}

			output, err := json.MarshalIndent(schema.JSONSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		},
	}

	rootCmd.AddCommand(schemasCmd, pathsCmd, validateCmd, hydrateCmd, jsonSchemaCmd)
	return rootCmd
}

// loadSchemas registers every schema file and returns the name of the
// first one
func loadSchemas(paths []string) (*contracts.Registry, string, error) {
	registry := contracts.NewRegistry()
	first := ""
	for _, path := range paths {
		schema, err := contracts.LoadYAML(path)
		if err != nil {
			return nil, "", err
		}
		if err := registry.Register(schema); err != nil {
			return nil, "", fmt.Errorf("%s: %w", path, err)
		}
		if first == "" {
			first = schema.Name()
		}
	}
	return registry, first, nil
}

func selectSchema(paths []string, name string) (*contracts.Schema, error) {
	registry, first, err := loadSchemas(paths)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = first
	}
	return registry.Get(name)
}

func load(schemaPaths []string, schemaName, eventPath string) (*contracts.Schema, map[string]any, error) {
	schema, err := selectSchema(schemaPaths, schemaName)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(eventPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read event file: %w", err)
	}

	var event map[string]any
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, nil, fmt.Errorf("failed to parse event: %w", err)
	}
	return schema, event, nil
}

func printPaths(w io.Writer, schema *contracts.Schema) {
	paths := schema.RequiredPaths()
	if len(paths) == 0 {
		fmt.Fprintf(w, "%s has no required paths\n", schema.Name())
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Path", "Depth")
	for i, path := range paths {
		table.Append(
			strconv.Itoa(i+1),
			path,
			strconv.Itoa(strings.Count(path, contracts.Separator)+1),
		)
	}
	table.Render()
}
