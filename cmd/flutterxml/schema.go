package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/cmd/flutterxml/internal/config"
)

func newSchemaCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of flutterxml.yaml",
		Long:  `Prints the JSON schema of the config file, for editor completion and validation.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := configSchema()
			if err != nil {
				return err
			}
			if out == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(out, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}
			log.Printf("✅ Schema written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "File to write the schema to")

	return cmd
}

func configSchema() ([]byte, error) {
	schema := jsonschema.Reflect(&config.Config{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return data, nil
}
