package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opinity/proposal-generator/internal/proposal"
	"github.com/opinity/proposal-generator/internal/schemas"
	"github.com/opinity/proposal-generator/internal/types"
	schemafiles "github.com/opinity/proposal-generator/schemas"
)

var exportSchemaCmd = &cobra.Command{
	Use:   "export-schema",
	Short: "Print the JSON Schema of a proposal variant",
	Long:  "Prints the embedded JSON Schema that generated proposals are validated against, or with --llm the response schema sent to the AI provider.",
	RunE:  runExportSchema,
}

var (
	exportSchemaVariant string
	exportSchemaLLM     bool
)

func init() {
	exportSchemaCmd.Flags().StringVar(&exportSchemaVariant, "variant", string(types.VariantExtended), "Proposal variant: basic or extended")
	exportSchemaCmd.Flags().BoolVar(&exportSchemaLLM, "llm", false, "Print the provider response schema instead of the validation schema")
	rootCmd.AddCommand(exportSchemaCmd)
}

func runExportSchema(cmd *cobra.Command, _ []string) error {
	variant, err := types.ParseVariant(exportSchemaVariant)
	if err != nil {
		return err
	}

	if exportSchemaLLM {
		data, err := json.MarshalIndent(proposal.ResponseSchema(variant), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response schema: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	content, err := schemafiles.Read(schemas.SchemaFor(variant))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), content)
	return err
}
