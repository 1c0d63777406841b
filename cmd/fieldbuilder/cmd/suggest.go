package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
	"github.com/goliatone/go-fieldbuilder/pkg/suggest"
)

var suggestOutput string

var suggestCmd = &cobra.Command{
	Use:   "suggest <description>",
	Short: "Generate fields from a description with a Gemini model",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, err := suggest.NewGemini(cmd.Context(), cfg.Suggest.Model)
		if err != nil {
			return err
		}
		schema, err := suggest.New(gen, suggest.WithLogger(logger)).Suggest(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if suggestOutput != "" {
			return writeSchema(suggestOutput, schema)
		}
		encoded, err := fieldschema.Encode(schema)
		if err != nil {
			return err
		}
		printf(cmd, "%s\n", encoded)
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestOutput, "output", "o", "", "write the schema to a file instead of stdout")
}
