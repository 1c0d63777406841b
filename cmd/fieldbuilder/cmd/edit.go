package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
	"github.com/goliatone/go-fieldbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-fieldbuilder/pkg/suggest"
)

var editSuggest bool

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Edit a schema file interactively",
	Long: `Opens the schema in a terminal session. The file is created when it does
not exist and is only written when the session finishes with Done.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		schema, err := readSchema(path, true)
		if err != nil {
			return err
		}
		if dropped := fieldschema.ValidateSchema(schema, false); len(dropped) > 0 {
			logger.WithField("invalid", len(dropped)).Warn("edit: invalid fields will be dropped on save")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts := []tui.Option{
			tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
			tui.WithLogger(logger),
			tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
		}
		if editSuggest {
			gen, err := suggest.NewGemini(ctx, cfg.Suggest.Model)
			if err != nil {
				return err
			}
			opts = append(opts, tui.WithSuggester(suggest.New(gen, suggest.WithLogger(logger))))
		}

		out, err := tui.New(opts...).Run(ctx, fieldschema.MustEncode(schema))
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			printf(cmd, "aborted, %s left unchanged\n", path)
			return nil
		}
		if err != nil {
			return err
		}

		edited, err := fieldschema.Decode(out)
		if err != nil {
			return err
		}
		if err := writeSchema(path, edited); err != nil {
			return err
		}
		printf(cmd, "wrote %d fields to %s\n", len(edited), path)
		return nil
	},
}

func init() {
	editCmd.Flags().BoolVar(&editSuggest, "suggest", false, "offer model generated fields (needs GEMINI_API_KEY)")
}
