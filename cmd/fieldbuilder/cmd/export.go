package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldbuilder/pkg/openapi"
)

var (
	exportTitle   string
	exportFormat  string
	exportPath    string
	exportVersion string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a schema as an OpenAPI document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := readSchema(args[0], false)
		if err != nil {
			return err
		}
		title := strings.TrimSpace(exportTitle)
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		result, err := openapi.Export(cmd.Context(), title, schema,
			openapi.WithPath(exportPath),
			openapi.WithVersion(exportVersion))
		if err != nil {
			return err
		}
		for _, name := range result.Duplicates {
			logger.WithField("name", name).Warn("export: duplicate field name, last one wins")
		}

		var body []byte
		if strings.EqualFold(exportFormat, "yaml") {
			body, err = result.YAML()
		} else {
			body, err = result.JSON()
		}
		if err != nil {
			return err
		}
		if exportOutput == "" {
			_, err = cmd.OutOrStdout().Write(append(body, '\n'))
			return err
		}
		return os.WriteFile(exportOutput, body, 0o644)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "form title (defaults to the file name)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "json or yaml")
	exportCmd.Flags().StringVar(&exportPath, "path", "/submissions", "submission path")
	exportCmd.Flags().StringVar(&exportVersion, "version", "1.0.0", "info.version")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (stdout if empty)")
}
