package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
)

var validateAllowEmpty bool

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check schema files",
	Long: `Reports every invalid descriptor and duplicate name. A schema must contain
at least one field unless --allow-empty is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			schema, err := readSchema(path, false)
			if err != nil {
				printf(cmd, "%s: %v\n", path, err)
				failed++
				continue
			}
			errs := fieldschema.ValidateSchema(schema, !validateAllowEmpty)
			for _, err := range errs {
				printf(cmd, "%s: %s\n", path, describe(schema, err))
			}
			for _, name := range schema.DuplicateNames() {
				printf(cmd, "%s: warning: duplicate field name %q\n", path, name)
			}
			if len(errs) > 0 {
				failed++
				continue
			}
			printf(cmd, "%s: ok (%d fields)\n", path, len(schema))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files invalid", failed, len(args))
		}
		return nil
	},
}

func describe(schema fieldschema.Schema, err error) string {
	var indexed fieldschema.IndexedError
	var verr *fieldschema.ValidationError
	if errors.As(err, &indexed) && errors.As(err, &verr) && indexed.Index < len(schema) {
		name := schema[indexed.Index].Name
		if name == "" {
			name = "unnamed"
		}
		return fmt.Sprintf("field %d (%s): %s", indexed.Index+1, name, verr.Message)
	}
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

func init() {
	validateCmd.Flags().BoolVar(&validateAllowEmpty, "allow-empty", false, "accept schemas without fields")
}
