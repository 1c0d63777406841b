package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldbuilder/pkg/lookup"
)

var (
	lookupParent   string
	lookupSource   string
	lookupEndpoint string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Fetch dependent choices for a source value",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint := strings.TrimSpace(lookupEndpoint)
		if endpoint == "" {
			endpoint = cfg.Lookup.Endpoint
		}
		if endpoint == "" {
			return errors.New("lookup endpoint not configured (set --endpoint or FIELDBUILDER_LOOKUP_ENDPOINT)")
		}
		client, err := lookup.NewClient(endpoint, lookup.WithCacheSize(cfg.Lookup.CacheSize))
		if err != nil {
			return err
		}

		if strings.TrimSpace(lookupSource) == "" {
			return errors.New("--source is required")
		}

		choices, err := client.Fetch(cmd.Context(), lookup.Query{
			ParentID: strings.TrimSpace(lookupParent),
			SourceID: strings.TrimSpace(lookupSource),
		})
		if err != nil {
			return err
		}
		if len(choices) == 0 {
			logger.Info("lookup: no choices returned")
		}
		for _, choice := range choices {
			printf(cmd, "%s\t%s\n", choice.ID, choice.Text)
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVar(&lookupParent, "parent", "", "parent submission id")
	lookupCmd.Flags().StringVar(&lookupSource, "source", "", "selected source value (child form id)")
	lookupCmd.Flags().StringVar(&lookupEndpoint, "endpoint", "", "override lookup.endpoint")
}
