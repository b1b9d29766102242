package main

import (
	"strings"

	"github.com/spf13/cobra"

	"productshot/internal/domain"
)

func newSearchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search DAM photos by keyword, newest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assets, err := e.searcher().Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if assets == nil {
				assets = []domain.AssetResult{}
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"assets": assets})
		},
	}
}
