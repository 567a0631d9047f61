package task

import (
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks, optionally filtered.

Examples:
  tasklist list
  tasklist ls --filter pending
  tasklist list -f completed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := newIntents(cmd)
			if err != nil {
				return err
			}
			if err := i.filter(cmd.Context(), filter); err != nil {
				return err
			}
			i.render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "filter: all, completed or pending")
	return cmd
}
