package task

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <description...>",
		Short: "Add a pending task",
		Long: `Add a pending task. All arguments are joined with spaces.

Examples:
  tasklist add Buy milk
  tasklist add "Call the plumber"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := newIntents(cmd)
			if err != nil {
				return err
			}
			added, err := i.add(cmd.Context(), strings.Join(args, " "))
			if err != nil || !added {
				return err
			}
			i.render()
			return nil
		},
	}
}
