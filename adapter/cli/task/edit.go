package task

import (
	"strings"

	"github.com/spf13/cobra"
)

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <description...>",
		Short: "Replace a task's description",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := newIntents(cmd)
			if err != nil {
				return err
			}
			if err := i.edit(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			i.render()
			return nil
		},
	}
}
