package task

import (
	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := newIntents(cmd)
			if err != nil {
				return err
			}
			if err := i.remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			i.render()
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := newIntents(cmd)
			if err != nil {
				return err
			}
			if err := i.clear(cmd.Context()); err != nil {
				return err
			}
			i.render()
			return nil
		},
	}
}
