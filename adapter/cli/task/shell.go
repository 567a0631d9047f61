package task

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklist/adapter/cli"
	"github.com/felixgeelhaar/tasklist/internal/tasks/application"
)

const shellHelp = `Commands:
  add <description>        add a pending task
  toggle <id>              flip completion (alias: done)
  edit <id> <description>  replace the description
  rm <id>                  delete a task (alias: delete)
  clear                    delete every task
  filter <all|completed|pending>
  list                     show the list again (alias: ls)
  help                     show this help
  quit                     leave the shell (alias: exit)`

var errQuit = errors.New("quit")

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session that re-renders the list after every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := newIntents(cmd)
			if err != nil {
				return err
			}

			updates, unsubscribe := i.c.Subscribe()
			defer unsubscribe()

			sh := &shell{
				intents: i,
				updates: updates,
				scanner: bufio.NewScanner(cmd.InOrStdin()),
			}
			return sh.run(cmd.Context())
		},
	}
}

type shell struct {
	intents
	updates <-chan application.Snapshot
	scanner *bufio.Scanner
}

func (s *shell) run(ctx context.Context) error {
	s.flush()
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(s.out, "> ")
		if !s.scanner.Scan() {
			fmt.Fprintln(s.out)
			return s.scanner.Err()
		}

		err := s.dispatch(ctx, s.scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		s.flush()
	}
}

// flush renders the latest published snapshot, if any.
// Coordinator publishes synchronously, so a change is visible here as soon as the call returns.
func (s *shell) flush() {
	select {
	case snapshot, ok := <-s.updates:
		if ok {
			cli.RenderList(s.out, snapshot)
		}
	default:
	}
}

func (s *shell) dispatch(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "add":
		_, err := s.add(ctx, rest)
		return err
	case "toggle", "done":
		return s.toggle(ctx, rest)
	case "edit":
		id, description, _ := strings.Cut(rest, " ")
		return s.edit(ctx, id, description)
	case "rm", "delete":
		return s.remove(ctx, rest)
	case "clear":
		return s.clear(ctx)
	case "filter":
		return s.filter(ctx, rest)
	case "list", "ls":
		s.render()
		return nil
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return nil
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
}
