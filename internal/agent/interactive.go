package agent

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"codeberg.org/mutker/agentctl/internal/errors"
)

// RunInteractive reads requests from the input stream until EOF, an exit
// keyword or context cancellation. Each request runs one full pipeline pass
// and echoes the response, the directives taken and their results.
//
// Reading happens on its own goroutine so an interrupt breaks the loop
// even while it is blocked waiting for a line.
func (a *Agent) RunInteractive(ctx context.Context) error {
	fmt.Fprintln(a.out, "=== agentctl interactive session ===")
	fmt.Fprintln(a.out, "Type 'exit' or 'quit' to end the session.")

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(a.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(a.out, "\n> ")

		select {
		case <-ctx.Done():
			fmt.Fprintln(a.out, "\nExiting...")
			return nil
		case err := <-scanErr:
			if err != nil {
				return errors.New().Wrap(ErrInputClosed, err)
			}
			fmt.Fprintln(a.out, "\nExiting...")
			return nil
		case line := <-lines:
			input := strings.TrimSpace(line)
			switch strings.ToLower(input) {
			case "exit", "quit":
				fmt.Fprintln(a.out, "Exiting...")
				return nil
			case "":
				continue
			}

			outcome := a.ProcessInput(ctx, input)
			fmt.Fprintf(a.out, "\nResponse: %s\n", outcome.Response)

			if len(outcome.Directives) > 0 {
				fmt.Fprintln(a.out, "\nActions taken:")
				for i, dir := range outcome.Directives {
					fmt.Fprintf(a.out, "%d. %s\n", i+1, dir.Description)
					fmt.Fprintf(a.out, "   Result: %s\n", outcome.Results[i])
				}
			}
		}
	}
}
