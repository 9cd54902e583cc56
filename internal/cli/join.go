package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizbuzz/quizbuzz-go/internal/ws"
)

func newJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a session as a player",
		Long: `Connect to the server and join the session with the given code.

Player actions are read from stdin, one per line:
  buzz        claim the buzzer
  answer <L>  answer the question with option label L (A-D)
  quit        leave the session`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])
			out := NewOutput(cfg.Output)

			conn, err := dialWS(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := conn.Send(ws.InJoinSession, ws.JoinPayload{Code: code, DisplayName: name}); err != nil {
				return err
			}

			go pumpEvents(conn, out)

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				fields := strings.Fields(scanner.Text())
				if len(fields) == 0 {
					continue
				}
				switch fields[0] {
				case "buzz":
					err = conn.Send(ws.InClaimBuzzer, ws.CodePayload{Code: code})
				case "answer":
					if len(fields) != 2 {
						out.PrintMessage("usage: answer <A-D>")
						continue
					}
					err = conn.Send(ws.InSubmitAnswer, ws.AnswerPayload{
						Code:        code,
						AnswerLabel: strings.ToUpper(fields[1]),
					})
				case "quit":
					return nil
				default:
					out.PrintMessage("commands: buzz, answer <A-D>, quit")
					continue
				}
				if err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&name, "name", "player", "Display name to join with")

	return cmd
}
