package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizbuzz/quizbuzz-go/internal/model"
	"github.com/quizbuzz/quizbuzz-go/internal/ws"
)

func newHostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "host",
		Short: "Host a session from the terminal",
		Long: `Connect to the server, create a session and print its join code.

Host actions are read from stdin, one per line:
  next    advance to the next question
  open    open the buzzer
  reset   reset the buzzer for the current question
  quit    disconnect (this ends the session for everyone)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			conn, err := dialWS(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := conn.Send(ws.InCreateSession, nil); err != nil {
				return err
			}

			// The first event names the session code every later action needs
			env, err := conn.Next()
			if err != nil {
				return err
			}
			if model.EventType(env.Type) != model.EventSessionCreated {
				return fmt.Errorf("unexpected first event: %s", env.Type)
			}
			var created model.SessionCreatedPayload
			if err := json.Unmarshal(env.Payload, &created); err != nil {
				return err
			}
			out.PrintEvent(env)
			code := string(created.Code)

			go pumpEvents(conn, out)

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				switch strings.TrimSpace(scanner.Text()) {
				case "next":
					err = conn.Send(ws.InAdvanceQuestion, ws.CodePayload{Code: code})
				case "open":
					err = conn.Send(ws.InOpenBuzzer, ws.CodePayload{Code: code})
				case "reset":
					err = conn.Send(ws.InResetBuzzer, ws.CodePayload{Code: code})
				case "quit":
					return nil
				case "":
					continue
				default:
					out.PrintMessage("commands: next, open, reset, quit")
					continue
				}
				if err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
}

// pumpEvents prints server events until the connection drops
func pumpEvents(conn *wsConn, out *Output) {
	for {
		env, err := conn.Next()
		if err != nil {
			return
		}
		out.PrintEvent(env)
	}
}
