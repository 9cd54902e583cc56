package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/quizbuzz/quizbuzz-go/internal/services/questionbank"
	"github.com/quizbuzz/quizbuzz-go/internal/storage/memory"
)

func newQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Question file operations",
	}

	cmd.AddCommand(newQuestionsValidateCmd())

	return cmd
}

func newQuestionsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a CSV question file",
		Long: `Parse a CSV question file with the same parser the server uses and
report whether it is loadable. The file needs a header row with the columns
question, optionA, optionB, optionC, optionD, correctAnswer and points.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
			bank := questionbank.New(memory.New(), logger)

			if err := bank.LoadFromFile(context.Background(), args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("%s: %d questions, ok", args[0], bank.Count()))
			return nil
		},
	}
}
