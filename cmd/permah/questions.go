package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mind-engage/permah/internal/survey"
)

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the questionnaire grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printQuestions(cmd.OutOrStdout())
		},
	}
}

func printQuestions(w io.Writer) error {
	for _, c := range survey.Categories() {
		if _, err := fmt.Fprintf(w, "%s\n  %s\n", c.DisplayName(), c.Subtitle()); err != nil {
			return err
		}
		for _, q := range survey.QuestionsFor(c) {
			fmt.Fprintf(w, "  %2d. %s [%d-%d, default %d]\n", int(q.ID), q.Prompt, q.Min, q.Max, q.Default)
		}
	}
	return nil
}
