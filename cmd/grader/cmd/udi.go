package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/modules/grading/identity"
)

type udiOptions struct {
	year     string
	semester string
	salt     string
}

// newUDICmd prints the anonymized label a trace would carry, for joining
// records during support.
func newUDICmd() *cobra.Command {
	opts := udiOptions{}
	c := &cobra.Command{
		Use:   "udi <user-id> <course-code>",
		Short: "print the identity hash for a student and term",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), identity.Hash(args[0], args[1], opts.year, opts.semester, opts.salt))
			return nil
		},
	}
	c.Flags().StringVar(&opts.year, "year", grading.DefaultAcademicYear, "academic year")
	c.Flags().StringVar(&opts.semester, "semester", grading.DefaultSemester, "semester")
	c.Flags().StringVar(&opts.salt, "salt", "", "hash salt (defaults to the built-in salt)")
	return c
}
