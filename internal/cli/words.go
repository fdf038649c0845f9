package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"little-genius/internal/present"
)

// NewWordsCmd prints numbers as spoken English words.
func NewWordsCmd() *cobra.Command {
	var start, end int
	cmd := &cobra.Command{
		Use:   "words [number...]",
		Short: "Print numbers in words, or a range of number flashcards",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				lo, hi, adjusted := present.NormalizeRange(start, end)
				if adjusted {
					fmt.Fprintf(cmd.ErrOrStderr(), "range adjusted to %d-%d\n", lo, hi)
				}
				for _, card := range present.NumberCards(lo, hi) {
					fmt.Fprintf(out, "%d\t%s\n", card.Value, card.Words)
				}
				return nil
			}
			for _, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("%q is not a number", arg)
				}
				fmt.Fprintln(out, present.NumberToWords(n))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "first number of the range")
	cmd.Flags().IntVar(&end, "end", 20, "last number of the range")
	return cmd
}
