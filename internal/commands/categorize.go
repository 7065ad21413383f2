package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/categorize"
)

func newCategorizeCommand(a *app) *cobra.Command {
	var merchant, debit, credit string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categorize <description>",
		Short: "Show how a single transaction description is categorized",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := categorize.Input{
				Particulars: strings.Join(args, " "),
				Merchant:    merchant,
			}
			var err error
			if in.Debit, err = parseMoneyFlag("debit", debit); err != nil {
				return err
			}
			if in.Credit, err = parseMoneyFlag("credit", credit); err != nil {
				return err
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}
			ex := engine.Explain(in)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ex)
			}

			heading.Fprintf(out, "%s", ex.Category.Name)
			fmt.Fprintf(out, " (%s) via %s\n", ex.Category.Group, ex.Stage)
			if ex.Category.Subcategory != "" {
				fmt.Fprintf(out, "  subcategory: %s\n", ex.Category.Subcategory)
			}
			for _, c := range ex.Candidates {
				fmt.Fprintf(out, "  candidate %-20s score %.2f priority %d\n", c.Category, c.Score, c.Priority)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&merchant, "merchant", "", "merchant name")
	cmd.Flags().StringVar(&debit, "debit", "", "debit amount")
	cmd.Flags().StringVar(&credit, "credit", "", "credit amount")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the explanation as JSON")

	return cmd
}

func parseMoneyFlag(name, v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, v, err)
	}
	return d.Abs(), nil
}
