package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/ledger"
	"github.com/cleared-dev/statements/internal/statements"
)

func newReportCommand(a *app) *cobra.Command {
	var strict, asJSON bool

	cmd := &cobra.Command{
		Use:   "report <ledger.csv|ledger.json>",
		Short: "Recompute the statements from an exported ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txns, err := ledger.ReadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			issues := ledger.Validate(txns)
			for _, v := range issues {
				a.log.Warn().Str("check", string(v.Check)).Str("id", v.ID).Msg(v.Description)
			}
			if strict && len(issues) > 0 {
				return fmt.Errorf("ledger %s failed validation: %d issue(s), first: %w", args[0], len(issues), issues[0])
			}

			reports := statements.Generate(txns)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}
			heading.Fprintf(out, "%s: %d transactions\n\n", args[0], len(txns))
			printReports(out, reports)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the ledger breaks an invariant")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reports as JSON")

	return cmd
}
