package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/importer"
	"github.com/cleared-dev/statements/internal/ledger"
	"github.com/cleared-dev/statements/internal/logger"
	"github.com/cleared-dev/statements/internal/runlog"
)

// source remembers where a file came from so it can be archived.
type source struct {
	dir  string
	name string
}

func newProcessCommand(a *app) *cobra.Command {
	var format, outDir string
	var archive, asJSON bool

	cmd := &cobra.Command{
		Use:   "process [file|dir]...",
		Short: "Process statement files into a categorized ledger and reports",
		Long: "Process decodes every file given (or every supported file in the configured\n" +
			"import directory), writes the ledger exports and prints the statements.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}
			f, err := ledger.ParseFormat(format)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.path(a.cfg.Output.Dir)
			}
			if !cmd.Flags().Changed("archive") {
				archive = a.cfg.Import.ArchiveProcessed
			}
			return a.runProcess(cmd, args, processOptions{
				format:  f,
				outDir:  outDir,
				archive: archive,
				asJSON:  asJSON,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "export format: json, csv or both (default from config)")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "export directory (default from config)")
	cmd.Flags().BoolVar(&archive, "archive", false, "move processed files into processed/")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")

	return cmd
}

type processOptions struct {
	format  ledger.Format
	outDir  string
	archive bool
	asJSON  bool
}

func (a *app) runProcess(cmd *cobra.Command, args []string, opts processOptions) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	out := cmd.OutOrStdout()

	p, err := a.pipeline()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{a.path(a.cfg.Import.Dir)}
	}
	files, sources, err := collect(args, p.Registry())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No statement files found.")
		return nil
	}

	res, err := p.Process(ctx, files)
	if err != nil {
		return fmt.Errorf("processing batch: %w", err)
	}
	for _, v := range ledger.Validate(res.Transactions) {
		log.Warn().Str("check", string(v.Check)).Str("id", v.ID).Msg(v.Description)
	}

	name := "ledger-" + res.BatchID[:8]
	written, err := ledger.NewExporter(opts.outDir).Export(name, res.Transactions, opts.format)
	if err != nil {
		return fmt.Errorf("exporting ledger: %w", err)
	}

	entry := runlog.Entry{
		Timestamp: time.Now().UTC(),
		BatchID:   res.BatchID,
		Files:     res.Files,
		Stats:     res.Stats,
		Income:    res.Reports.IncomeStatement.TotalIncome,
		Expenses:  res.Reports.IncomeStatement.TotalExpenses,
	}
	if err := runlog.Append(a.root, []runlog.Entry{entry}); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}

	if opts.archive {
		for _, s := range sources {
			if err := importer.MarkProcessed(s.dir, s.name); err != nil {
				return fmt.Errorf("archiving: %w", err)
			}
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printBatch(out, res, written)
	return nil
}

// collect expands directories into their supported files and keeps plain
// file arguments as given.
func collect(args []string, reg *importer.Registry) ([]importer.File, []source, error) {
	var files []importer.File
	var sources []source
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, importer.PathFile(arg))
			sources = append(sources, source{dir: filepath.Dir(arg), name: filepath.Base(arg)})
			continue
		}

		found, err := importer.Scan(arg, reg)
		if err != nil {
			return nil, nil, err
		}
		for _, f := range found {
			files = append(files, importer.PathFile(f.Path))
			sources = append(sources, source{dir: arg, name: f.Name})
		}
	}
	return files, sources, nil
}
