// Package pipeline runs a statement batch end to end: decode, normalize,
// categorize, report.
package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/cleared-dev/statements/internal/categorize"
	"github.com/cleared-dev/statements/internal/importer"
	"github.com/cleared-dev/statements/internal/logger"
	"github.com/cleared-dev/statements/internal/model"
	"github.com/cleared-dev/statements/internal/normalize"
	"github.com/cleared-dev/statements/internal/statements"
)

// Result is everything produced for one batch.
type Result struct {
	BatchID      string              `json:"batchId"`
	Files        []string            `json:"files"`
	Transactions []model.Transaction `json:"transactions"`
	Reports      model.Reports       `json:"reports"`
	Stats        model.Stats         `json:"stats"`
	// LowAccuracy is set when a best-effort decoder such as PDF contributed rows.
	LowAccuracy bool `json:"lowAccuracy"`
}

// Pipeline holds the decoders and categorization engine shared by batches.
// It carries no per-batch state and is safe for concurrent use.
type Pipeline struct {
	registry *importer.Registry
	engine   *categorize.Engine
}

// New creates a Pipeline. Nil arguments select the built-in decoders and rules.
func New(registry *importer.Registry, engine *categorize.Engine) *Pipeline {
	if registry == nil {
		registry = importer.DefaultRegistry()
	}
	if engine == nil {
		engine = categorize.NewEngine(nil)
	}
	return &Pipeline{registry: registry, engine: engine}
}

// Engine returns the categorization engine.
func (p *Pipeline) Engine() *categorize.Engine {
	return p.engine
}

// Registry returns the decoder registry.
func (p *Pipeline) Registry() *importer.Registry {
	return p.registry
}

// Process decodes files and runs the batch. Any file failure aborts the batch.
func (p *Pipeline) Process(ctx context.Context, files []importer.File) (*Result, error) {
	decoded, err := importer.DecodeAll(ctx, p.registry, files)
	if err != nil {
		return nil, err
	}

	sets := make([][]model.RawRow, 0, len(decoded))
	names := make([]string, 0, len(decoded))
	low := false
	for _, d := range decoded {
		sets = append(sets, d.Rows)
		names = append(names, d.File)
		low = low || (d.LowAccuracy && len(d.Rows) > 0)
	}

	res := p.run(ctx, sets)
	res.Files = names
	res.LowAccuracy = low
	return res, nil
}

// ProcessRows runs an already-decoded set of rows as one batch.
func (p *Pipeline) ProcessRows(ctx context.Context, rows []model.RawRow) *Result {
	return p.run(ctx, [][]model.RawRow{rows})
}

func (p *Pipeline) run(ctx context.Context, sets [][]model.RawRow) *Result {
	batchID := uuid.NewString()
	log := logger.FromContext(ctx).With().Str("batch", batchID).Logger()
	ctx = logger.WithContext(ctx, log)

	ledger, stats := normalize.NormalizeBatch(ctx, sets)
	ledger = p.engine.CategorizeAll(ledger)

	log.Info().
		Int("total", stats.TotalRows).
		Int("accepted", stats.SuccessfulRows).
		Int("skipped", stats.FailedRows).
		Str("bank", stats.BankDetected).
		Msg("processed batch")

	return &Result{
		BatchID:      batchID,
		Files:        []string{},
		Transactions: ledger,
		Reports:      statements.Generate(ledger),
		Stats:        stats,
	}
}
