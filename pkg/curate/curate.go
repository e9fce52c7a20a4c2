// Package curate drives the batch: normalize, hash, annotate, gate,
// exact-dedup, signature, near-dedup, emit.
package curate

import (
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/stat"

	"github.com/panbanda/winnow/pkg/config"
	"github.com/panbanda/winnow/pkg/docquality"
	"github.com/panbanda/winnow/pkg/minhash"
	"github.com/panbanda/winnow/pkg/models"
	"github.com/panbanda/winnow/pkg/normalize"
	"github.com/panbanda/winnow/pkg/quality"
	"github.com/panbanda/winnow/pkg/structure"
)

// ProgressFunc is called after each record is annotated.
type ProgressFunc func()

// Orchestrator runs one batch over a materialized record set. Records are
// annotated exactly once, immutably, before any dedup decision is made.
type Orchestrator struct {
	quality config.QualityConfig
	dedup   config.DedupConfig
	workers int
}

// Option is a functional option for configuring Orchestrator.
type Option func(*Orchestrator)

// WithWorkers bounds the annotation pool (0 = NumCPU).
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.workers = n
	}
}

// New creates an orchestrator from a run config.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		quality: cfg.Quality,
		dedup:   cfg.Dedup,
		workers: cfg.Workers,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Result is the outcome of one batch run.
type Result struct {
	Kept    []*models.Record
	Summary models.Summary
}

// Run processes the batch. Same as RunWithProgress with no callback.
func (o *Orchestrator) Run(records []*models.Record) (*Result, error) {
	return o.RunWithProgress(records, nil)
}

// RunWithProgress annotates all records on a worker pool, then performs
// the order-dependent dedup passes sequentially. Annotation parallelism is
// safe because each record writes only its own fields; results rejoin in
// input order before the near-dup index sees them, since its
// first-seen-wins policy is order-dependent.
func (o *Orchestrator) RunWithProgress(records []*models.Record, onProgress ProgressFunc) (*Result, error) {
	builder := minhash.NewBuilder(o.dedup.ShingleSize, o.dedup.MinhashPermutations)

	workers := o.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := pool.New().WithMaxGoroutines(workers)
	for _, rec := range records {
		p.Go(func() {
			annotate(rec, builder)
			if onProgress != nil {
				onProgress()
			}
		})
	}
	p.Wait()

	summary := models.Summary{
		Total:   len(records),
		Dropped: make(map[string]int),
		Stats:   batchStats(records),
	}

	gate := quality.New(o.quality)
	index := minhash.NewIndex(o.dedup.LSHThreshold, o.dedup.MinhashPermutations)
	seen := make(map[string]struct{})

	var kept []*models.Record
	for _, rec := range records {
		ok, reason := gate.Evaluate(rec)
		if !ok {
			summary.Dropped[string(reason)]++
			continue
		}

		// Exact dedup: identity is the hash of code_norm; first
		// appearance wins.
		if _, dup := seen[rec.ExactHash]; dup {
			continue
		}
		seen[rec.ExactHash] = struct{}{}
		summary.ExactUnique++

		if index.Admit(rec.MinhashSignature) {
			kept = append(kept, rec)
		}
	}
	summary.NearUnique = len(kept)

	return &Result{Kept: kept, Summary: summary}, nil
}

// annotate populates code_norm, exact_hash, minhash_signature and
// metadata for one record. Single-record failures degrade that record's
// annotations and never abort the batch.
func annotate(rec *models.Record, builder *minhash.Builder) {
	rec.CodeNorm = normalize.Normalize(rec.Code, rec.Language)
	rec.ExactHash = normalize.Hash(rec.CodeNorm)
	rec.MinhashSignature = builder.Build(rec.CodeNorm)

	analyzer := structure.New()
	defer analyzer.Close()

	meta := rec.EnsureMetadata()

	cyclomatic, err := analyzer.Complexity(rec.CodeNorm, rec.Language)
	if err != nil {
		cyclomatic = 1
	}
	nesting, err := analyzer.NestingDepth(rec.CodeNorm, rec.Language)
	if err != nil {
		nesting = 0
	}
	meta.Quality = &models.QualityMetadata{
		CyclomaticComplexity: cyclomatic,
		NestingDepth:         nesting,
	}

	meta.Documentation = scoreDocumentation(rec, analyzer)
}

// scoreDocumentation scores the record's docstring, synthesizing one when
// the function carries no documentation at all.
func scoreDocumentation(rec *models.Record, analyzer *structure.Analyzer) *models.DocumentationMetadata {
	name, params, parsedDoc, _ := analyzer.FunctionInfo(rec.CodeNorm, rec.Language)

	doc := rec.Docstring
	if doc == "" {
		doc = parsedDoc
	}

	synthetic := false
	if doc == "" {
		doc = docquality.SyntheticTemplate(name, params)
		synthetic = true
	}

	scored := docquality.New().Score(name, params, doc)
	return &models.DocumentationMetadata{
		Score:     scored.Score,
		Tier:      string(scored.Tier),
		Synthetic: synthetic,
	}
}

// batchStats aggregates annotation distributions over the full input set.
func batchStats(records []*models.Record) *models.BatchStats {
	if len(records) == 0 {
		return nil
	}

	cyclomatic := make([]float64, 0, len(records))
	docScores := make([]float64, 0, len(records))
	for _, rec := range records {
		if rec.Metadata == nil {
			continue
		}
		if q := rec.Metadata.Quality; q != nil {
			cyclomatic = append(cyclomatic, q.CyclomaticComplexity)
		}
		if d := rec.Metadata.Documentation; d != nil {
			docScores = append(docScores, d.Score)
		}
	}
	if len(cyclomatic) == 0 && len(docScores) == 0 {
		return nil
	}

	sort.Float64s(cyclomatic)
	sort.Float64s(docScores)

	stats := &models.BatchStats{}
	if len(cyclomatic) > 0 {
		stats.MeanCyclomatic = stat.Mean(cyclomatic, nil)
		stats.P95Cyclomatic = stat.Quantile(0.95, stat.Empirical, cyclomatic, nil)
	}
	if len(docScores) > 0 {
		stats.MeanDocScore = stat.Mean(docScores, nil)
		stats.P50DocScore = stat.Quantile(0.5, stat.Empirical, docScores, nil)
	}
	return stats
}
