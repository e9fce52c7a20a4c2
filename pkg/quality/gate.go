// Package quality applies configurable keep/drop thresholds to annotated
// records.
package quality

import (
	"github.com/panbanda/winnow/pkg/config"
	"github.com/panbanda/winnow/pkg/models"
)

// Reason names the check that dropped a record. Checks are independent
// ORed conditions: the first match labels the drop, but the keep/drop
// outcome is order-independent.
type Reason string

const (
	ReasonKept          Reason = ""
	ReasonMinLOC        Reason = "min_loc"
	ReasonMaxLOC        Reason = "max_loc"
	ReasonMaxCyclomatic Reason = "max_cyclomatic"
	ReasonMaxNesting    Reason = "max_nesting"
	ReasonTrivial       Reason = "trivial"
	ReasonSyntheticDocs Reason = "synthetic_docs"
)

// Gate decides record retention from its annotations and a QualityConfig.
type Gate struct {
	cfg config.QualityConfig
}

// New creates a gate. The config is immutable for the gate's lifetime.
func New(cfg config.QualityConfig) *Gate {
	return &Gate{cfg: cfg}
}

// Evaluate returns whether the record is kept and, when dropped, the name
// of the winning check. A disabled gate keeps everything; deduplication
// still runs on records it passes.
func (g *Gate) Evaluate(rec *models.Record) (bool, Reason) {
	if !g.cfg.Enabled {
		return true, ReasonKept
	}

	var (
		cyclomatic float64 = 1
		nesting    int
		synthetic  bool
	)
	if rec.Metadata != nil {
		if q := rec.Metadata.Quality; q != nil {
			cyclomatic = q.CyclomaticComplexity
			nesting = q.NestingDepth
		}
		if d := rec.Metadata.Documentation; d != nil {
			synthetic = d.Synthetic
		}
	}

	switch {
	case rec.LOC < g.cfg.MinLOC:
		return false, ReasonMinLOC
	case rec.LOC > g.cfg.MaxLOC:
		return false, ReasonMaxLOC
	case cyclomatic > g.cfg.MaxCyclomatic:
		return false, ReasonMaxCyclomatic
	case nesting > g.cfg.MaxNesting:
		return false, ReasonMaxNesting
	case g.cfg.DropTrivial && rec.LOC <= g.cfg.MinLOC && cyclomatic <= 1.0:
		return false, ReasonTrivial
	case !g.cfg.AllowSyntheticDoc && synthetic:
		return false, ReasonSyntheticDocs
	}

	return true, ReasonKept
}
