// Package models defines the record and summary types shared across the
// curation engine.
package models

import "encoding/json"

// Record is one extracted function snippet flowing through the batch.
// Upstream extraction populates language, file_path, loc, code and the
// optional docstring/provenance fields; the engine populates code_norm,
// exact_hash, minhash_signature and metadata exactly once, before any
// dedup decision is made.
type Record struct {
	Language  string `json:"language"`
	FilePath  string `json:"file_path"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	LOC       int    `json:"loc"`
	Code      string `json:"code"`
	Docstring string `json:"docstring,omitempty"`

	CodeNorm         string   `json:"code_norm,omitempty"`
	ExactHash        string   `json:"exact_hash,omitempty"`
	MinhashSignature []uint64 `json:"minhash_signature,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`

	// Provenance is carried through untouched; its shape belongs to the
	// upstream extraction stage.
	Provenance json.RawMessage `json:"provenance,omitempty"`
}

// Metadata holds the per-record annotations computed by the engine.
type Metadata struct {
	Quality       *QualityMetadata       `json:"quality,omitempty"`
	Documentation *DocumentationMetadata `json:"documentation,omitempty"`
}

// QualityMetadata holds structural metrics.
type QualityMetadata struct {
	CyclomaticComplexity float64 `json:"cyclomatic_complexity"`
	NestingDepth         int     `json:"nesting_depth"`
}

// DocumentationMetadata holds documentation scoring results.
type DocumentationMetadata struct {
	Score     float64 `json:"score"`
	Tier      string  `json:"tier"`
	Synthetic bool    `json:"synthetic"`
}

// EnsureMetadata returns the record's metadata, allocating it on first use.
func (r *Record) EnsureMetadata() *Metadata {
	if r.Metadata == nil {
		r.Metadata = &Metadata{}
	}
	return r.Metadata
}

// Summary reports batch-level counts: input records, records surviving
// exact dedup, and records surviving near-dup clustering.
type Summary struct {
	Total       int `json:"total"`
	ExactUnique int `json:"exact_unique"`
	NearUnique  int `json:"near_unique"`

	// Skipped counts input lines that failed to decode; they are not
	// part of Total.
	Skipped int `json:"skipped,omitempty"`

	// Dropped tallies quality-gate drops by check name.
	Dropped map[string]int `json:"dropped,omitempty"`

	Stats *BatchStats `json:"stats,omitempty"`
}

// BatchStats aggregates annotation distributions over the input batch.
type BatchStats struct {
	MeanCyclomatic float64 `json:"mean_cyclomatic"`
	P95Cyclomatic  float64 `json:"p95_cyclomatic"`
	MeanDocScore   float64 `json:"mean_doc_score"`
	P50DocScore    float64 `json:"p50_doc_score"`
}
