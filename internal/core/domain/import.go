package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SRDRuleset selects which System Reference Document release applies.
type SRDRuleset string

const (
	// SRDLegacy is the 5.1 SRD, marked by the "srd" payload field.
	SRDLegacy SRDRuleset = "legacy"

	// SRDCurrent is the 5.2 SRD, marked by the "srd52" payload field.
	SRDCurrent SRDRuleset = "current"
)

// ImportScope describes what an import run should cover.
// Exactly one of the fields is meaningful:
// SRDOnly wins over Books; an empty Books slice with SRDOnly false
// means "import everything".
type ImportScope struct {
	// Books lists source codes to import. Empty means all discovered books.
	Books []string

	// SRDOnly imports only SRD-eligible content, reclassified
	// under the SRD pseudo-book.
	SRDOnly bool

	// Ruleset selects the SRD release used when SRDOnly is set.
	// Defaults to SRDLegacy.
	Ruleset SRDRuleset

	// Groups restricts discovered books by manifest group
	// (e.g. core, supplement). Empty means no group filtering.
	Groups []string
}

// maxFailureSamples bounds the failure reasons kept per kind.
// Aggregate reports must never become an unbounded log dump.
const maxFailureSamples = 5

// KindReport aggregates per-kind import outcomes.
type KindReport struct {
	// Succeeded is the count of entities persisted and indexed.
	Succeeded int

	// Failed is the count of entities that could not be processed.
	Failed int

	// FailureSamples holds up to maxFailureSamples failure reasons.
	FailureSamples []string
}

// RecordFailure increments the failure count, keeping a bounded sample.
func (r *KindReport) RecordFailure(reason string) {
	r.Failed++
	if len(r.FailureSamples) < maxFailureSamples {
		r.FailureSamples = append(r.FailureSamples, reason)
	}
}

// ImportReport is the aggregate outcome of one import run.
// A run with failures is a partial success, not an error.
type ImportReport struct {
	// ID uniquely identifies the run.
	ID string

	// Scope is the request that produced this report.
	Scope ImportScope

	// Books lists the source codes that contributed entities.
	Books []string

	// Kinds maps each entity kind to its outcome.
	Kinds map[Kind]*KindReport

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewImportReport creates an empty report for a scope.
func NewImportReport(id string, scope ImportScope) *ImportReport {
	return &ImportReport{
		ID:        id,
		Scope:     scope,
		Kinds:     make(map[Kind]*KindReport),
		StartedAt: time.Now().UTC(),
	}
}

// Kind returns the report bucket for a kind, creating it on first use.
func (r *ImportReport) Kind(k Kind) *KindReport {
	kr, ok := r.Kinds[k]
	if !ok {
		kr = &KindReport{}
		r.Kinds[k] = kr
	}
	return kr
}

// TotalSucceeded sums successful entities across kinds.
func (r *ImportReport) TotalSucceeded() int {
	total := 0
	for _, kr := range r.Kinds {
		total += kr.Succeeded
	}
	return total
}

// TotalFailed sums failed entities across kinds.
func (r *ImportReport) TotalFailed() int {
	total := 0
	for _, kr := range r.Kinds {
		total += kr.Failed
	}
	return total
}

// Summary renders a human-readable per-kind breakdown.
func (r *ImportReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported %d entities (%d failed) from %d book(s)\n",
		r.TotalSucceeded(), r.TotalFailed(), len(r.Books))

	kinds := make([]Kind, 0, len(r.Kinds))
	for k := range r.Kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if r.Kinds[kinds[i]].Succeeded != r.Kinds[kinds[j]].Succeeded {
			return r.Kinds[kinds[i]].Succeeded > r.Kinds[kinds[j]].Succeeded
		}
		return kinds[i] < kinds[j]
	})

	for _, k := range kinds {
		kr := r.Kinds[k]
		fmt.Fprintf(&b, "  %s: %d", k, kr.Succeeded)
		if kr.Failed > 0 {
			fmt.Fprintf(&b, " (%d failed)", kr.Failed)
		}
		b.WriteString("\n")
		for _, reason := range kr.FailureSamples {
			fmt.Fprintf(&b, "    - %s\n", reason)
		}
	}

	return b.String()
}
