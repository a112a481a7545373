package pipeline

import "github.com/uvalib/dspace-util-sub000/internal/batch"

// Reason classifies how a run ended. Everything but ReasonDone is a
// clean informational stop; fatal errors travel as ordinary errors.
type Reason string

const (
	// ReasonDone: the phase's entities were materialized (or would have
	// been, under dry-run).
	ReasonDone Reason = "done"
	// ReasonNothingPending: the requested phase has no work.
	ReasonNothingPending Reason = "nothing-pending"
	// ReasonOverLimit: phase ALL would exceed the batch cap.
	ReasonOverLimit Reason = "over-limit"
	// ReasonBlocked: an earlier phase still has unconfirmed entities.
	ReasonBlocked Reason = "blocked"
	// ReasonNoCollection: a target collection is missing at the
	// destination.
	ReasonNoCollection Reason = "collection-missing"
)

// Result is what a run reports back to the command layer, which alone
// decides exit behavior.
type Result struct {
	Phase   Phase
	Reason  Reason
	Message string
	DryRun  bool

	Records             int
	PendingOrgUnits     int
	PendingPersons      int
	PendingPublications int

	// Written counts materialized item directories this run.
	Written  int
	Archives []batch.Result

	// PendingDump holds the blocked kind's full pending table
	// (key<TAB>display), for operator inspection.
	PendingDump []string

	// Problems collects non-fatal data-quality findings.
	Problems []string
}

// OK reports whether the run completed its phase.
func (r *Result) OK() bool { return r.Reason == ReasonDone }
