package codec

import "github.com/amaumene/gistarr/internal/models"

// RewriteReason names why a decoded document should be written back in
// canonical form on the next push.
type RewriteReason string

const (
	// ReasonColumnOrder means the source header deviated from the
	// canonical column set or order.
	ReasonColumnOrder RewriteReason = "column-order"
	// ReasonLegacyMigration means a prior schema revision was detected
	// and migrated.
	ReasonLegacyMigration RewriteReason = "legacy-migration"
	// ReasonSanitized means sanitization altered at least one field.
	ReasonSanitized RewriteReason = "sanitized"
	// ReasonUnknownSchema means the header lacked the required column
	// entirely and every row was skipped.
	ReasonUnknownSchema RewriteReason = "unknown-schema"
)

// Result is the outcome of decoding a remote document. The rewrite
// reasons are an explicit output so the decision to self-heal the
// document is testable rather than hidden state.
type Result struct {
	Items []*models.Item
	// NeedsBackfill lists decoded items missing denormalized
	// descriptive fields, to be filled from the metadata source.
	NeedsBackfill []*models.Item
	Reasons       map[RewriteReason]bool
}

// NeedsRewrite reports whether the document should be re-emitted
func (r *Result) NeedsRewrite() bool {
	return len(r.Reasons) > 0
}

func (r *Result) addReason(reason RewriteReason) {
	if r.Reasons == nil {
		r.Reasons = make(map[RewriteReason]bool)
	}
	r.Reasons[reason] = true
}
