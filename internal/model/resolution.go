package model

// MatchKind classifies how a description matched a concept phrase.
type MatchKind string

// Match kind constants, from strongest to weakest.
const (
	MatchExact    MatchKind = "exact"
	MatchComplete MatchKind = "complete"
	MatchPartial  MatchKind = "partial"
	MatchRejected MatchKind = "rejected"
)

// RejectReason says why a line item could not be resolved.
type RejectReason string

// Reject reason constants.
const (
	// RejectNotFound: no concept and no catalog entry matches the description.
	RejectNotFound RejectReason = "not_found"
	// RejectSupplierIneligible: a match exists but supplier policy forbids it.
	RejectSupplierIneligible RejectReason = "supplier_ineligible"
)

// ResolvedItem is a line item mapped to a canonical catalog record.
// Key, description and price come from the catalog; quantity, unit price
// and amount pass through from the input unchanged.
type ResolvedItem struct {
	Item               LineItem  `json:"item"`
	CatalogKey         string    `json:"catalog_key"`
	CatalogDescription string    `json:"catalog_description"`
	UnitPriceLocal     float64   `json:"unit_price_local"`
	Kind               MatchKind `json:"kind"`
}

// RejectionRecord is produced when no eligible catalog entry exists for a
// line item. Detail carries the specific rule or lookup that failed.
type RejectionRecord struct {
	Item   LineItem     `json:"item"`
	Reason RejectReason `json:"reason"`
	Detail string       `json:"detail"`
}

// Resolution aggregates the per-item outcomes of one feed run. Every input
// line item appears in exactly one of the two slices, in feed order.
type Resolution struct {
	Resolved []ResolvedItem    `json:"resolved"`
	Rejected []RejectionRecord `json:"rejected"`
}

// Empty reports whether no line item resolved. A quotation may only be
// assembled from a non-empty resolution.
func (r *Resolution) Empty() bool {
	return len(r.Resolved) == 0
}
