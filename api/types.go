// Package api defines the wire-level types of the Loom pattern library:
// the three-level hierarchy (domain → category → pattern) and the
// submission records that feed the review workflow.
package api

import "time"

// Domain is a top-level knowledge area, identified by a globally unique slug.
type Domain struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Categories owned by this domain, ordered by slug.
	Categories []Category `json:"categories,omitempty"`
}

// Category is a subdivision of a domain. Its slug is unique within the
// owning domain only — two domains may each have a "testing" category.
type Category struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Patterns owned by this category, in creation order.
	Patterns []Pattern `json:"patterns,omitempty"`
}

// Pattern is a reusable template stored under a category. Patterns have no
// natural unique name within their parent, so they are identified by the
// integer ID the store assigns at creation.
type Pattern struct {
	ID          int64  `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Intention   string `json:"intention,omitempty"`
	Template    string `json:"template"`
}

// SubmissionKind distinguishes proposals for new patterns from edits to
// existing ones.
type SubmissionKind string

const (
	SubmissionNew    SubmissionKind = "new"
	SubmissionModify SubmissionKind = "modify"
)

// SubmissionStatus is the review state of a submission. A submission leaves
// "pending" exactly once, for one of the two terminal states.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusAccepted SubmissionStatus = "accepted"
	StatusRejected SubmissionStatus = "rejected"
)

// Submission is a contributor proposal awaiting review. Submissions are
// never deleted — they are the audit trail of the library.
//
// TargetPatternID is a weak reference: deleting the referenced pattern does
// not touch the submission, but accepting it afterwards fails.
type Submission struct {
	ID              int64            `json:"id"`
	Kind            SubmissionKind   `json:"kind"`
	Status          SubmissionStatus `json:"status"`
	TargetPatternID *int64           `json:"target_pattern_id,omitempty"`
	DomainSlug      string           `json:"domain_slug,omitempty"`
	CategorySlug    string           `json:"category_slug,omitempty"`
	Label           string           `json:"label"`
	Description     string           `json:"description,omitempty"`
	Intention       string           `json:"intention,omitempty"`
	Template        string           `json:"template"`
	Source          string           `json:"source,omitempty"`
	SubmittedAt     time.Time        `json:"submitted_at"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
}

// ImpactNode describes a hierarchy node that accepting a submission would
// create, with the display name derived from its slug.
type ImpactNode struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// SubmissionImpact previews the side effects of accepting a "new"
// submission. Both fields are nil when acceptance would create nothing —
// because the targets already exist, or the submission is not a pending
// "new" proposal.
type SubmissionImpact struct {
	NewDomain   *ImpactNode `json:"new_domain,omitempty"`
	NewCategory *ImpactNode `json:"new_category,omitempty"`
}
