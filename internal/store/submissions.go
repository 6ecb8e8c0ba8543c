package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agentic-research/loom/api"
)

// SubmissionInput is a contributor proposal as it arrives at the store
// boundary, already unmarshalled into typed fields. Validation happens here,
// before any storage access.
type SubmissionInput struct {
	Kind            api.SubmissionKind
	TargetPatternID *int64
	DomainSlug      string
	CategorySlug    string
	Label           string
	Description     string
	Intention       string
	Template        string
	Source          string
}

const submissionColumns = `id, kind, status, target_pattern_id, domain_slug, category_slug,
	label, description, intention, template, source, submitted_at, reviewed_at`

// AddSubmission records a proposal with status "pending" and returns the
// assigned id.
//
// For "new" submissions the named domain and category need not exist yet —
// existence is only required (and guaranteed, via auto-create) at acceptance
// time. This lets contributors propose patterns for umbrella nodes nobody
// has created yet. For "modify" submissions a target pattern id is required.
func (s *Store) AddSubmission(ctx context.Context, in SubmissionInput) (int64, error) {
	switch in.Kind {
	case api.SubmissionNew:
		if in.DomainSlug == "" || in.CategorySlug == "" {
			return 0, fmt.Errorf("new submission requires domain and category slugs: %w", ErrInvalid)
		}
	case api.SubmissionModify:
		if in.TargetPatternID == nil {
			return 0, fmt.Errorf("modify submission requires a target pattern id: %w", ErrInvalid)
		}
	default:
		return 0, fmt.Errorf("kind %q: %w", in.Kind, ErrInvalid)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (kind, status, target_pattern_id, domain_slug, category_slug,
			label, description, intention, template, source, submitted_at)
		VALUES (?, 'pending', ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Kind, in.TargetPatternID, nullableString(in.DomainSlug), nullableString(in.CategorySlug),
		in.Label, in.Description, in.Intention, in.Template, nullableString(in.Source),
		time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	return res.LastInsertId()
}

// nullableString converts an empty string to nil so optional columns stay
// NULL instead of storing "".
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// GetSubmission returns one submission, or nil (without error) when the id
// is unknown. The read succeeds even when the submission's target pattern
// has since been deleted — the weak reference is returned as stored.
func (s *Store) GetSubmission(ctx context.Context, id int64) (*api.Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubmissions lists submissions, most recent first. An empty status
// returns all; otherwise only those with the given status.
func (s *Store) GetSubmissions(ctx context.Context, status api.SubmissionStatus) ([]api.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY submitted_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var out []api.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sub)
	}
	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(sc scanner) (*api.Submission, error) {
	var sub api.Submission
	var target sql.NullInt64
	var domainSlug, categorySlug, source sql.NullString
	var reviewedAt sql.NullTime
	err := sc.Scan(&sub.ID, &sub.Kind, &sub.Status, &target, &domainSlug, &categorySlug,
		&sub.Label, &sub.Description, &sub.Intention, &sub.Template, &source,
		&sub.SubmittedAt, &reviewedAt)
	if err != nil {
		return nil, err
	}
	if target.Valid {
		sub.TargetPatternID = &target.Int64
	}
	sub.DomainSlug = domainSlug.String
	sub.CategorySlug = categorySlug.String
	sub.Source = source.String
	if reviewedAt.Valid {
		t := reviewedAt.Time
		sub.ReviewedAt = &t
	}
	return &sub, nil
}

// ---------------------------------------------------------------------------
// Impact preview
// ---------------------------------------------------------------------------

// SubmissionImpact reports which hierarchy nodes accepting the submission
// would create, with names derived via SlugToName — the same derivation the
// acceptance path uses, so the preview always matches what acceptance does.
// Both fields are nil unless the submission is a pending "new" proposal
// whose targets are missing. Returns ErrNotFound for an unknown id.
func (s *Store) SubmissionImpact(ctx context.Context, id int64) (*api.SubmissionImpact, error) {
	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("submission %d: %w", id, ErrNotFound)
	}

	impact := &api.SubmissionImpact{}
	if sub.Kind != api.SubmissionNew || sub.Status != api.StatusPending {
		return impact, nil
	}

	var domainExists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM domains WHERE slug = ?)`, sub.DomainSlug).Scan(&domainExists); err != nil {
		return nil, err
	}
	if !domainExists {
		impact.NewDomain = &api.ImpactNode{Slug: sub.DomainSlug, Name: SlugToName(sub.DomainSlug)}
	}

	var categoryExists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE domain_slug = ? AND slug = ?)`,
		sub.DomainSlug, sub.CategorySlug).Scan(&categoryExists); err != nil {
		return nil, err
	}
	if !categoryExists {
		impact.NewCategory = &api.ImpactNode{Slug: sub.CategorySlug, Name: SlugToName(sub.CategorySlug)}
	}
	return impact, nil
}

// ---------------------------------------------------------------------------
// Review
// ---------------------------------------------------------------------------

// ReviewSubmission finalizes a pending submission. A submission is reviewed
// exactly once: a second review of any kind fails with ErrConflict.
//
// Rejection just records the decision. Acceptance applies the proposal to
// the hierarchy inside the same transaction that flips the status:
//
//   - kind "new": the target domain and category are created if missing
//     (names derived from their slugs), then the pattern is inserted. The
//     three steps succeed together or the whole acceptance fails and the
//     submission stays pending.
//   - kind "modify": the target pattern is updated with the submission's
//     content. If the pattern has been deleted since the proposal was filed,
//     the acceptance fails with ErrNotFound and the submission stays
//     pending.
//
// Returns the finalized submission on success.
func (s *Store) ReviewSubmission(ctx context.Context, id int64, decision api.SubmissionStatus) (*api.Submission, error) {
	if decision != api.StatusAccepted && decision != api.StatusRejected {
		return nil, fmt.Errorf("decision %q: %w", decision, ErrInvalid)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
		sub, err := scanSubmission(row)
		if err == sql.ErrNoRows {
			return fmt.Errorf("submission %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if sub.Status != api.StatusPending {
			return fmt.Errorf("submission %d already %s: %w", id, sub.Status, ErrConflict)
		}

		if decision == api.StatusAccepted {
			if err := applySubmission(ctx, tx, sub); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE submissions SET status = ?, reviewed_at = ? WHERE id = ?`,
			decision, time.Now().UTC(), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetSubmission(ctx, id)
}

// applySubmission performs the hierarchy side effects of an acceptance
// inside the review transaction.
func applySubmission(ctx context.Context, tx *sql.Tx, sub *api.Submission) error {
	switch sub.Kind {
	case api.SubmissionNew:
		var domainExists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM domains WHERE slug = ?)`, sub.DomainSlug).Scan(&domainExists); err != nil {
			return err
		}
		if !domainExists {
			if err := insertDomain(ctx, tx, sub.DomainSlug, SlugToName(sub.DomainSlug), ""); err != nil {
				return err
			}
		}

		var categoryExists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM categories WHERE domain_slug = ? AND slug = ?)`,
			sub.DomainSlug, sub.CategorySlug).Scan(&categoryExists); err != nil {
			return err
		}
		if !categoryExists {
			if err := insertCategory(ctx, tx, sub.DomainSlug, sub.CategorySlug, SlugToName(sub.CategorySlug), ""); err != nil {
				return err
			}
		}

		_, err := insertPattern(ctx, tx, sub.DomainSlug, sub.CategorySlug, PatternInput{
			Label:       sub.Label,
			Description: sub.Description,
			Intention:   sub.Intention,
			Template:    sub.Template,
		})
		return err

	case api.SubmissionModify:
		return updatePattern(ctx, tx, *sub.TargetPatternID, PatternUpdate{
			Label:       &sub.Label,
			Description: &sub.Description,
			Intention:   &sub.Intention,
			Template:    &sub.Template,
		})

	default:
		return fmt.Errorf("kind %q: %w", sub.Kind, ErrInvalid)
	}
}
