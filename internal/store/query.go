package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/agentic-research/loom/api"
)

// The enumeration surface is deliberately forgiving: callers exploring the
// library often probe names they are not sure exist, so unknown parents
// yield empty results rather than errors. Point lookups backing
// administrative mutations stay strict (ErrNotFound) — a missing target
// there is a genuine caller error.

// GetDomains returns every domain with its full nested category/pattern
// tree. Domains and categories are ordered by slug, patterns by id
// (creation order).
func (s *Store) GetDomains(ctx context.Context) ([]api.Domain, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slug, name, description FROM domains ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var domains []api.Domain
	for rows.Next() {
		var d api.Domain
		if err := rows.Scan(&d.Slug, &d.Name, &d.Description); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range domains {
		cats, err := s.GetCategories(ctx, domains[i].Slug)
		if err != nil {
			return nil, err
		}
		domains[i].Categories = cats
	}
	return domains, nil
}

// GetDomain returns one populated domain, or nil (without error) when the
// slug is unknown.
func (s *Store) GetDomain(ctx context.Context, slug string) (*api.Domain, error) {
	var d api.Domain
	err := s.db.QueryRowContext(ctx,
		`SELECT slug, name, description FROM domains WHERE slug = ?`, slug).
		Scan(&d.Slug, &d.Name, &d.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cats, err := s.GetCategories(ctx, slug)
	if err != nil {
		return nil, err
	}
	d.Categories = cats
	return &d, nil
}

// GetCategories returns the categories of a domain, each populated with its
// patterns, ordered by category slug. An unknown domain yields an empty
// slice, not an error.
func (s *Store) GetCategories(ctx context.Context, domainSlug string) ([]api.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, name, description FROM categories WHERE domain_slug = ? ORDER BY slug`,
		domainSlug)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var cats []api.Category
	var catIDs []int64
	for rows.Next() {
		var id int64
		var c api.Category
		if err := rows.Scan(&id, &c.Slug, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		cats = append(cats, c)
		catIDs = append(catIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, catID := range catIDs {
		patterns, err := s.patternsByCategory(ctx, catID)
		if err != nil {
			return nil, err
		}
		cats[i].Patterns = patterns
	}
	return cats, nil
}

func (s *Store) patternsByCategory(ctx context.Context, categoryID int64) ([]api.Pattern, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, description, intention, template FROM patterns WHERE category_id = ? ORDER BY id`,
		categoryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var out []api.Pattern
	for rows.Next() {
		var p api.Pattern
		if err := rows.Scan(&p.ID, &p.Label, &p.Description, &p.Intention, &p.Template); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPatterns collects the union of patterns across the named categories of
// one domain, ordered by category slug then pattern id. Slugs that do not
// exist under the domain (or an unknown domain entirely) are silently
// excluded — callers may pass a superset of candidate names. An empty slug
// set yields an empty result.
func (s *Store) GetPatterns(ctx context.Context, domainSlug string, categorySlugs []string) ([]api.Pattern, error) {
	if len(categorySlugs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(categorySlugs)-1) + "?"
	args := make([]any, 0, len(categorySlugs)+1)
	args = append(args, domainSlug)
	for _, slug := range categorySlugs {
		args = append(args, slug)
	}

	query := `SELECT p.id, p.label, p.description, p.intention, p.template
		FROM patterns p
		JOIN categories c ON c.id = p.category_id
		WHERE c.domain_slug = ? AND c.slug IN (` + placeholders + `)
		ORDER BY c.slug, p.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var out []api.Pattern
	for rows.Next() {
		var p api.Pattern
		if err := rows.Scan(&p.ID, &p.Label, &p.Description, &p.Intention, &p.Template); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPattern returns a single pattern by id, or nil when it does not exist.
func (s *Store) GetPattern(ctx context.Context, id int64) (*api.Pattern, error) {
	var p api.Pattern
	err := s.db.QueryRowContext(ctx,
		`SELECT id, label, description, intention, template FROM patterns WHERE id = ?`, id).
		Scan(&p.ID, &p.Label, &p.Description, &p.Intention, &p.Template)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
