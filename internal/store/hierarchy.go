package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PatternInput carries the content fields of a pattern. Used by AddPattern
// and by submission acceptance.
type PatternInput struct {
	Label       string
	Description string
	Intention   string
	Template    string
}

// DomainUpdate is a partial update: nil fields are left untouched.
type DomainUpdate struct {
	Name        *string
	Description *string
}

// CategoryUpdate is a partial update: nil fields are left untouched.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// PatternUpdate is a partial update: nil fields are left untouched.
type PatternUpdate struct {
	Label       *string
	Description *string
	Intention   *string
	Template    *string
}

// AddDomain creates a top-level domain. Returns ErrConflict if the slug is
// already taken — domain slugs are unique across the whole store.
func (s *Store) AddDomain(ctx context.Context, slug, name, description string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertDomain(ctx, tx, slug, name, description)
	})
}

func insertDomain(ctx context.Context, tx *sql.Tx, slug, name, description string) error {
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM domains WHERE slug = ?)`, slug).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("domain %q: %w", slug, ErrConflict)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO domains (slug, name, description) VALUES (?, ?, ?)`,
		slug, name, description)
	return err
}

// AddCategory creates a category under an existing domain. Returns
// ErrNotFound if the domain is unknown and ErrConflict if the slug is
// already used within that domain. The same slug under a different domain
// is fine — uniqueness is scoped to the parent.
func (s *Store) AddCategory(ctx context.Context, domainSlug, slug, name, description string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertCategory(ctx, tx, domainSlug, slug, name, description)
	})
}

func insertCategory(ctx context.Context, tx *sql.Tx, domainSlug, slug, name, description string) error {
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM domains WHERE slug = ?)`, domainSlug).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("domain %q: %w", domainSlug, ErrNotFound)
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE domain_slug = ? AND slug = ?)`,
		domainSlug, slug).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("category %q in domain %q: %w", slug, domainSlug, ErrConflict)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO categories (domain_slug, slug, name, description) VALUES (?, ?, ?, ?)`,
		domainSlug, slug, name, description)
	return err
}

// AddPattern creates a pattern under the named category and returns the
// assigned id. Returns ErrNotFound if (domainSlug, categorySlug) does not
// resolve to an existing category.
func (s *Store) AddPattern(ctx context.Context, domainSlug, categorySlug string, in PatternInput) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = insertPattern(ctx, tx, domainSlug, categorySlug, in)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func insertPattern(ctx context.Context, tx *sql.Tx, domainSlug, categorySlug string, in PatternInput) (int64, error) {
	catID, err := resolveCategory(ctx, tx, domainSlug, categorySlug)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO patterns (category_id, label, description, intention, template) VALUES (?, ?, ?, ?, ?)`,
		catID, in.Label, in.Description, in.Intention, in.Template)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func resolveCategory(ctx context.Context, tx *sql.Tx, domainSlug, categorySlug string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE domain_slug = ? AND slug = ?`,
		domainSlug, categorySlug).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("category %q in domain %q: %w", categorySlug, domainSlug, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Partial updates
// ---------------------------------------------------------------------------

// UpdateDomain applies the non-nil fields of upd to an existing domain.
// An update with no fields set succeeds without touching the row.
func (s *Store) UpdateDomain(ctx context.Context, slug string, upd DomainUpdate) error {
	var sets []string
	var args []any
	if upd.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *upd.Description)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM domains WHERE slug = ?)`, slug).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("domain %q: %w", slug, ErrNotFound)
		}
		if len(sets) == 0 {
			return nil
		}
		args = append(args, slug)
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE domains SET %s WHERE slug = ?", strings.Join(sets, ", ")), args...)
		return err
	})
}

// UpdateCategory applies the non-nil fields of upd to a category addressed
// by (domainSlug, slug).
func (s *Store) UpdateCategory(ctx context.Context, domainSlug, slug string, upd CategoryUpdate) error {
	var sets []string
	var args []any
	if upd.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *upd.Description)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := resolveCategory(ctx, tx, domainSlug, slug); err != nil {
			return err
		}
		if len(sets) == 0 {
			return nil
		}
		args = append(args, domainSlug, slug)
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE categories SET %s WHERE domain_slug = ? AND slug = ?", strings.Join(sets, ", ")), args...)
		return err
	})
}

// UpdatePattern applies the non-nil fields of upd to the pattern with the
// given id.
func (s *Store) UpdatePattern(ctx context.Context, id int64, upd PatternUpdate) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return updatePattern(ctx, tx, id, upd)
	})
}

func updatePattern(ctx context.Context, tx *sql.Tx, id int64, upd PatternUpdate) error {
	var sets []string
	var args []any
	if upd.Label != nil {
		sets, args = append(sets, "label = ?"), append(args, *upd.Label)
	}
	if upd.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *upd.Description)
	}
	if upd.Intention != nil {
		sets, args = append(sets, "intention = ?"), append(args, *upd.Intention)
	}
	if upd.Template != nil {
		sets, args = append(sets, "template = ?"), append(args, *upd.Template)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM patterns WHERE id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("pattern %d: %w", id, ErrNotFound)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE patterns SET %s WHERE id = ?", strings.Join(sets, ", ")), args...)
	return err
}

// ---------------------------------------------------------------------------
// Deletes
// ---------------------------------------------------------------------------

// DeleteDomain removes a domain and, via foreign-key cascade, every
// category and pattern it owns. The cascade is atomic — there is no window
// where a category survives its domain.
func (s *Store) DeleteDomain(ctx context.Context, slug string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM domains WHERE slug = ?`, slug)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("domain %q: %w", slug, ErrNotFound)
		}
		return nil
	})
}

// DeleteCategory removes a category and all its patterns.
func (s *Store) DeleteCategory(ctx context.Context, domainSlug, slug string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM categories WHERE domain_slug = ? AND slug = ?`, domainSlug, slug)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("category %q in domain %q: %w", slug, domainSlug, ErrNotFound)
		}
		return nil
	})
}

// DeletePattern removes a single pattern. Submissions that reference it are
// left alone — their target id simply dangles from here on.
func (s *Store) DeletePattern(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM patterns WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("pattern %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
