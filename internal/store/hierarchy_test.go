package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// seedLibrary builds a small two-domain library used across tests:
//
//	eng/features    → "Feature request" pattern
//	eng/bugs        → "Bug report" pattern
//	design/features → "Mood board" pattern (same category slug, other domain)
func seedLibrary(t *testing.T, s *Store) (featureID, bugID, moodID int64) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.AddDomain(ctx, "eng", "Engineering", "Software work"))
	require.NoError(t, s.AddDomain(ctx, "design", "Design", ""))
	require.NoError(t, s.AddCategory(ctx, "eng", "features", "Features", ""))
	require.NoError(t, s.AddCategory(ctx, "eng", "bugs", "Bugs", ""))
	require.NoError(t, s.AddCategory(ctx, "design", "features", "Features", ""))

	var err error
	featureID, err = s.AddPattern(ctx, "eng", "features", PatternInput{
		Label:     "Feature request",
		Intention: "Propose new functionality",
		Template:  "As a user I want {{thing}}",
	})
	require.NoError(t, err)
	bugID, err = s.AddPattern(ctx, "eng", "bugs", PatternInput{
		Label:    "Bug report",
		Template: "Steps to reproduce: {{steps}}",
	})
	require.NoError(t, err)
	moodID, err = s.AddPattern(ctx, "design", "features", PatternInput{
		Label: "Mood board",
	})
	require.NoError(t, err)
	return featureID, bugID, moodID
}

func TestAddDomainDuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddDomain(ctx, "eng", "Engineering", ""))
	err := s.AddDomain(ctx, "eng", "Engineering again", "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAddCategoryScopedUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddDomain(ctx, "eng", "Engineering", ""))
	require.NoError(t, s.AddDomain(ctx, "design", "Design", ""))
	require.NoError(t, s.AddCategory(ctx, "eng", "features", "Features", ""))

	// Same slug under a different domain is allowed.
	assert.NoError(t, s.AddCategory(ctx, "design", "features", "Features", ""))

	// Same slug under the same domain is not.
	assert.ErrorIs(t, s.AddCategory(ctx, "eng", "features", "More features", ""), ErrConflict)

	// Unknown parent.
	assert.ErrorIs(t, s.AddCategory(ctx, "nope", "features", "Features", ""), ErrNotFound)
}

func TestAddPatternUnknownCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddDomain(ctx, "eng", "Engineering", ""))
	_, err := s.AddPattern(ctx, "eng", "missing", PatternInput{Label: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDomainNesting(t *testing.T) {
	s := newTestStore(t)
	featureID, _, _ := seedLibrary(t, s)

	d, err := s.GetDomain(context.Background(), "eng")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Engineering", d.Name)
	require.Len(t, d.Categories, 2)

	// Categories ordered by slug: bugs before features.
	assert.Equal(t, "bugs", d.Categories[0].Slug)
	assert.Equal(t, "features", d.Categories[1].Slug)
	require.Len(t, d.Categories[1].Patterns, 1)
	assert.Equal(t, featureID, d.Categories[1].Patterns[0].ID)
	assert.Equal(t, "Feature request", d.Categories[1].Patterns[0].Label)
}

func TestGetDomainUnknownReturnsNil(t *testing.T) {
	s := newTestStore(t)

	d, err := s.GetDomain(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestGetDomainsOrdered(t *testing.T) {
	s := newTestStore(t)
	seedLibrary(t, s)

	domains, err := s.GetDomains(context.Background())
	require.NoError(t, err)
	require.Len(t, domains, 2)
	assert.Equal(t, "design", domains[0].Slug)
	assert.Equal(t, "eng", domains[1].Slug)
}

func TestGetCategoriesUnknownDomainIsEmpty(t *testing.T) {
	s := newTestStore(t)
	seedLibrary(t, s)

	cats, err := s.GetCategories(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestGetPatternsUnion(t *testing.T) {
	s := newTestStore(t)
	featureID, bugID, _ := seedLibrary(t, s)
	ctx := context.Background()

	// Unknown slugs in the request are silently dropped; results are
	// grouped by category slug (bugs before features), then pattern id.
	patterns, err := s.GetPatterns(ctx, "eng", []string{"features", "bugs", "nonexistent"})
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, bugID, patterns[0].ID)
	assert.Equal(t, featureID, patterns[1].ID)

	// Category slugs never cross domains: design/features is not reachable
	// through eng.
	patterns, err = s.GetPatterns(ctx, "design", []string{"features", "bugs"})
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "Mood board", patterns[0].Label)

	// Empty request, empty result.
	patterns, err = s.GetPatterns(ctx, "eng", nil)
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestUpdateDomainPartial(t *testing.T) {
	s := newTestStore(t)
	seedLibrary(t, s)
	ctx := context.Background()

	require.NoError(t, s.UpdateDomain(ctx, "eng", DomainUpdate{Name: strPtr("Platform Engineering")}))

	d, err := s.GetDomain(ctx, "eng")
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineering", d.Name)
	assert.Equal(t, "Software work", d.Description) // untouched

	// No fields set: existence is still checked, row is untouched.
	assert.NoError(t, s.UpdateDomain(ctx, "eng", DomainUpdate{}))
	assert.ErrorIs(t, s.UpdateDomain(ctx, "nope", DomainUpdate{}), ErrNotFound)
}

func TestUpdatePattern(t *testing.T) {
	s := newTestStore(t)
	featureID, _, _ := seedLibrary(t, s)
	ctx := context.Background()

	require.NoError(t, s.UpdatePattern(ctx, featureID, PatternUpdate{
		Label:     strPtr("Feature proposal"),
		Intention: strPtr("Pitch new functionality"),
	}))

	p, err := s.GetPattern(ctx, featureID)
	require.NoError(t, err)
	assert.Equal(t, "Feature proposal", p.Label)
	assert.Equal(t, "Pitch new functionality", p.Intention)
	assert.Equal(t, "As a user I want {{thing}}", p.Template) // untouched

	assert.ErrorIs(t, s.UpdatePattern(ctx, 9999, PatternUpdate{Label: strPtr("x")}), ErrNotFound)
}

func TestDeleteDomainCascades(t *testing.T) {
	s := newTestStore(t)
	featureID, bugID, moodID := seedLibrary(t, s)
	ctx := context.Background()

	require.NoError(t, s.DeleteDomain(ctx, "eng"))

	d, err := s.GetDomain(ctx, "eng")
	require.NoError(t, err)
	assert.Nil(t, d)

	for _, id := range []int64{featureID, bugID} {
		p, err := s.GetPattern(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, p)
	}

	// The other domain is untouched, even though it shares a category slug.
	p, err := s.GetPattern(ctx, moodID)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.ErrorIs(t, s.DeleteDomain(ctx, "eng"), ErrNotFound)
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := newTestStore(t)
	featureID, bugID, _ := seedLibrary(t, s)
	ctx := context.Background()

	require.NoError(t, s.DeleteCategory(ctx, "eng", "features"))

	p, err := s.GetPattern(ctx, featureID)
	require.NoError(t, err)
	assert.Nil(t, p)

	// Sibling category survives.
	p, err = s.GetPattern(ctx, bugID)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.ErrorIs(t, s.DeleteCategory(ctx, "eng", "features"), ErrNotFound)
}

func TestDeletePattern(t *testing.T) {
	s := newTestStore(t)
	featureID, _, _ := seedLibrary(t, s)
	ctx := context.Background()

	require.NoError(t, s.DeletePattern(ctx, featureID))
	assert.ErrorIs(t, s.DeletePattern(ctx, featureID), ErrNotFound)

	// The category itself survives, just empty.
	cats, err := s.GetCategories(ctx, "eng")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Empty(t, cats[1].Patterns)
}
