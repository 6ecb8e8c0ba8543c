// Package toolserver exposes the pattern library over MCP stdio. Handlers
// are deliberately thin: each one unmarshals its arguments, makes exactly one
// store call, and serializes the result. No business logic lives here.
package toolserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/loom/internal/store"
)

type handlers struct {
	store *store.Store
}

// New builds the MCP server with every library tool registered.
func New(st *store.Store, name, version string) *server.MCPServer {
	h := &handlers{store: st}

	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	// Hierarchy reads.
	s.AddTool(mcp.NewTool("list_domains",
		mcp.WithDescription("List every domain with its full category and pattern tree."),
	), h.listDomains)

	s.AddTool(mcp.NewTool("get_domain",
		mcp.WithDescription("Fetch one domain with its categories and patterns."),
		mcp.WithString("domain_slug", mcp.Required(), mcp.Description("Slug of the domain.")),
	), h.getDomain)

	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the categories of a domain, each with its patterns. Unknown domains yield an empty list."),
		mcp.WithString("domain_slug", mcp.Required(), mcp.Description("Slug of the parent domain.")),
	), h.listCategories)

	s.AddTool(mcp.NewTool("get_patterns",
		mcp.WithDescription("Collect patterns across several categories of one domain. Unknown category slugs are skipped."),
		mcp.WithString("domain_slug", mcp.Required(), mcp.Description("Slug of the parent domain.")),
		mcp.WithArray("category_slugs", mcp.Required(),
			mcp.Description("Category slugs to collect patterns from."),
			mcp.Items(map[string]any{"type": "string"})),
	), h.getPatterns)

	// Hierarchy writes.
	s.AddTool(mcp.NewTool("add_domain",
		mcp.WithDescription("Create a top-level domain."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Unique slug for the domain.")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name.")),
		mcp.WithString("description", mcp.Description("Optional description.")),
	), h.addDomain)

	s.AddTool(mcp.NewTool("add_category",
		mcp.WithDescription("Create a category under an existing domain."),
		mcp.WithString("domain_slug", mcp.Required(), mcp.Description("Slug of the parent domain.")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Slug, unique within the domain.")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name.")),
		mcp.WithString("description", mcp.Description("Optional description.")),
	), h.addCategory)

	s.AddTool(mcp.NewTool("add_pattern",
		mcp.WithDescription("Create a pattern under an existing category."),
		mcp.WithString("domain_slug", mcp.Required(), mcp.Description("Slug of the domain.")),
		mcp.WithString("category_slug", mcp.Required(), mcp.Description("Slug of the category.")),
		mcp.WithString("label", mcp.Required(), mcp.Description("Short human label.")),
		mcp.WithString("description", mcp.Description("What the pattern covers.")),
		mcp.WithString("intention", mcp.Description("When to reach for it.")),
		mcp.WithString("template", mcp.Description("The pattern body with placeholders.")),
	), h.addPattern)

	s.AddTool(mcp.NewTool("update_domain",
		mcp.WithDescription("Update fields of a domain. Omitted fields are left unchanged."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Slug of the domain.")),
		mcp.WithString("name", mcp.Description("New display name.")),
		mcp.WithString("description", mcp.Description("New description.")),
	), h.updateDomain)

	s.AddTool(mcp.NewTool("update_category",
		mcp.WithDescription("Update fields of a category. Omitted fields are left unchanged."),
		mcp.WithString("domain_slug", mcp.Required(), mcp.Description("Slug of the parent domain.")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Slug of the category.")),
		mcp.WithString("name", mcp.Description("New display name.")),
		mcp.WithString("description", mcp.Description("New description.")),
	), h.updateCategory)

	s.AddTool(mcp.NewTool("update_pattern",
		mcp.WithDescription("Update fields of a pattern. Omitted fields are left unchanged."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Pattern id.")),
		mcp.WithString("label", mcp.Description("New label.")),
		mcp.WithString("description", mcp.Description("New description.")),
		mcp.WithString("intention", mcp.Description("New intention.")),
		mcp.WithString("template", mcp.Description("New template body.")),
	), h.updatePattern)

	s.AddTool(mcp.NewTool("delete_domain",
		mcp.WithDescription("Delete a domain and everything under it."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Slug of the domain.")),
	), h.deleteDomain)

	s.AddTool(mcp.NewTool("delete_category",
		mcp.WithDescription("Delete a category and its patterns."),
		mcp.WithString("domain_slug", mcp.Required(), mcp.Description("Slug of the parent domain.")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Slug of the category.")),
	), h.deleteCategory)

	s.AddTool(mcp.NewTool("delete_pattern",
		mcp.WithDescription("Delete a single pattern."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Pattern id.")),
	), h.deletePattern)

	// Submission workflow.
	s.AddTool(mcp.NewTool("propose_pattern",
		mcp.WithDescription("File a submission: either a new pattern for a (possibly not yet existing) domain/category, or a modification of an existing pattern."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Either \"new\" or \"modify\".")),
		mcp.WithNumber("target_pattern_id", mcp.Description("Pattern to modify. Required for kind \"modify\".")),
		mcp.WithString("domain_slug", mcp.Description("Target domain. Required for kind \"new\".")),
		mcp.WithString("category_slug", mcp.Description("Target category. Required for kind \"new\".")),
		mcp.WithString("label", mcp.Required(), mcp.Description("Proposed label.")),
		mcp.WithString("description", mcp.Description("Proposed description.")),
		mcp.WithString("intention", mcp.Description("Proposed intention.")),
		mcp.WithString("template", mcp.Description("Proposed template body.")),
		mcp.WithString("source", mcp.Description("Who or what filed the proposal.")),
	), h.proposePattern)

	s.AddTool(mcp.NewTool("list_submissions",
		mcp.WithDescription("List submissions, most recent first."),
		mcp.WithString("status", mcp.Description("Filter: pending, accepted, or rejected. Omit for all.")),
	), h.listSubmissions)

	s.AddTool(mcp.NewTool("get_submission",
		mcp.WithDescription("Fetch one submission by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Submission id.")),
	), h.getSubmission)

	s.AddTool(mcp.NewTool("submission_impact",
		mcp.WithDescription("Preview which hierarchy nodes accepting a submission would create."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Submission id.")),
	), h.submissionImpact)

	s.AddTool(mcp.NewTool("review_submission",
		mcp.WithDescription("Accept or reject a pending submission. Acceptance applies the proposal to the library."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Submission id.")),
		mcp.WithString("decision", mcp.Required(), mcp.Description("Either \"accepted\" or \"rejected\".")),
	), h.reviewSubmission)

	return s
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
