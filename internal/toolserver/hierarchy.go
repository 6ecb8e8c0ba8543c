package toolserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/loom/api"
	"github.com/agentic-research/loom/internal/store"
)

// jsonResult serializes v as the tool's text payload.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := oj.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// optString returns a pointer when the argument is present, nil when it was
// omitted. Partial updates distinguish "not sent" from "set to empty".
func optString(req mcp.CallToolRequest, key string) *string {
	if v, ok := req.GetArguments()[key].(string); ok {
		return &v
	}
	return nil
}

func (h *handlers) listDomains(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domains, err := h.store.GetDomains(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if domains == nil {
		domains = []api.Domain{}
	}
	return jsonResult(domains)
}

func (h *handlers) getDomain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("domain_slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := h.store.GetDomain(ctx, slug)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if d == nil {
		return mcp.NewToolResultError(fmt.Sprintf("domain %q not found", slug)), nil
	}
	return jsonResult(d)
}

func (h *handlers) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("domain_slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cats, err := h.store.GetCategories(ctx, slug)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if cats == nil {
		cats = []api.Category{}
	}
	return jsonResult(cats)
}

func (h *handlers) getPatterns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("domain_slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slugs := req.GetStringSlice("category_slugs", nil)
	patterns, err := h.store.GetPatterns(ctx, slug, slugs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if patterns == nil {
		patterns = []api.Pattern{}
	}
	return jsonResult(patterns)
}

func (h *handlers) addDomain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.store.AddDomain(ctx, slug, name, req.GetString("description", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("domain %q created", slug)), nil
}

func (h *handlers) addCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domainSlug, err := req.RequireString("domain_slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.store.AddCategory(ctx, domainSlug, slug, name, req.GetString("description", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("category %q created in domain %q", slug, domainSlug)), nil
}

func (h *handlers) addPattern(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domainSlug, err := req.RequireString("domain_slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	categorySlug, err := req.RequireString("category_slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	label, err := req.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := h.store.AddPattern(ctx, domainSlug, categorySlug, store.PatternInput{
		Label:       label,
		Description: req.GetString("description", ""),
		Intention:   req.GetString("intention", ""),
		Template:    req.GetString("template", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"id": id})
}

func (h *handlers) updateDomain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	err = h.store.UpdateDomain(ctx, slug, store.DomainUpdate{
		Name:        optString(req, "name"),
		Description: optString(req, "description"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("domain %q updated", slug)), nil
}

func (h *handlers) updateCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domainSlug, err := req.RequireString("domain_slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	err = h.store.UpdateCategory(ctx, domainSlug, slug, store.CategoryUpdate{
		Name:        optString(req, "name"),
		Description: optString(req, "description"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("category %q updated", slug)), nil
}

func (h *handlers) updatePattern(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	err = h.store.UpdatePattern(ctx, int64(id), store.PatternUpdate{
		Label:       optString(req, "label"),
		Description: optString(req, "description"),
		Intention:   optString(req, "intention"),
		Template:    optString(req, "template"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("pattern %d updated", id)), nil
}

func (h *handlers) deleteDomain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.store.DeleteDomain(ctx, slug); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("domain %q deleted", slug)), nil
}

func (h *handlers) deleteCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domainSlug, err := req.RequireString("domain_slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.store.DeleteCategory(ctx, domainSlug, slug); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("category %q deleted from domain %q", slug, domainSlug)), nil
}

func (h *handlers) deletePattern(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.store.DeletePattern(ctx, int64(id)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("pattern %d deleted", id)), nil
}
