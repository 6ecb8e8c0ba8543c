package toolserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agentic-research/loom/api"
	"github.com/agentic-research/loom/internal/store"
)

func (h *handlers) proposePattern(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	label, err := req.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := store.SubmissionInput{
		Kind:         api.SubmissionKind(kind),
		DomainSlug:   req.GetString("domain_slug", ""),
		CategorySlug: req.GetString("category_slug", ""),
		Label:        label,
		Description:  req.GetString("description", ""),
		Intention:    req.GetString("intention", ""),
		Template:     req.GetString("template", ""),
		Source:       req.GetString("source", ""),
	}
	if _, ok := req.GetArguments()["target_pattern_id"]; ok {
		target := int64(req.GetInt("target_pattern_id", 0))
		in.TargetPatternID = &target
	}

	id, err := h.store.AddSubmission(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"id": id, "status": api.StatusPending})
}

func (h *handlers) listSubmissions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := api.SubmissionStatus(req.GetString("status", ""))
	subs, err := h.store.GetSubmissions(ctx, status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if subs == nil {
		subs = []api.Submission{}
	}
	return jsonResult(subs)
}

func (h *handlers) getSubmission(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sub, err := h.store.GetSubmission(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sub == nil {
		return mcp.NewToolResultError(fmt.Sprintf("submission %d not found", id)), nil
	}
	return jsonResult(sub)
}

func (h *handlers) submissionImpact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	impact, err := h.store.SubmissionImpact(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(impact)
}

func (h *handlers) reviewSubmission(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	decision, err := req.RequireString("decision")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sub, err := h.store.ReviewSubmission(ctx, int64(id), api.SubmissionStatus(decision))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(sub)
}
