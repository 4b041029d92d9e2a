package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftlog/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

const recentDays = 14

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	all, err := h.ds.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := h.now().AddDate(0, 0, -recentDays)
	recent := make([]sessionSummary, 0)
	for _, s := range all {
		if !s.Date.Before(cutoff) {
			recent = append(recent, summarize(s))
		}
	}

	return jsonContents(req.Params.URI, map[string]any{
		"days":            recentDays,
		"sessions":        recent,
		"this_week_count": history.WeeklyCompletedCount(all, h.now()),
	})
}

func (h *handlers) planResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, planDays(""))
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
