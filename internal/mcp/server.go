package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracker. Query logged strength sessions, per-exercise history, aggregate stats and the two-day training plan. Read-only."),
	)

	h := &handlers{ds: ds, log: log, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
		server.ServerTool{Tool: toolGetLastSet, Handler: h.getLastSet},
		server.ServerTool{Tool: toolGetNextWorkoutDay, Handler: h.getNextWorkoutDay},
		server.ServerTool{Tool: toolGetWeeklyCount, Handler: h.getWeeklyCount},
		server.ServerTool{Tool: toolGetPlan, Handler: h.getPlan},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resPlan, Handler: h.planResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
	now func() time.Time
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"liftlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Workout sessions from the last 14 days with exercise names and sets"),
	mcp.WithMIMEType("application/json"),
)

var resPlan = mcp.NewResource(
	"liftlog://plan",
	"Training Plan",
	mcp.WithResourceDescription("Both workout days with exercises, target sets and reps, and supersets"),
	mcp.WithMIMEType("application/json"),
)
