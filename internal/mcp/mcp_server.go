// Package mcp exposes repository audits as Model Context Protocol tools over stdio.
package mcp

import (
	"github.com/kevinmichaelchen/repo-audit/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	ServerName    = "Repository Audit Server"
	ServerVersion = "1.0.0"
)

// NewMCPServer builds the server and registers its tools without starting it.
func NewMCPServer(runner session.Runner, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithLogging(),
	)

	h := &toolHandler{runner: runner, logger: logger}

	s.AddTool(mcp.NewTool("audit_repository",
		mcp.WithDescription("Audit a public GitHub repository: fetch its metadata, languages, root listing and README, then score code quality, structure, documentation and relevance with a roadmap of improvements."),
		mcp.WithString("url", mcp.Description("Repository URL, e.g. https://github.com/owner/repo."), mcp.Required()),
	), h.handleAuditRepository)

	s.AddTool(mcp.NewTool("audit_schema",
		mcp.WithDescription("Return the JSON schema the audit result conforms to."),
	), h.handleAuditSchema)

	return s
}

// StartMCPServer serves on stdin/stdout until the client disconnects.
func StartMCPServer(runner session.Runner, logger *zap.Logger) error {
	return server.ServeStdio(NewMCPServer(runner, logger))
}
