package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kevinmichaelchen/repo-audit/internal/llm"
	"github.com/kevinmichaelchen/repo-audit/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

type toolHandler struct {
	runner session.Runner
	logger *zap.Logger
}

func (h *toolHandler) handleAuditRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")

	sess := session.New(h.runner, session.WithLogger(h.logger))
	if err := sess.Submit(ctx, url); err != nil {
		h.logger.Info("audit tool call failed", zap.String("url", url), zap.Error(err))
		return mcp.NewToolResultError(session.Message(err)), nil
	}

	outcome, _ := sess.Outcome()
	jsonData, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAuditSchema(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(llm.Schema(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding schema: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
