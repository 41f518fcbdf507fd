package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/dolater/internal/content"
	"github.com/kalambet/dolater/internal/search"
)

const maxSearchResults = 50

// NewMCPServer creates an MCP server exposing the DoLater tools and the
// recent-searches resource.
func NewMCPServer(svc *Service) *server.MCPServer {
	s := server.NewMCPServer(
		"dolater",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("DoLater: save content for later, search it, and ask Genie to turn it into plans."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("save_item",
			mcp.WithDescription("Save a link or note to DoLater. It is classified in the background."),
			mcp.WithString("title", mcp.Description("Title of the saved content")),
			mcp.WithString("url", mcp.Description("Link to the content")),
			mcp.WithString("notes", mcp.Description("Personal notes about the content")),
			mcp.WithString("category", mcp.Description("Optional category: fitness, finance, knowledge, personal or work")),
			mcp.WithArray("tags", mcp.Description("Optional tags")),
		),
		mcpSaveItem(svc),
	)

	s.AddTool(
		mcp.NewTool("search_saves",
			mcp.WithDescription("Search saved content by text with optional filters."),
			mcp.WithString("query", mcp.Description("Text to look for in titles, summaries and tags")),
			mcp.WithString("category", mcp.Description("Category filter or 'all'")),
			mcp.WithString("platform", mcp.Description("Platform filter or 'all'")),
			mcp.WithString("date", mcp.Description("today, week, month or all")),
			mcp.WithString("action", mcp.Description("Action type filter or 'all'")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		),
		mcpSearchSaves(svc),
	)

	s.AddTool(
		mcp.NewTool("ask_genie",
			mcp.WithDescription("Ask the Genie assistant about your saved content: plans, summaries, routines."),
			mcp.WithString("message", mcp.Description("What to ask"), mcp.Required()),
		),
		mcpAskGenie(svc),
	)

	s.AddTool(
		mcp.NewTool("analyze_content",
			mcp.WithDescription("Classify content without saving it: summary, category, tags, priority and action type."),
			mcp.WithString("title", mcp.Description("Title of the content")),
			mcp.WithString("content", mcp.Description("Body text")),
			mcp.WithString("url", mcp.Description("Link; fetched when no body is given")),
		),
		mcpAnalyzeContent(svc),
	)

	s.AddResource(
		mcp.NewResource(
			"saves://recent-searches",
			"Recent Searches",
			mcp.WithResourceDescription("The last five search queries, most recent first"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecentSearches(svc),
	)

	return s
}

func mcpSaveItem(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		it := content.Item{
			Title:     req.GetString("title", ""),
			URL:       req.GetString("url", ""),
			UserNotes: req.GetString("notes", ""),
			Category:  content.Category(req.GetString("category", "")),
			Tags:      req.GetStringSlice("tags", nil),
		}
		saved, err := svc.SaveItem(it)
		if errors.Is(err, ErrInvalidItem) {
			return mcpError("title or url is required"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to save: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Saved item %s", saved.ID)), nil
	}
}

func mcpSearchSaves(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		filters := search.Filters{
			Category:   req.GetString("category", search.All),
			Platform:   req.GetString("platform", search.All),
			DateRange:  req.GetString("date", search.All),
			ActionType: req.GetString("action", search.All),
		}
		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > maxSearchResults {
			limit = maxSearchResults
		}

		items, err := svc.Search(query, filters)
		if err != nil {
			return mcpError(fmt.Sprintf("search failed: %v", err)), nil
		}
		if len(items) > limit {
			items = items[:limit]
		}

		type hit struct {
			ID       string   `json:"id"`
			Title    string   `json:"title"`
			URL      string   `json:"url"`
			Summary  string   `json:"summary"`
			Category string   `json:"category"`
			Tags     []string `json:"tags"`
		}
		hits := make([]hit, len(items))
		for i, it := range items {
			hits[i] = hit{
				ID:       it.ID,
				Title:    it.Title,
				URL:      it.URL,
				Summary:  it.Summary,
				Category: string(it.Category),
				Tags:     it.Tags,
			}
		}

		b, err := json.Marshal(hits)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAskGenie(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("message")
		if err != nil || strings.TrimSpace(text) == "" {
			return mcpError("message is required"), nil
		}
		msg, err := svc.Ask(ctx, text)
		if err != nil {
			return mcpError(fmt.Sprintf("ask failed: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString(msg.Content)
		if len(msg.Suggestions) > 0 {
			sb.WriteString("\n\nTry asking:")
			for _, s := range msg.Suggestions {
				sb.WriteString("\n- ")
				sb.WriteString(s)
			}
		}
		res := mcpText(sb.String())
		res.IsError = msg.IsError
		return res, nil
	}
}

func mcpAnalyzeContent(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := req.GetString("title", "")
		body := req.GetString("content", "")
		url := req.GetString("url", "")
		if strings.TrimSpace(title+body+url) == "" {
			return mcpError("one of title, content or url is required"), nil
		}

		b, err := json.Marshal(svc.Analyze(ctx, title, body, url))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceRecentSearches(svc *Service) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(svc.RecentSearches())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal recent searches: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
