package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/abiiranathan/pdfscan/routes"
	"github.com/abiiranathan/pdfscan/search"
)

const (
	mcpName    = "pdfscan"
	mcpVersion = "0.1.0"
)

// tools exposes the engine to MCP clients.
type tools struct {
	engine *search.Engine
	opts   routes.Options
}

func NewMCPServer(engine *search.Engine, opts routes.Options) *mcpserver.MCPServer {
	t := &tools{engine: engine, opts: opts}

	searchTool := mcp.NewTool("search_pdfs",
		mcp.WithDescription("Search every PDF under a folder for keywords and return the matching pages with context"),
		mcp.WithString("folder",
			mcp.Required(),
			mcp.Description("Absolute path of the folder to search recursively"),
		),
		mcp.WithString("keywords",
			mcp.Required(),
			mcp.Description("Keywords separated by spaces, commas or semicolons"),
		),
		mcp.WithString("mode",
			mcp.Description("Match mode: pages, text or multi"),
			mcp.Enum(string(search.ModePages), string(search.ModeText), string(search.ModeMulti)),
		),
	)

	locateTool := mcp.NewTool("locate_page",
		mcp.WithDescription("Find the page of a PDF containing some text"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the PDF file"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to look for"),
		),
	)

	viewTool := mcp.NewTool("view_page",
		mcp.WithDescription("Return the page count of a PDF and the text of one page"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the PDF file"),
		),
		mcp.WithNumber("page",
			mcp.Description("1-based page number, clamped to the document. Defaults to 1"),
		),
	)

	pagesTool := mcp.NewTool("matching_pages",
		mcp.WithDescription("List every page of a PDF containing some text, with the first lines of each"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the PDF file"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to look for"),
		),
	)

	srv := mcpserver.NewMCPServer(mcpName, mcpVersion, mcpserver.WithToolCapabilities(false))
	srv.AddTool(searchTool, t.search)
	srv.AddTool(locateTool, t.locate)
	srv.AddTool(viewTool, t.viewPage)
	srv.AddTool(pagesTool, t.matchingPages)
	return srv
}

// ServeMCP serves the tools on stdin and stdout until the client goes away.
func ServeMCP(engine *search.Engine, opts routes.Options) error {
	return mcpserver.ServeStdio(NewMCPServer(engine, opts))
}

func (t *tools) search(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, err := request.RequireString("folder")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	keywords, err := request.RequireString("keywords")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mode := t.opts.DefaultMode
	if name := request.GetString("mode", ""); name != "" {
		if mode, err = search.ParseMode(name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	var qopts []search.QueryOption
	if t.opts.Stopwords {
		qopts = append(qopts, search.WithoutStopwords("en"))
	}

	query, err := search.NewQuery(folder, keywords, mode, qopts...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := t.engine.Run(ctx, query, search.Hooks{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(report.Results)
}

func (t *tools) locate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, ok := t.engine.LocatePage(ctx, path, text)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%q not found in %s", text, path)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s Page: %d", path, page)), nil
}

func (t *tools) viewPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	view, err := t.engine.ViewPage(ctx, path, request.GetInt("page", 1))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(view)
}

func (t *tools) matchingPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pages, err := t.engine.MatchingPages(ctx, path, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(pages)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
