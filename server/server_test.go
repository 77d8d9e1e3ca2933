package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abiiranathan/pdfscan/cli"
	"github.com/abiiranathan/pdfscan/routes"
	"github.com/abiiranathan/pdfscan/search"
)

// plainText reads files as text, one page per form feed.
type plainText struct{}

func (plainText) ExtractAll(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	return strings.ReplaceAll(string(data), "\f", "\n"), err
}

func (plainText) ExtractPages(_ context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	return strings.Split(string(data), "\f"), err
}

func (p plainText) PageCount(ctx context.Context, path string) (int, error) {
	pages, err := p.ExtractPages(ctx, path)
	return len(pages), err
}

func (p plainText) PageText(ctx context.Context, path string, page int) (string, error) {
	pages, err := p.ExtractPages(ctx, path)
	if err != nil || page > len(pages) {
		return "", err
	}
	return pages[page-1], nil
}

func setup(t *testing.T) (string, *search.Engine) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("intro\fsection on Malaria\fend"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("unrelated"), 0o644))

	engine, err := search.New(search.Options{Extractor: plainText{}, Workers: 2})
	require.NoError(t, err)
	return dir, engine
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)

	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func TestSearchTool(t *testing.T) {
	dir, engine := setup(t)
	tl := &tools{engine: engine, opts: routes.Options{DefaultMode: search.ModePages}}

	res, err := tl.search(context.Background(), call(map[string]any{"folder": dir, "keywords": "malaria"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var results []search.Result
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &results))
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(dir, "a.pdf"), results[0].Path)
	assert.Equal(t, 2, results[0].Pages[0].Page)

	res, err = tl.search(context.Background(), call(map[string]any{"folder": dir, "keywords": "malaria", "mode": "fuzzy"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tl.search(context.Background(), call(map[string]any{"folder": dir, "keywords": " ; "}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tl.search(context.Background(), call(map[string]any{"keywords": "malaria"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestLocateTool(t *testing.T) {
	dir, engine := setup(t)
	tl := &tools{engine: engine}
	path := filepath.Join(dir, "a.pdf")

	res, err := tl.locate(context.Background(), call(map[string]any{"path": path, "text": "section on malaria"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, path+" Page: 2", resultText(t, res))

	res, err = tl.locate(context.Background(), call(map[string]any{"path": path, "text": "absent"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestViewPageTool(t *testing.T) {
	dir, engine := setup(t)
	tl := &tools{engine: engine}
	path := filepath.Join(dir, "a.pdf")

	res, err := tl.viewPage(context.Background(), call(map[string]any{"path": path, "page": 7}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var view search.PageView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &view))
	assert.Equal(t, search.PageView{Path: path, TotalPages: 3, Page: 3, Text: "end"}, view)

	res, err = tl.viewPage(context.Background(), call(map[string]any{"path": path}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `"current_page":1`)

	res, err = tl.viewPage(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestMatchingPagesTool(t *testing.T) {
	dir, engine := setup(t)
	tl := &tools{engine: engine}
	path := filepath.Join(dir, "a.pdf")

	res, err := tl.matchingPages(context.Background(), call(map[string]any{"path": path, "text": "malaria"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))
	assert.JSONEq(t, `[{"page_number":2,"content":"section on Malaria"}]`, resultText(t, res))

	res, err = tl.matchingPages(context.Background(), call(map[string]any{"path": path, "text": " "}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListenAddr(t *testing.T) {
	config := cli.DefaultConfig
	assert.Equal(t, "127.0.0.1:8080", listenAddr(&config))

	config.Host = "0.0.0.0"
	config.Port = 9000
	assert.Equal(t, "0.0.0.0:9000", listenAddr(&config))
}

func TestNewMCPServer(t *testing.T) {
	_, engine := setup(t)
	assert.NotNil(t, NewMCPServer(engine, routes.Options{}))
}

func TestRouteOptions(t *testing.T) {
	config := cli.DefaultConfig
	config.Mode = "multi"
	config.Stopwords = true

	opts := RouteOptions(&config)
	assert.Equal(t, search.ModeMulti, opts.DefaultMode)
	assert.True(t, opts.Stopwords)
	assert.Equal(t, config.MaxDocumentBytes, opts.MaxDocumentBytes)

	config.Mode = "bogus"
	assert.Equal(t, search.ModePages, RouteOptions(&config).DefaultMode)
}

func TestNewHandler(t *testing.T) {
	dir, engine := setup(t)
	config := cli.DefaultConfig

	srv := httptest.NewServer(NewHandler(&config, engine))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/search?folder=" + dir + "&q=malaria")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var report search.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 1, report.Matched)
}
