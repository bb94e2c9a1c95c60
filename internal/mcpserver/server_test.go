package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/figcaption/internal/caption"
	"github.com/starford/figcaption/internal/models"
	"github.com/starford/figcaption/internal/sanitize"
	"github.com/starford/figcaption/internal/testutil"
)

func testServer(t *testing.T) (*Server, *caption.Repository, int64) {
	t.Helper()
	store := testutil.TestStore(t)
	post := testutil.SeedPost(t, store, models.OwnerPost, 1)
	repo := caption.NewRepository(store, sanitize.PostContent(), "")
	return New(caption.NewAccessor(repo, ""), "test"), repo, post.ID
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_featured_image_caption":
		result, err = srv.getCaption(ctx, req)
	case "has_featured_image_caption":
		result, err = srv.hasCaption(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func decode(t *testing.T, r *mcp.CallToolResult) captionResult {
	t.Helper()
	var res captionResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return res
}

func TestGetCaption_Modes(t *testing.T) {
	srv, repo, id := testServer(t)
	if err := repo.Set(context.Background(), id, "A sunset."); err != nil {
		t.Fatal(err)
	}

	res := decode(t, callTool(t, srv, "get_featured_image_caption", map[string]interface{}{"post_id": float64(id)}))
	if res.Mode != "display" || res.Caption != `<span class="cc-featured-image-caption">A sunset.</span>` {
		t.Errorf("display result = %+v", res)
	}

	res = decode(t, callTool(t, srv, "get_featured_image_caption", map[string]interface{}{"post_id": float64(id), "mode": "raw"}))
	if res.Mode != "raw" || res.Caption != "A sunset." {
		t.Errorf("raw result = %+v", res)
	}
}

func TestGetCaption_Absent(t *testing.T) {
	srv, _, id := testServer(t)
	for _, mode := range []string{"display", "raw"} {
		res := decode(t, callTool(t, srv, "get_featured_image_caption", map[string]interface{}{"post_id": float64(id), "mode": mode}))
		if res.Caption != false {
			t.Errorf("%s: caption = %v, want false", mode, res.Caption)
		}
	}
}

func TestGetCaption_InvalidPostID(t *testing.T) {
	srv, _, _ := testServer(t)
	for _, args := range []map[string]interface{}{
		{},
		{"post_id": float64(0)},
		{"post_id": 1.5},
	} {
		if r := callTool(t, srv, "get_featured_image_caption", args); !r.IsError {
			t.Errorf("args %v: expected error", args)
		}
	}
}

func TestHasCaption(t *testing.T) {
	srv, repo, id := testServer(t)
	if got := resultText(callTool(t, srv, "has_featured_image_caption", map[string]interface{}{"post_id": float64(id)})); got != "false" {
		t.Errorf("before = %q", got)
	}
	if err := repo.Set(context.Background(), id, "Hi"); err != nil {
		t.Fatal(err)
	}
	if got := resultText(callTool(t, srv, "has_featured_image_caption", map[string]interface{}{"post_id": float64(id)})); got != "true" {
		t.Errorf("after = %q", got)
	}
}

func TestFunctionsResource(t *testing.T) {
	srv, _, _ := testServer(t)
	contents, err := srv.readFunctionsResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != ResourceURI || tc.Text != TemplateFunctions {
		t.Errorf("unexpected resource contents: %+v", contents[0])
	}
}
