package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var resolveToolDef = mcp.NewTool("bookmark_resolve",
	mcp.WithDescription("Look up the link stored under a handle. Only active bookmarks are returned; handles are case-sensitive."),
	mcp.WithString("handle",
		mcp.Required(),
		mcp.Description("Bookmark keyword, a single word"),
	),
)

var createToolDef = mcp.NewTool("bookmark_create",
	mcp.WithDescription("Store a link under a new handle. Fails with ALREADY_EXISTS if the handle is active; existing bookmarks are never overwritten."),
	mcp.WithString("handle",
		mcp.Required(),
		mcp.Description("Bookmark keyword, a single word of at most 100 characters"),
	),
	mcp.WithString("link",
		mcp.Required(),
		mcp.Description("URL or free text of at most 4000 characters"),
	),
)

var deactivateToolDef = mcp.NewTool("bookmark_deactivate",
	mcp.WithDescription("Remove the active bookmark for a handle. The row is kept as history and the handle can be bookmarked again."),
	mcp.WithString("handle",
		mcp.Required(),
		mcp.Description("Bookmark keyword"),
	),
)

var searchToolDef = mcp.NewTool("bookmark_search",
	mcp.WithDescription("Find active handles containing a pattern, ignoring case. Exact matches are listed first."),
	mcp.WithString("pattern",
		mcp.Required(),
		mcp.Description("Substring to look for"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results (default and max 20)"),
	),
)

var listToolDef = mcp.NewTool("bookmark_list",
	mcp.WithDescription("List active bookmarks, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Page size (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of bookmarks to skip"),
	),
)
