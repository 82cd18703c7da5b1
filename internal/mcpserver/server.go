// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido import tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/docservice"
	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/parser"
)

// SchemaResourceURI names the document schema resource.
const SchemaResourceURI = "raido://document-schema"

const defaultListLimit = 50

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *docservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("import_markdown",
		mcp.WithDescription("Convert Markdown text into the rich-document JSON tree. "+
			"Read the schema first via get_schema_contract or the "+SchemaResourceURI+" resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown source, optionally with a leading --- front matter block")),
		withImportOptions(),
	), s.importMarkdown)

	s.mcp.AddTool(mcp.NewTool("import_markdown_batch",
		mcp.WithDescription("Convert several Markdown documents at once. "+
			"Either every item succeeds or the call fails naming the first bad item id."),
		mcp.WithArray("items", mcp.Required(),
			mcp.Description("Documents to convert, in order"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":      map[string]any{"type": "string"},
					"content": map[string]any{"type": "string"},
				},
				"required": []string{"id", "content"},
			}),
		),
		withImportOptions(),
	), s.importMarkdownBatch)

	s.mcp.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Read an indexed vault document with its title, tags and front matter."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path of the vault file (e.g. folder/note.md)")),
	), s.getDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List indexed vault documents, optionally filtered by tag."),
		mcp.WithString("tag", mcp.Description("Only documents carrying this tag")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)")),
		mcp.WithNumber("offset", mcp.Description("Page offset")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("get_schema_contract",
		mcp.WithDescription("Returns the rich-document JSON schema produced by the import tools."),
	), s.getSchemaContract)

	s.mcp.AddResource(
		mcp.NewResource(SchemaResourceURI, "Document Schema",
			mcp.WithResourceDescription("Node types and fields of the imported rich-document tree."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSchemaResource,
	)

	return s
}

// withImportOptions declares the per-call option arguments shared by the
// import tools.
func withImportOptions() mcp.ToolOption {
	return func(t *mcp.Tool) {
		mcp.WithBoolean("parse_front_matter", mcp.Description("Strip and return the --- header (default true)"))(t)
		mcp.WithBoolean("extract_title", mcp.Description("Use the first h1 as title when front matter has none"))(t)
		mcp.WithString("tag_format",
			mcp.Description("hash for #word tags, bracket for #[multi word] tags"),
			mcp.Enum(string(parser.TagFormatHash), string(parser.TagFormatBracket)),
		)(t)
	}
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func importOptions(req mcp.CallToolRequest) ([]importer.Option, error) {
	args := req.GetArguments()
	var opts []importer.Option
	if _, ok := args["parse_front_matter"]; ok {
		opts = append(opts, importer.WithFrontMatter(req.GetBool("parse_front_matter", true)))
	}
	if _, ok := args["extract_title"]; ok {
		opts = append(opts, importer.WithTitleExtraction(req.GetBool("extract_title", false)))
	}
	if raw := req.GetString("tag_format", ""); raw != "" {
		f, err := parser.ParseTagFormat(raw)
		if err != nil {
			return nil, err
		}
		opts = append(opts, importer.WithTagFormat(f))
	}
	return opts, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func importFailure(err error) *mcp.CallToolResult {
	var ie *apperr.ImportError
	if errors.As(err, &ie) && ie.ItemID != "" {
		return mcp.NewToolResultError(fmt.Sprintf("%s (item %s): %v", ie.Code, ie.ItemID, err))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) importMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts, err := importOptions(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Import(ctx, content, opts...)
	if err != nil {
		return importFailure(err), nil
	}
	return jsonResult(doc)
}

func (s *Server) importMarkdownBatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Items []importer.BatchItem `json:"items"`
	}
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid items: %v", err)), nil
	}
	if args.Items == nil {
		return mcp.NewToolResultError("items is required"), nil
	}
	opts, err := importOptions(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.ImportBatch(ctx, args.Items, opts...)
	if err != nil {
		return importFailure(err), nil
	}
	return jsonResult(results)
}

func (s *Server) getDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetDocument(ctx, path)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(doc)
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultListLimit)
	offset := req.GetInt("offset", 0)
	items, total, err := s.svc.ListDocuments(ctx, limit, offset, req.GetString("tag", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"documents": items,
		"total":     total,
	})
}

func (s *Server) getSchemaContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocumentSchemaContract), nil
}

func (s *Server) readSchemaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SchemaResourceURI,
			MIMEType: "text/markdown",
			Text:     DocumentSchemaContract,
		},
	}, nil
}
