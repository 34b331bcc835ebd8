// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes graphol translation tools for LLM integration via stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/graphol/internal/apperr"
	"github.com/starford/graphol/internal/ontoservice"
	"github.com/starford/graphol/internal/owl"
	"github.com/starford/graphol/internal/storage"
)

const diagramFormatURI = "graphol://diagram-format"

// Server wraps the MCP server with graphol tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *ontoservice.Service
	store storage.Provider
}

// New creates a new MCP server with all graphol tools registered.
func New(svc *ontoservice.Service, store storage.Provider, version string) *Server {
	s := &Server{svc: svc, store: store}

	s.mcp = server.NewMCPServer(
		"graphol",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("translate_diagram",
		mcp.WithDescription("Translate a diagram document to an OWL 2 ontology in functional syntax. "+
			"The document is not stored. Read the format first via the get_diagram_format tool "+
			"or the "+diagramFormatURI+" resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("YAML or JSON diagram document")),
	), s.translateDiagram)

	s.mcp.AddTool(mcp.NewTool("translate_file",
		mcp.WithDescription("Translate a stored workspace diagram and record the run."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the diagram (e.g. models/uni.yaml)")),
	), s.translateFile)

	s.mcp.AddTool(mcp.NewTool("list_diagrams",
		mcp.WithDescription("List all diagrams or diagrams in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listDiagrams)

	s.mcp.AddTool(mcp.NewTool("get_axioms",
		mcp.WithDescription("Return the axioms of the last successful translation of a diagram, one per line."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the diagram")),
		mcp.WithString("kind", mcp.Description("Optional axiom kind filter, e.g. SubClassOf")),
	), s.getAxioms)

	s.mcp.AddTool(mcp.NewTool("search_axioms",
		mcp.WithDescription("Full-text search through stored axioms of all diagrams."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchAxioms)

	s.mcp.AddTool(mcp.NewTool("get_diagram_format",
		mcp.WithDescription("Returns the diagram document format contract. "+
			"Call this before writing diagrams to ensure correct structure."),
	), s.getDiagramFormat)

	// Resource: diagram format contract.
	s.mcp.AddResource(
		mcp.NewResource(diagramFormatURI, "Diagram Format Contract",
			mcp.WithResourceDescription("Diagram document format accepted by the translator."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDiagramFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) translateDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.svc.TranslateDocument(ctx, []byte(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := owl.WriteFunctional(&buf, out.Ontology); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) translateFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.svc.Compile(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, _ := json.MarshalIndent(out.Run, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listDiagrams(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = f
	}

	metas, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(metas) == 0 {
		return mcp.NewToolResultText("no diagrams found"), nil
	}

	paths := make([]string, 0, len(metas))
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) getAxioms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind := ""
	if k, err := req.RequireString("kind"); err == nil {
		kind = k
	}
	axioms, err := s.svc.Axioms(ctx, path, kind)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(axioms) == 0 {
		return mcp.NewToolResultText("no axioms found"), nil
	}
	lines := make([]string, len(axioms))
	for i, a := range axioms {
		lines[i] = a.Text
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) searchAxioms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getDiagramFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DiagramFormatContract), nil
}

func (s *Server) readDiagramFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      diagramFormatURI,
			MIMEType: "text/markdown",
			Text:     DiagramFormatContract,
		},
	}, nil
}
