package mcp

import (
	"context"

	"cpi-console/internal/dispatch"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server exposes the dispatcher's actions as MCP tools. Every tool call goes
// through the same controller, so an action that is already running is
// rejected for agents just as it is for the terminal.
type Server struct {
	ctl     *dispatch.Controller
	version string
	opener  func(path string) error
	pageDir string
}

// NewServer creates a new MCP server. Press releases are saved as HTML pages
// into pageDir.
func NewServer(ctl *dispatch.Controller, version, pageDir string) *Server {
	return &Server{ctl: ctl, version: version, pageDir: pageDir}
}

// WithOpener makes get_press_release open saved pages, e.g. in a browser.
func (s *Server) WithOpener(open func(path string) error) *Server {
	s.opener = open
	return s
}

// MCP builds the protocol server with all tools registered.
func (s *Server) MCP() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "cpi-console", Version: s.version}, nil)
	s.registerTools(srv)
	return srv
}

// Start serves MCP over stdio until the client disconnects or ctx ends.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Str("version", s.version).Msg("MCP Server starting Stdio loop")
	return s.MCP().Run(ctx, &mcp.StdioTransport{})
}
