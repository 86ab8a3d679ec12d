// Package mcp exposes the Jira tool surface over the Model Context Protocol.
// Rich-text tool inputs are encoded to ADF before submission; rich-text
// fields in Jira responses are rendered to Markdown before being returned as
// text content.
package mcp

import (
	"context"

	"jira-mcp/internal/config"
	"jira-mcp/internal/jira"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server holds the state for the MCP server.
type Server struct {
	jira            jira.Client
	defaultFieldSet string
	server          *sdk.Server
}

// NewServer creates a new MCP server and registers the Jira tool set.
func NewServer(cfg *config.AppConfig, client jira.Client, version string) *Server {
	s := &Server{
		jira:            client,
		defaultFieldSet: cfg.DefaultFieldSet,
	}
	s.server = sdk.NewServer(&sdk.Implementation{
		Name:    "jira-mcp",
		Version: version,
	}, nil)
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Msg("MCP server starting stdio transport")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}
