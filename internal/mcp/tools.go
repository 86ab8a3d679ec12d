package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const descriptionFormatHint = "Plain text. Short isolated lines become headings, lines starting with '- ' become bullet lists, lines starting with '1. ' become numbered lists; everything else becomes paragraphs."

const fieldSetHint = "Which issue fields to request: 'basic' (common fields), 'navigable' (all navigable fields, default) or 'full' (everything). Unknown values fall back to 'navigable'."

func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "create_issue",
		Description: "Create a new Jira issue. The description is plain text and is converted to Jira's rich-text format automatically.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"project":     {Type: "string", Description: "The project key (e.g., PROJ)"},
				"issue_type":  {Type: "string", Description: "Issue type name (e.g., Task, Bug, Story)"},
				"summary":     {Type: "string", Description: "One-line issue summary"},
				"description": {Type: "string", Description: descriptionFormatHint},
				"labels":      {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Optional labels to apply"},
			},
			Required: []string{"project", "issue_type", "summary"},
		},
	}, s.handleCreateIssue)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "get_issue",
		Description: "Get a Jira issue by key. Rich-text fields are rendered as Markdown.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"issue":            {Type: "string", Description: "The issue key (e.g., PROJ-123)"},
				"field_set":        {Type: "string", Description: fieldSetHint},
				"include_comments": {Type: "boolean", Description: "If true, also returns the issue's comments"},
			},
			Required: []string{"issue"},
		},
	}, s.handleGetIssue)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "update_issue",
		Description: "Update fields of an existing Jira issue. Only the provided fields are changed; the description is plain text and is converted to Jira's rich-text format automatically.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"issue":       {Type: "string", Description: "The issue key (e.g., PROJ-123)"},
				"summary":     {Type: "string", Description: "New one-line summary"},
				"description": {Type: "string", Description: descriptionFormatHint},
				"labels":      {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Replacement label list"},
			},
			Required: []string{"issue"},
		},
	}, s.handleUpdateIssue)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "delete_issue",
		Description: "Delete a Jira issue by key. This cannot be undone; confirm with the user before calling.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"issue": {Type: "string", Description: "The issue key (e.g., PROJ-123)"},
			},
			Required: []string{"issue"},
		},
	}, s.handleDeleteIssue)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "link_issues",
		Description: "Link two Jira issues. Use 'list_metadata' first to discover the available link type names and their directions.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"inward_issue":  {Type: "string", Description: "Key of the inward issue (e.g., the one that 'is blocked by')"},
				"outward_issue": {Type: "string", Description: "Key of the outward issue (e.g., the one that 'blocks')"},
				"link_type":     {Type: "string", Description: "Link type name (e.g., Blocks, Relates)"},
			},
			Required: []string{"inward_issue", "outward_issue", "link_type"},
		},
	}, s.handleLinkIssues)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "search_issues",
		Description: "Search Jira issues with a JQL query. Rich-text fields in the results are rendered as Markdown.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"jql":         {Type: "string", Description: "JQL query string (e.g., project = PROJ AND status = Open)"},
				"field_set":   {Type: "string", Description: fieldSetHint},
				"max_results": {Type: "integer", Description: "Maximum number of issues to return (default: 50)"},
			},
			Required: []string{"jql"},
		},
	}, s.handleSearchIssues)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "add_comment",
		Description: "Add a comment to a Jira issue. The body is plain text and is converted to Jira's rich-text format automatically.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"issue": {Type: "string", Description: "The issue key (e.g., PROJ-123)"},
				"body":  {Type: "string", Description: descriptionFormatHint},
			},
			Required: []string{"issue", "body"},
		},
	}, s.handleAddComment)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "get_comments",
		Description: "Get the comments of a Jira issue, oldest first, with bodies rendered as Markdown.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"issue":       {Type: "string", Description: "The issue key (e.g., PROJ-123)"},
				"max_results": {Type: "integer", Description: "Maximum number of comments to return (default: 50)"},
			},
			Required: []string{"issue"},
		},
	}, s.handleGetComments)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "transition_issue",
		Description: "Move a Jira issue through its workflow. Accepts a transition ID or name; call with only the issue key to list the available transitions.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"issue":      {Type: "string", Description: "The issue key (e.g., PROJ-123)"},
				"transition": {Type: "string", Description: "Transition ID or name. Omit to list the available transitions."},
			},
			Required: []string{"issue"},
		},
	}, s.handleTransitionIssue)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "list_metadata",
		Description: "List tracker metadata: visible projects, issue types, and issue link types. Use this before creating or linking issues to discover valid names.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleListMetadata)
}
