package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"jira-mcp/internal/adf"
	"jira-mcp/internal/jira"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

// CreateIssueInput are the arguments of the create_issue tool.
type CreateIssueInput struct {
	Project     string   `json:"project"`
	IssueType   string   `json:"issue_type"`
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// GetIssueInput are the arguments of the get_issue tool.
type GetIssueInput struct {
	Issue           string `json:"issue"`
	FieldSet        string `json:"field_set,omitempty"`
	IncludeComments bool   `json:"include_comments,omitempty"`
}

// UpdateIssueInput are the arguments of the update_issue tool.
type UpdateIssueInput struct {
	Issue       string   `json:"issue"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// DeleteIssueInput are the arguments of the delete_issue tool.
type DeleteIssueInput struct {
	Issue string `json:"issue"`
}

// LinkIssuesInput are the arguments of the link_issues tool.
type LinkIssuesInput struct {
	InwardIssue  string `json:"inward_issue"`
	OutwardIssue string `json:"outward_issue"`
	LinkType     string `json:"link_type"`
}

// SearchIssuesInput are the arguments of the search_issues tool.
type SearchIssuesInput struct {
	JQL        string `json:"jql"`
	FieldSet   string `json:"field_set,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

// AddCommentInput are the arguments of the add_comment tool.
type AddCommentInput struct {
	Issue string `json:"issue"`
	Body  string `json:"body"`
}

// GetCommentsInput are the arguments of the get_comments tool.
type GetCommentsInput struct {
	Issue      string `json:"issue"`
	MaxResults int    `json:"max_results,omitempty"`
}

// TransitionIssueInput are the arguments of the transition_issue tool.
type TransitionIssueInput struct {
	Issue      string `json:"issue"`
	Transition string `json:"transition,omitempty"`
}

// ListMetadataInput are the arguments of the list_metadata tool.
type ListMetadataInput struct{}

func (s *Server) handleCreateIssue(ctx context.Context, req *sdk.CallToolRequest, in CreateIssueInput) (*sdk.CallToolResult, any, error) {
	input := jira.CreateIssueInput{
		ProjectKey: in.Project,
		IssueType:  in.IssueType,
		Summary:    in.Summary,
		Labels:     in.Labels,
	}
	if in.Description != "" {
		input.Description = adf.FromText(in.Description)
	}

	created, err := s.jira.CreateIssue(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("Created issue %s", created.Key)), nil, nil
}

func (s *Server) handleGetIssue(ctx context.Context, req *sdk.CallToolRequest, in GetIssueInput) (*sdk.CallToolResult, any, error) {
	fields := s.resolveFields(in.FieldSet)

	var issue *jira.Issue
	var comments []jira.Comment

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		issue, err = s.jira.GetIssue(gctx, in.Issue, fields)
		return err
	})
	if in.IncludeComments {
		g.Go(func() error {
			var err error
			comments, err = s.jira.GetComments(gctx, in.Issue, 0)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := map[string]any{
		"key":    issue.Key,
		"fields": renderRichTextFields(issue.Fields),
	}
	if in.IncludeComments {
		out["comments"] = renderComments(comments)
	}
	return textResult(formatResult(out)), nil, nil
}

func (s *Server) handleUpdateIssue(ctx context.Context, req *sdk.CallToolRequest, in UpdateIssueInput) (*sdk.CallToolResult, any, error) {
	fields := map[string]any{}
	if in.Summary != "" {
		fields["summary"] = in.Summary
	}
	if in.Description != "" {
		fields["description"] = adf.FromText(in.Description)
	}
	if in.Labels != nil {
		fields["labels"] = in.Labels
	}
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("nothing to update: provide summary, description or labels")
	}

	if err := s.jira.UpdateIssue(ctx, in.Issue, fields); err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("Updated issue %s", in.Issue)), nil, nil
}

func (s *Server) handleDeleteIssue(ctx context.Context, req *sdk.CallToolRequest, in DeleteIssueInput) (*sdk.CallToolResult, any, error) {
	if err := s.jira.DeleteIssue(ctx, in.Issue); err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("Deleted issue %s", in.Issue)), nil, nil
}

func (s *Server) handleLinkIssues(ctx context.Context, req *sdk.CallToolRequest, in LinkIssuesInput) (*sdk.CallToolResult, any, error) {
	link := jira.IssueLink{
		Type:       in.LinkType,
		InwardKey:  in.InwardIssue,
		OutwardKey: in.OutwardIssue,
	}
	if err := s.jira.LinkIssues(ctx, link); err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("Linked %s -> %s (%s)", in.InwardIssue, in.OutwardIssue, in.LinkType)), nil, nil
}

func (s *Server) handleSearchIssues(ctx context.Context, req *sdk.CallToolRequest, in SearchIssuesInput) (*sdk.CallToolResult, any, error) {
	result, err := s.jira.SearchIssues(ctx, in.JQL, s.resolveFields(in.FieldSet), in.MaxResults)
	if err != nil {
		return nil, nil, err
	}

	issues := make([]map[string]any, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, map[string]any{
			"key":    issue.Key,
			"fields": renderRichTextFields(issue.Fields),
		})
	}
	return textResult(formatResult(map[string]any{
		"total":  result.Total,
		"issues": issues,
	})), nil, nil
}

func (s *Server) handleAddComment(ctx context.Context, req *sdk.CallToolRequest, in AddCommentInput) (*sdk.CallToolResult, any, error) {
	comment, err := s.jira.AddComment(ctx, in.Issue, adf.FromText(in.Body))
	if err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("Added comment %s to %s", comment.ID, in.Issue)), nil, nil
}

func (s *Server) handleGetComments(ctx context.Context, req *sdk.CallToolRequest, in GetCommentsInput) (*sdk.CallToolResult, any, error) {
	comments, err := s.jira.GetComments(ctx, in.Issue, in.MaxResults)
	if err != nil {
		return nil, nil, err
	}
	return textResult(formatResult(renderComments(comments))), nil, nil
}

func (s *Server) handleTransitionIssue(ctx context.Context, req *sdk.CallToolRequest, in TransitionIssueInput) (*sdk.CallToolResult, any, error) {
	transitions, err := s.jira.ListTransitions(ctx, in.Issue)
	if err != nil {
		return nil, nil, err
	}

	if in.Transition == "" {
		return textResult(formatResult(transitions)), nil, nil
	}

	var match *jira.Transition
	for i, t := range transitions {
		if t.ID == in.Transition || strings.EqualFold(t.Name, in.Transition) {
			match = &transitions[i]
			break
		}
	}
	if match == nil {
		names := make([]string, 0, len(transitions))
		for _, t := range transitions {
			names = append(names, t.Name)
		}
		return nil, nil, fmt.Errorf("transition %q not available for %s (available: %s)", in.Transition, in.Issue, strings.Join(names, ", "))
	}

	if err := s.jira.TransitionIssue(ctx, in.Issue, match.ID); err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("Transitioned %s to %s", in.Issue, match.To)), nil, nil
}

func (s *Server) handleListMetadata(ctx context.Context, req *sdk.CallToolRequest, in ListMetadataInput) (*sdk.CallToolResult, any, error) {
	var projects []jira.Project
	var issueTypes []jira.IssueType
	var linkTypes []jira.LinkType

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = s.jira.ListProjects(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		issueTypes, err = s.jira.ListIssueTypes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		linkTypes, err = s.jira.ListLinkTypes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return textResult(formatResult(map[string]any{
		"projects":    projects,
		"issue_types": issueTypes,
		"link_types":  linkTypes,
	})), nil, nil
}

// resolveFields picks the configured default when the tool call does not name
// a field set. Unknown names fall back to navigable inside ResolveFieldSet.
func (s *Server) resolveFields(fieldSet string) []string {
	if fieldSet == "" {
		fieldSet = s.defaultFieldSet
	}
	return jira.ResolveFieldSet(fieldSet)
}

// renderRichTextFields returns a copy of the field map with rich-text values
// replaced by their Markdown rendering.
func renderRichTextFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	if desc, ok := out["description"]; ok {
		out["description"] = adf.ToMarkdown(desc)
	}
	return out
}

func renderComments(comments []jira.Comment) []map[string]any {
	out := make([]map[string]any, 0, len(comments))
	for _, c := range comments {
		out = append(out, map[string]any{
			"id":      c.ID,
			"author":  c.Author,
			"created": c.Created,
			"body":    adf.ToMarkdown(c.Body),
		})
	}
	return out
}

func formatResult(data any) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}

func textResult(text string) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}
}
