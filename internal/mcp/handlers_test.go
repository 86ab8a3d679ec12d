package mcp

import (
	"context"
	"strings"
	"testing"

	"jira-mcp/internal/adf"
	"jira-mcp/internal/jira"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// fakeClient records calls and serves canned responses.
type fakeClient struct {
	createInput     *jira.CreateIssueInput
	updatedFields   map[string]any
	deletedKey      string
	link            *jira.IssueLink
	commentBody     any
	transitionedTo  string
	requestedFields []string

	issue       *jira.Issue
	comments    []jira.Comment
	transitions []jira.Transition
	searchRes   *jira.SearchResult
}

func (f *fakeClient) CreateIssue(_ context.Context, input jira.CreateIssueInput) (*jira.CreatedIssue, error) {
	f.createInput = &input
	return &jira.CreatedIssue{ID: "10001", Key: "PROJ-1"}, nil
}

func (f *fakeClient) GetIssue(_ context.Context, key string, fields []string) (*jira.Issue, error) {
	f.requestedFields = fields
	return f.issue, nil
}

func (f *fakeClient) UpdateIssue(_ context.Context, key string, fields map[string]any) error {
	f.updatedFields = fields
	return nil
}

func (f *fakeClient) DeleteIssue(_ context.Context, key string) error {
	f.deletedKey = key
	return nil
}

func (f *fakeClient) LinkIssues(_ context.Context, link jira.IssueLink) error {
	f.link = &link
	return nil
}

func (f *fakeClient) SearchIssues(_ context.Context, jql string, fields []string, maxResults int) (*jira.SearchResult, error) {
	f.requestedFields = fields
	return f.searchRes, nil
}

func (f *fakeClient) AddComment(_ context.Context, key string, body any) (*jira.Comment, error) {
	f.commentBody = body
	return &jira.Comment{ID: "2001"}, nil
}

func (f *fakeClient) GetComments(_ context.Context, key string, maxResults int) ([]jira.Comment, error) {
	return f.comments, nil
}

func (f *fakeClient) ListProjects(_ context.Context) ([]jira.Project, error) {
	return []jira.Project{{ID: "1", Key: "PROJ", Name: "Project"}}, nil
}

func (f *fakeClient) ListIssueTypes(_ context.Context) ([]jira.IssueType, error) {
	return []jira.IssueType{{ID: "3", Name: "Task"}}, nil
}

func (f *fakeClient) ListLinkTypes(_ context.Context) ([]jira.LinkType, error) {
	return []jira.LinkType{{ID: "5", Name: "Blocks", Inward: "is blocked by", Outward: "blocks"}}, nil
}

func (f *fakeClient) ListTransitions(_ context.Context, key string) ([]jira.Transition, error) {
	return f.transitions, nil
}

func (f *fakeClient) TransitionIssue(_ context.Context, key, transitionID string) error {
	f.transitionedTo = transitionID
	return nil
}

func newTestServer(fake *fakeClient) *Server {
	return &Server{jira: fake, defaultFieldSet: "navigable"}
}

func resultText(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestHandleCreateIssue_EncodesDescription(t *testing.T) {
	fake := &fakeClient{}
	s := newTestServer(fake)

	res, _, err := s.handleCreateIssue(context.Background(), nil, CreateIssueInput{
		Project:     "PROJ",
		IssueType:   "Task",
		Summary:     "Fix login",
		Description: "Steps\n\n- open app\n- log in",
	})
	if err != nil {
		t.Fatalf("handleCreateIssue: %v", err)
	}
	if !strings.Contains(resultText(t, res), "PROJ-1") {
		t.Errorf("result does not mention created key: %q", resultText(t, res))
	}

	doc, ok := fake.createInput.Description.(*adf.Node)
	if !ok {
		t.Fatalf("description was not encoded to ADF, got %T", fake.createInput.Description)
	}
	if doc.Type != "doc" || len(doc.Content) != 2 {
		t.Fatalf("unexpected doc shape: type=%q nodes=%d", doc.Type, len(doc.Content))
	}
	if doc.Content[0].Type != "heading" {
		t.Errorf("expected leading heading, got %q", doc.Content[0].Type)
	}
	if doc.Content[1].Type != "bulletList" {
		t.Errorf("expected bullet list, got %q", doc.Content[1].Type)
	}
}

func TestHandleCreateIssue_EmptyDescriptionOmitted(t *testing.T) {
	fake := &fakeClient{}
	s := newTestServer(fake)

	if _, _, err := s.handleCreateIssue(context.Background(), nil, CreateIssueInput{
		Project: "PROJ", IssueType: "Task", Summary: "No body",
	}); err != nil {
		t.Fatalf("handleCreateIssue: %v", err)
	}
	if fake.createInput.Description != nil {
		t.Errorf("expected nil description, got %v", fake.createInput.Description)
	}
}

func TestHandleGetIssue_RendersDescription(t *testing.T) {
	fake := &fakeClient{
		issue: &jira.Issue{
			Key: "PROJ-1",
			Fields: map[string]any{
				"summary": "Fix login",
				"description": map[string]any{
					"type":    "doc",
					"version": 1.0,
					"content": []any{
						map[string]any{
							"type": "paragraph",
							"content": []any{
								map[string]any{
									"type":  "text",
									"text":  "urgent",
									"marks": []any{map[string]any{"type": "strong"}},
								},
							},
						},
					},
				},
			},
		},
	}
	s := newTestServer(fake)

	res, _, err := s.handleGetIssue(context.Background(), nil, GetIssueInput{Issue: "PROJ-1"})
	if err != nil {
		t.Fatalf("handleGetIssue: %v", err)
	}

	text := resultText(t, res)
	if !strings.Contains(text, "**urgent**") {
		t.Errorf("description was not rendered to markdown: %q", text)
	}
	if len(fake.requestedFields) != 1 || fake.requestedFields[0] != "*navigable" {
		t.Errorf("default field set not applied, requested %v", fake.requestedFields)
	}
}

func TestHandleGetIssue_IncludeComments(t *testing.T) {
	fake := &fakeClient{
		issue: &jira.Issue{Key: "PROJ-1", Fields: map[string]any{"summary": "x"}},
		comments: []jira.Comment{
			{
				ID:     "2001",
				Author: "Dana",
				Body: map[string]any{
					"type": "doc",
					"content": []any{
						map[string]any{
							"type":    "paragraph",
							"content": []any{map[string]any{"type": "text", "text": "looks good"}},
						},
					},
				},
			},
		},
	}
	s := newTestServer(fake)

	res, _, err := s.handleGetIssue(context.Background(), nil, GetIssueInput{Issue: "PROJ-1", IncludeComments: true})
	if err != nil {
		t.Fatalf("handleGetIssue: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "looks good") {
		t.Errorf("comments missing from result: %q", text)
	}
}

func TestHandleGetIssue_FieldSetOverride(t *testing.T) {
	fake := &fakeClient{issue: &jira.Issue{Key: "PROJ-1"}}
	s := newTestServer(fake)

	if _, _, err := s.handleGetIssue(context.Background(), nil, GetIssueInput{Issue: "PROJ-1", FieldSet: "full"}); err != nil {
		t.Fatalf("handleGetIssue: %v", err)
	}
	if len(fake.requestedFields) != 1 || fake.requestedFields[0] != "*all" {
		t.Errorf("expected full field set, requested %v", fake.requestedFields)
	}
}

func TestHandleUpdateIssue(t *testing.T) {
	fake := &fakeClient{}
	s := newTestServer(fake)

	if _, _, err := s.handleUpdateIssue(context.Background(), nil, UpdateIssueInput{
		Issue:       "PROJ-1",
		Description: "- a\n- b",
	}); err != nil {
		t.Fatalf("handleUpdateIssue: %v", err)
	}

	doc, ok := fake.updatedFields["description"].(*adf.Node)
	if !ok {
		t.Fatalf("description was not encoded to ADF, got %T", fake.updatedFields["description"])
	}
	if doc.Content[0].Type != "bulletList" {
		t.Errorf("expected bulletList, got %q", doc.Content[0].Type)
	}
}

func TestHandleUpdateIssue_NoFields(t *testing.T) {
	s := newTestServer(&fakeClient{})

	if _, _, err := s.handleUpdateIssue(context.Background(), nil, UpdateIssueInput{Issue: "PROJ-1"}); err == nil {
		t.Fatal("expected error for empty update")
	}
}

func TestHandleAddComment_EncodesBody(t *testing.T) {
	fake := &fakeClient{}
	s := newTestServer(fake)

	if _, _, err := s.handleAddComment(context.Background(), nil, AddCommentInput{
		Issue: "PROJ-1",
		Body:  "1. first\n2. second",
	}); err != nil {
		t.Fatalf("handleAddComment: %v", err)
	}

	doc, ok := fake.commentBody.(*adf.Node)
	if !ok {
		t.Fatalf("comment body was not encoded to ADF, got %T", fake.commentBody)
	}
	if doc.Content[0].Type != "orderedList" {
		t.Errorf("expected orderedList, got %q", doc.Content[0].Type)
	}
}

func TestHandleTransitionIssue_MatchByName(t *testing.T) {
	fake := &fakeClient{
		transitions: []jira.Transition{
			{ID: "11", Name: "To Do", To: "To Do"},
			{ID: "21", Name: "In Progress", To: "In Progress"},
		},
	}
	s := newTestServer(fake)

	res, _, err := s.handleTransitionIssue(context.Background(), nil, TransitionIssueInput{
		Issue:      "PROJ-1",
		Transition: "in progress",
	})
	if err != nil {
		t.Fatalf("handleTransitionIssue: %v", err)
	}
	if fake.transitionedTo != "21" {
		t.Errorf("expected transition 21, got %q", fake.transitionedTo)
	}
	if !strings.Contains(resultText(t, res), "In Progress") {
		t.Errorf("result does not mention target status: %q", resultText(t, res))
	}
}

func TestHandleTransitionIssue_ListWhenOmitted(t *testing.T) {
	fake := &fakeClient{
		transitions: []jira.Transition{{ID: "11", Name: "To Do", To: "To Do"}},
	}
	s := newTestServer(fake)

	res, _, err := s.handleTransitionIssue(context.Background(), nil, TransitionIssueInput{Issue: "PROJ-1"})
	if err != nil {
		t.Fatalf("handleTransitionIssue: %v", err)
	}
	if fake.transitionedTo != "" {
		t.Error("should not transition when no target given")
	}
	if !strings.Contains(resultText(t, res), "To Do") {
		t.Errorf("expected transition listing, got %q", resultText(t, res))
	}
}

func TestHandleTransitionIssue_Unknown(t *testing.T) {
	fake := &fakeClient{
		transitions: []jira.Transition{{ID: "11", Name: "To Do", To: "To Do"}},
	}
	s := newTestServer(fake)

	_, _, err := s.handleTransitionIssue(context.Background(), nil, TransitionIssueInput{
		Issue:      "PROJ-1",
		Transition: "Done",
	})
	if err == nil {
		t.Fatal("expected error for unavailable transition")
	}
	if !strings.Contains(err.Error(), "To Do") {
		t.Errorf("error should list available transitions: %v", err)
	}
}

func TestHandleLinkIssues(t *testing.T) {
	fake := &fakeClient{}
	s := newTestServer(fake)

	if _, _, err := s.handleLinkIssues(context.Background(), nil, LinkIssuesInput{
		InwardIssue:  "PROJ-1",
		OutwardIssue: "PROJ-2",
		LinkType:     "Blocks",
	}); err != nil {
		t.Fatalf("handleLinkIssues: %v", err)
	}
	if fake.link == nil || fake.link.Type != "Blocks" || fake.link.InwardKey != "PROJ-1" {
		t.Errorf("unexpected link request: %+v", fake.link)
	}
}

func TestHandleSearchIssues_RendersDescriptions(t *testing.T) {
	fake := &fakeClient{
		searchRes: &jira.SearchResult{
			Total: 1,
			Issues: []jira.Issue{
				{
					Key: "PROJ-7",
					Fields: map[string]any{
						"summary": "Slow queries",
						"description": map[string]any{
							"type": "doc",
							"content": []any{
								map[string]any{
									"type":    "paragraph",
									"content": []any{map[string]any{"type": "text", "text": "investigate"}},
								},
							},
						},
					},
				},
			},
		},
	}
	s := newTestServer(fake)

	res, _, err := s.handleSearchIssues(context.Background(), nil, SearchIssuesInput{JQL: "project = PROJ"})
	if err != nil {
		t.Fatalf("handleSearchIssues: %v", err)
	}

	text := resultText(t, res)
	if !strings.Contains(text, "PROJ-7") || !strings.Contains(text, "investigate") {
		t.Errorf("search result incomplete: %q", text)
	}
	if len(fake.requestedFields) != 1 || fake.requestedFields[0] != "*navigable" {
		t.Errorf("default field set not applied, requested %v", fake.requestedFields)
	}
}

func TestHandleListMetadata(t *testing.T) {
	s := newTestServer(&fakeClient{})

	res, _, err := s.handleListMetadata(context.Background(), nil, ListMetadataInput{})
	if err != nil {
		t.Fatalf("handleListMetadata: %v", err)
	}

	text := resultText(t, res)
	for _, want := range []string{"PROJ", "Task", "Blocks"} {
		if !strings.Contains(text, want) {
			t.Errorf("metadata result missing %q: %q", want, text)
		}
	}
}
