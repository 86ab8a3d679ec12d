package jira

import (
	"context"
	"time"
)

// Issue is a Jira issue with the fields the caller requested. Fields keeps
// the raw decoded JSON so rich-text values (ADF trees) survive untouched
// until they are rendered.
type Issue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// CreatedIssue is the minimal response Jira returns after issue creation.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// CreateIssueInput carries the fields for a new issue. Description is an ADF
// document (or nil). Extra custom fields pass through verbatim.
type CreateIssueInput struct {
	ProjectKey  string
	IssueType   string
	Summary     string
	Description any
	Labels      []string
	Fields      map[string]any
}

// IssueLink names the two issues and the link type for an issue link.
type IssueLink struct {
	Type       string
	InwardKey  string
	OutwardKey string
}

// Comment is a single issue comment. Body is the raw ADF tree.
type Comment struct {
	ID      string
	Author  string
	Created string
	Body    any
}

// Project is a simplified Jira project.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// IssueType is a simplified issue type.
type IssueType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Subtask     bool   `json:"subtask"`
}

// LinkType is an issue link type with its directional descriptions.
type LinkType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

// Transition is a workflow transition available on an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   string `json:"to"`
}

// SearchResult is a page of JQL search results.
type SearchResult struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}

// Client is the interface for interacting with Jira.
type Client interface {
	CreateIssue(ctx context.Context, input CreateIssueInput) (*CreatedIssue, error)
	GetIssue(ctx context.Context, key string, fields []string) (*Issue, error)
	UpdateIssue(ctx context.Context, key string, fields map[string]any) error
	DeleteIssue(ctx context.Context, key string) error
	LinkIssues(ctx context.Context, link IssueLink) error
	SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) (*SearchResult, error)
	AddComment(ctx context.Context, key string, body any) (*Comment, error)
	GetComments(ctx context.Context, key string, maxResults int) ([]Comment, error)
	ListProjects(ctx context.Context) ([]Project, error)
	ListIssueTypes(ctx context.Context) ([]IssueType, error)
	ListLinkTypes(ctx context.Context) ([]LinkType, error)
	ListTransitions(ctx context.Context, key string) ([]Transition, error)
	TransitionIssue(ctx context.Context, key, transitionID string) error
}

// Config holds the authentication and connection settings for Jira.
type Config struct {
	BaseURL string

	// Basic auth (Jira Cloud: email + API token)
	Email    string
	APIToken string

	// Personal Access Token; takes precedence over basic auth
	Token string

	// Performance settings
	RequestDelay time.Duration
}

// NewClient creates a new Jira client based on the provided configuration.
func NewClient(cfg Config) Client {
	return NewCloudClient(cfg)
}
