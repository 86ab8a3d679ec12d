package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type cloudClient struct {
	cfg        Config
	httpClient *http.Client

	// Tool handlers fan requests out from concurrent goroutines, so the
	// throttle state needs its own lock.
	throttleMutex sync.Mutex
	lastRequest   time.Time

	// Session cache for metadata endpoints
	cache      map[string]*cacheEntry
	cacheMutex sync.RWMutex
}

type cacheEntry struct {
	Value       any
	Expiration  time.Time
	AccessCount int
	OriginalTTL time.Duration
}

// NewCloudClient creates a Jira Cloud REST v3 client.
func NewCloudClient(cfg Config) Client {
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = 250 * time.Millisecond
	}
	return &cloudClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cache: make(map[string]*cacheEntry),
	}
}

func (c *cloudClient) getFromCache(key string) (any, bool) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")

	if time.Now().After(entry.Expiration) {
		delete(c.cache, key)
		return nil, false
	}

	// Sliding window extension
	if entry.AccessCount < 6 {
		entry.Expiration = time.Now().Add(entry.OriginalTTL)
		entry.AccessCount++
		log.Trace().Str("key", key).Int("count", entry.AccessCount).Msg("Extended cache TTL")
	}

	return entry.Value, true
}

func (c *cloudClient) addToCache(key string, value any, ttl time.Duration) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = &cacheEntry{
		Value:       value,
		Expiration:  time.Now().Add(ttl),
		OriginalTTL: ttl,
		AccessCount: 1,
	}
	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("Added to cache")
}

func (c *cloudClient) throttle(isMetadata bool) {
	c.throttleMutex.Lock()
	defer c.throttleMutex.Unlock()

	// Metadata requests (projects, issue types, link types) are allowed to
	// burst sequentially so discovery flows are not artificially delayed.
	if isMetadata {
		c.lastRequest = time.Now()
		return
	}

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling Jira request")
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

func (c *cloudClient) authenticateRequest(req *http.Request) {
	// Prioritize Personal Access Token, fall back to basic auth.
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		return
	}
	if c.cfg.Email != "" || c.cfg.APIToken != "" {
		req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	}
}

// do performs one REST call against /rest/api/3 and decodes the response
// into out when out is non-nil.
func (c *cloudClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	reqURL := c.cfg.BaseURL + "/rest/api/3" + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.authenticateRequest(req)

	log.Debug().Str("method", method).Str("url", reqURL).Msg("Jira request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp, method, path)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Jira response for %s %s: %w", method, path, err)
	}
	return nil
}

func (c *cloudClient) statusError(resp *http.Response, method, path string) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("Jira authentication failed (%d). Please check your credentials.", resp.StatusCode)
	case http.StatusNotFound:
		return fmt.Errorf("Jira resource not found: %s %s", method, path)
	case http.StatusTooManyRequests:
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			return fmt.Errorf("Jira rate limit exceeded (429). Retry after %s seconds.", retryAfter)
		}
		return fmt.Errorf("Jira rate limit exceeded (429).")
	default:
		var errBody errorResponseDTO
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			msgs := errBody.ErrorMessages
			for field, msg := range errBody.Errors {
				msgs = append(msgs, field+": "+msg)
			}
			if len(msgs) > 0 {
				return fmt.Errorf("Jira API returned status %d: %s", resp.StatusCode, strings.Join(msgs, "; "))
			}
		}
		return fmt.Errorf("Jira API returned status %d for %s %s", resp.StatusCode, method, path)
	}
}

func (c *cloudClient) CreateIssue(ctx context.Context, input CreateIssueInput) (*CreatedIssue, error) {
	c.throttle(false)

	fields := map[string]any{
		"project":   map[string]string{"key": input.ProjectKey},
		"issuetype": map[string]string{"name": input.IssueType},
		"summary":   input.Summary,
	}
	if input.Description != nil {
		fields["description"] = input.Description
	}
	if len(input.Labels) > 0 {
		fields["labels"] = input.Labels
	}
	for k, v := range input.Fields {
		fields[k] = v
	}

	log.Info().Str("project", input.ProjectKey).Str("type", input.IssueType).Msg("Creating Jira issue")

	var created CreatedIssue
	if err := c.do(ctx, http.MethodPost, "/issue", nil, map[string]any{"fields": fields}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *cloudClient) GetIssue(ctx context.Context, key string, fields []string) (*Issue, error) {
	c.throttle(false)

	params := url.Values{}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	var dto issueDTO
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key), params, nil, &dto); err != nil {
		return nil, err
	}
	return &Issue{ID: dto.ID, Key: dto.Key, Fields: dto.Fields}, nil
}

func (c *cloudClient) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	c.throttle(false)

	log.Info().Str("key", key).Int("fields", len(fields)).Msg("Updating Jira issue")
	return c.do(ctx, http.MethodPut, "/issue/"+url.PathEscape(key), nil, map[string]any{"fields": fields}, nil)
}

func (c *cloudClient) DeleteIssue(ctx context.Context, key string) error {
	c.throttle(false)

	log.Info().Str("key", key).Msg("Deleting Jira issue")
	return c.do(ctx, http.MethodDelete, "/issue/"+url.PathEscape(key), nil, nil, nil)
}

func (c *cloudClient) LinkIssues(ctx context.Context, link IssueLink) error {
	c.throttle(false)

	body := map[string]any{
		"type":         map[string]string{"name": link.Type},
		"inwardIssue":  map[string]string{"key": link.InwardKey},
		"outwardIssue": map[string]string{"key": link.OutwardKey},
	}
	log.Info().Str("inward", link.InwardKey).Str("outward", link.OutwardKey).Str("type", link.Type).Msg("Linking Jira issues")
	return c.do(ctx, http.MethodPost, "/issueLink", nil, body, nil)
}

func (c *cloudClient) SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) (*SearchResult, error) {
	c.throttle(false)

	if maxResults <= 0 {
		maxResults = 50
	}
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("maxResults", strconv.Itoa(maxResults))
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	log.Info().Msg("Searching Jira issues")
	log.Debug().Str("jql", jql).Msg("Jira search details")

	var dto searchResponseDTO
	if err := c.do(ctx, http.MethodGet, "/search/jql", params, nil, &dto); err != nil {
		return nil, err
	}

	result := &SearchResult{Total: dto.Total, Issues: make([]Issue, 0, len(dto.Issues))}
	for _, item := range dto.Issues {
		result.Issues = append(result.Issues, Issue{ID: item.ID, Key: item.Key, Fields: item.Fields})
	}
	return result, nil
}

func (c *cloudClient) AddComment(ctx context.Context, key string, body any) (*Comment, error) {
	c.throttle(false)

	log.Info().Str("key", key).Msg("Adding Jira comment")

	var dto commentDTO
	if err := c.do(ctx, http.MethodPost, "/issue/"+url.PathEscape(key)+"/comment", nil, map[string]any{"body": body}, &dto); err != nil {
		return nil, err
	}
	return &Comment{ID: dto.ID, Author: dto.Author.DisplayName, Created: dto.Created, Body: dto.Body}, nil
}

func (c *cloudClient) GetComments(ctx context.Context, key string, maxResults int) ([]Comment, error) {
	c.throttle(false)

	if maxResults <= 0 {
		maxResults = 50
	}
	params := url.Values{}
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("orderBy", "created")

	var dto commentsResponseDTO
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key)+"/comment", params, nil, &dto); err != nil {
		return nil, err
	}

	comments := make([]Comment, 0, len(dto.Comments))
	for _, item := range dto.Comments {
		comments = append(comments, Comment{ID: item.ID, Author: item.Author.DisplayName, Created: item.Created, Body: item.Body})
	}
	return comments, nil
}

func (c *cloudClient) ListProjects(ctx context.Context) ([]Project, error) {
	const cacheKey = "projects"
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]Project), nil
	}

	c.throttle(true)

	params := url.Values{}
	params.Set("maxResults", "100")

	var dto projectSearchResponseDTO
	if err := c.do(ctx, http.MethodGet, "/project/search", params, nil, &dto); err != nil {
		return nil, err
	}

	c.addToCache(cacheKey, dto.Values, 5*time.Minute)
	return dto.Values, nil
}

func (c *cloudClient) ListIssueTypes(ctx context.Context) ([]IssueType, error) {
	const cacheKey = "issue_types"
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]IssueType), nil
	}

	c.throttle(true)

	var types []IssueType
	if err := c.do(ctx, http.MethodGet, "/issuetype", nil, nil, &types); err != nil {
		return nil, err
	}

	c.addToCache(cacheKey, types, 5*time.Minute)
	return types, nil
}

func (c *cloudClient) ListLinkTypes(ctx context.Context) ([]LinkType, error) {
	const cacheKey = "link_types"
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]LinkType), nil
	}

	c.throttle(true)

	var dto struct {
		IssueLinkTypes []LinkType `json:"issueLinkTypes"`
	}
	if err := c.do(ctx, http.MethodGet, "/issueLinkType", nil, nil, &dto); err != nil {
		return nil, err
	}

	c.addToCache(cacheKey, dto.IssueLinkTypes, 5*time.Minute)
	return dto.IssueLinkTypes, nil
}

func (c *cloudClient) ListTransitions(ctx context.Context, key string) ([]Transition, error) {
	c.throttle(true)

	var dto transitionsResponseDTO
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key)+"/transitions", nil, nil, &dto); err != nil {
		return nil, err
	}

	transitions := make([]Transition, 0, len(dto.Transitions))
	for _, item := range dto.Transitions {
		transitions = append(transitions, Transition{ID: item.ID, Name: item.Name, To: item.To.Name})
	}
	return transitions, nil
}

func (c *cloudClient) TransitionIssue(ctx context.Context, key, transitionID string) error {
	c.throttle(false)

	log.Info().Str("key", key).Str("transition", transitionID).Msg("Transitioning Jira issue")
	body := map[string]any{"transition": map[string]string{"id": transitionID}}
	return c.do(ctx, http.MethodPost, "/issue/"+url.PathEscape(key)+"/transitions", nil, body, nil)
}
