package jira

// issueDTO is a single issue as it appears in Jira responses.
type issueDTO struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// searchResponseDTO is the top-level container for JQL search results.
type searchResponseDTO struct {
	Total  int        `json:"total"`
	Issues []issueDTO `json:"issues"`
}

// commentDTO is a single comment in the comments listing. Body stays as
// decoded JSON because it is an ADF tree of arbitrary depth.
type commentDTO struct {
	ID     string `json:"id"`
	Author struct {
		DisplayName string `json:"displayName"`
	} `json:"author"`
	Created string `json:"created"`
	Body    any    `json:"body"`
}

// commentsResponseDTO is the paginated comments container.
type commentsResponseDTO struct {
	Comments []commentDTO `json:"comments"`
	Total    int          `json:"total"`
}

// projectSearchResponseDTO wraps the paginated /project/search values.
type projectSearchResponseDTO struct {
	Values []Project `json:"values"`
}

// transitionDTO is a workflow transition entry.
type transitionDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   struct {
		Name string `json:"name"`
	} `json:"to"`
}

// transitionsResponseDTO wraps the transitions listing.
type transitionsResponseDTO struct {
	Transitions []transitionDTO `json:"transitions"`
}

// errorResponseDTO is Jira's standard error body.
type errorResponseDTO struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
