package bridge

// CommandRequest defines the structure of the incoming JSON request from an
// assistant or automation client.
type CommandRequest struct {
	Command string                 `json:"command"`
	Params  map[string]interface{} `json:"params"`
}

// CommandResponse defines the structure of the outgoing JSON response.
type CommandResponse struct {
	Status string      `json:"status"` // "success" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// FixIssuesParams defines parameters for the "fix_issues" command.
type FixIssuesParams struct {
	// IssuesPath overrides the configured findings document.
	IssuesPath string `json:"issues_path,omitempty"`
}

// IssuesByFileParams defines parameters for the "issues_by_file" command.
type IssuesByFileParams struct {
	File       string `json:"file"`
	IssuesPath string `json:"issues_path,omitempty"`
}

// QueryParams defines parameters for the "query_findings" command.
type QueryParams struct {
	File string `json:"file"`
	// Limit restricts the number of results. Defaults to 50, max 500.
	Limit int `json:"limit,omitempty"`
}
