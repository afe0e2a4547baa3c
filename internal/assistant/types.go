// Package assistant bridges the dashboard to an analysis backend over
// HTTP and supplies a local rule-based analyzer when the backend is
// unreachable.
package assistant

// Item is a named value in the data context. Parent links programs to
// their portfolio; Budget/Spent are set for project items.
type Item struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Status string  `json:"status,omitempty"`
	Parent string  `json:"parent,omitempty"`
	Budget float64 `json:"budget,omitempty"`
	Spent  float64 `json:"spent,omitempty"`
}

// Timeline carries a project's schedule in RFC 3339 dates. Start or
// End may be empty when the source row lacked the date.
type Timeline struct {
	Project string `json:"project"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Status  string `json:"status"`
}

// Dependency is a directed relationship between two named entities.
type Dependency struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// DataContext is the snapshot of dashboard state sent with each query.
type DataContext struct {
	Portfolios   []Item       `json:"portfolios"`
	Programs     []Item       `json:"programs"`
	Projects     []Item       `json:"projects"`
	Budgets      []Item       `json:"budgets"`
	Timelines    []Timeline   `json:"timelines"`
	Dependencies []Dependency `json:"dependencies"`
}

// QueryRequest is the POST /api/llm/query body.
type QueryRequest struct {
	Query       string      `json:"query"`
	DataContext DataContext `json:"data_context"`
	CurrentView string      `json:"current_view"`
}

// QueryResponse is the backend's answer, also produced locally by
// Fallback when the backend is down.
type QueryResponse struct {
	Response        string                 `json:"response"`
	Insights        []string               `json:"insights"`
	Recommendations []string               `json:"recommendations"`
	DataSummary     map[string]interface{} `json:"data_summary"`
	Timestamp       string                 `json:"timestamp"`
}
