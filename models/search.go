package models

// SearchResult is one row of the quick-search dropdown or the full search
// page.
type SearchResult struct {
	MalID    int64  `json:"malId"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
	Year     int    `json:"year,omitempty"`
}

// SearchPage is one page of the full search view with the server-reported
// page count.
type SearchPage struct {
	Items       []SearchResult `json:"items"`
	Page        int            `json:"page"`
	LastVisible int            `json:"lastVisiblePage"`
}
