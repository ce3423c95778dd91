package models

// Image holds the poster URLs for a title.
type Image struct {
	URL   string `json:"url"`
	Large string `json:"large,omitempty"`
}

// Anime is the normalized catalog record used across all views. The two
// upstream services disagree on identifier type: the metadata service uses a
// numeric ID (MalID), the episode service a string slug-like ID (SourceID).
// At most one of the two is set depending on which service produced the record.
type Anime struct {
	MalID        int64    `json:"malId,omitempty"`
	SourceID     string   `json:"sourceId,omitempty"`
	Title        string   `json:"title"`
	TitleEnglish string   `json:"titleEnglish,omitempty"`
	Synonyms     []string `json:"synonyms,omitempty"`
	// Score and Episodes are pointers: absent upstream values must render
	// as absent, never as a real 0.
	Score    *float64 `json:"score,omitempty"`
	Members  int      `json:"members,omitempty"`
	Type     string   `json:"type,omitempty"`
	Episodes *int     `json:"episodes,omitempty"`
	Season   string   `json:"season,omitempty"`
	Year     int      `json:"year,omitempty"`
	Image    Image    `json:"image"`
}

// ScoreValue returns the score with absent treated as 0, the value used for
// all descending-score orderings.
func (a *Anime) ScoreValue() float64 {
	if a.Score == nil {
		return 0
	}
	return *a.Score
}

// AnimeDetails is the full record behind a details view, combined with the
// episode listing resolved from the independent episode service. Episodes may
// legitimately be empty when the slug lookup found no match.
type AnimeDetails struct {
	Anime
	Synopsis    string       `json:"synopsis,omitempty"`
	TrailerURL  string       `json:"trailerUrl,omitempty"`
	Rank        int          `json:"rank,omitempty"`
	Popularity  int          `json:"popularity,omitempty"`
	Status      string       `json:"status,omitempty"`
	Rating      string       `json:"rating,omitempty"`
	Duration    string       `json:"duration,omitempty"`
	Genres      []string     `json:"genres,omitempty"`
	Studios     []string     `json:"studios,omitempty"`
	EpisodeRefs []EpisodeRef `json:"episodeList"`
}

// Review is a single user review from the metadata service.
type Review struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Review   string `json:"review"`
	Date     string `json:"date,omitempty"`
}

// HomeBundle is the combined home-screen payload: the three headline rows
// fetched concurrently. A row whose upstream fetch failed is served empty
// rather than failing the whole bundle.
type HomeBundle struct {
	Trending []Anime `json:"trending"`
	Popular  []Anime `json:"popular"`
	Recent   []Anime `json:"recent"`
}
