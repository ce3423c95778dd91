package models

// EpisodeRef identifies one playable episode on the episode service. ID is an
// opaque string; Number is the ordinal shown to the user. Ordinals are not
// guaranteed contiguous or unique upstream, so Number must never be used as a
// slice index.
type EpisodeRef struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title,omitempty"`
}

// ServerRef is one playable server entry for an episode.
type ServerRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
