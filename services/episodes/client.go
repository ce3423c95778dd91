package episodes

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"

	"aniview/models"
	"aniview/services/fetch"
	"aniview/utils"
)

// Client talks to the episode/streaming-source service. It is keyed by title
// slug, independent of the metadata service and independently unreliable:
// callers must treat an empty episode list as a normal outcome.
type Client struct {
	fetch   *fetch.Client
	baseURL string
}

func NewClient(fc *fetch.Client, baseURL string) *Client {
	return &Client{fetch: fc, baseURL: strings.TrimRight(baseURL, "/")}
}

// infoResponse keeps episodes raw so a missing or non-list field degrades to
// an empty list instead of failing the whole details view.
type infoResponse struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Episodes json.RawMessage `json:"episodes"`
}

// ListByTitle resolves a metadata-service title to the episode listing by
// deriving the slug and querying the info endpoint.
func (c *Client) ListByTitle(ctx context.Context, title string) ([]models.EpisodeRef, error) {
	return c.Info(ctx, Slug(title))
}

// Info fetches the episode listing for a slug.
func (c *Client) Info(ctx context.Context, slug string) ([]models.EpisodeRef, error) {
	if slug == "" {
		return []models.EpisodeRef{}, nil
	}
	var resp infoResponse
	u := fmt.Sprintf("%s/info/%s", c.baseURL, url.PathEscape(slug))
	if err := c.fetch.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, err
	}

	if len(resp.Episodes) == 0 {
		log.Printf("[episodes] no episodes field for slug=%s", slug)
		return []models.EpisodeRef{}, nil
	}
	var eps []models.EpisodeRef
	if err := json.Unmarshal(resp.Episodes, &eps); err != nil {
		log.Printf("[episodes] episodes field not a list for slug=%s: %v", slug, err)
		return []models.EpisodeRef{}, nil
	}
	if eps == nil {
		eps = []models.EpisodeRef{}
	}
	return eps, nil
}

// Servers fetches the playable server list for an episode id. Server URLs
// occasionally arrive with raw spaces; they are re-encoded before use.
func (c *Client) Servers(ctx context.Context, episodeID string) ([]models.ServerRef, error) {
	if strings.TrimSpace(episodeID) == "" {
		return nil, fmt.Errorf("episode id is required")
	}
	var servers []models.ServerRef
	u := fmt.Sprintf("%s/servers/%s", c.baseURL, url.PathEscape(episodeID))
	if err := c.fetch.GetJSON(ctx, u, nil, &servers); err != nil {
		return nil, err
	}
	for i := range servers {
		if encoded, err := utils.EncodeURLWithSpaces(servers[i].URL); err == nil {
			servers[i].URL = encoded
		}
	}
	if servers == nil {
		servers = []models.ServerRef{}
	}
	return servers, nil
}

// catalogItem is the episode service's own catalog record shape, shared by
// the recent-episodes and top-airing feeds.
type catalogItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Image         string `json:"image"`
	EpisodeNumber int    `json:"episodeNumber"`
}

type catalogResponse struct {
	Results []catalogItem `json:"results"`
}

// Recent returns the recently released episodes feed as normalized records.
func (c *Client) Recent(ctx context.Context) ([]models.Anime, error) {
	return c.catalog(ctx, "recent-episodes")
}

// TopAiring returns the service's top-airing feed, the source of the
// home-screen carousel.
func (c *Client) TopAiring(ctx context.Context) ([]models.Anime, error) {
	return c.catalog(ctx, "top-airing")
}

func (c *Client) catalog(ctx context.Context, path string) ([]models.Anime, error) {
	var resp catalogResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/"+path, nil, &resp); err != nil {
		return nil, err
	}
	items := make([]models.Anime, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.ID == "" && r.Title == "" {
			continue
		}
		items = append(items, models.Anime{
			SourceID: r.ID,
			Title:    r.Title,
			Image:    models.Image{URL: r.Image},
		})
	}
	return items, nil
}
