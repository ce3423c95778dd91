package metadata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"aniview/models"
	"aniview/services/fetch"
)

// jikanClient wraps the metadata service's read endpoints. All transport
// behavior (retries, 429 handling, timeouts) lives in the fetch client.
type jikanClient struct {
	fetch   *fetch.Client
	baseURL string
}

func newJikanClient(fc *fetch.Client, baseURL string) *jikanClient {
	return &jikanClient{fetch: fc, baseURL: strings.TrimRight(baseURL, "/")}
}

type jikanNamed struct {
	Name string `json:"name"`
}

type jikanImages struct {
	JPG struct {
		ImageURL      string `json:"image_url"`
		LargeImageURL string `json:"large_image_url"`
	} `json:"jpg"`
}

type jikanAnime struct {
	MalID         int64        `json:"mal_id"`
	Title         string       `json:"title"`
	TitleEnglish  string       `json:"title_english"`
	TitleSynonyms []string     `json:"title_synonyms"`
	Score         *float64     `json:"score"`
	Members       int          `json:"members"`
	Rank          int          `json:"rank"`
	Popularity    int          `json:"popularity"`
	Type          string       `json:"type"`
	Episodes      *int         `json:"episodes"`
	Status        string       `json:"status"`
	Rating        string       `json:"rating"`
	Duration      string       `json:"duration"`
	Season        string       `json:"season"`
	Year          int          `json:"year"`
	Synopsis      string       `json:"synopsis"`
	Genres        []jikanNamed `json:"genres"`
	Studios       []jikanNamed `json:"studios"`
	Images        jikanImages  `json:"images"`
	Trailer       struct {
		EmbedURL string `json:"embed_url"`
	} `json:"trailer"`
	Broadcast struct {
		Day      string `json:"day"`
		Time     string `json:"time"`
		Timezone string `json:"timezone"`
	} `json:"broadcast"`
	Aired struct {
		From string `json:"from"`
	} `json:"aired"`
}

type jikanPagination struct {
	LastVisiblePage int `json:"last_visible_page"`
}

type jikanListResponse struct {
	Data       []jikanAnime    `json:"data"`
	Pagination jikanPagination `json:"pagination"`
}

type jikanItemResponse struct {
	Data jikanAnime `json:"data"`
}

func (a *jikanAnime) toAnime() models.Anime {
	return models.Anime{
		MalID:        a.MalID,
		Title:        a.Title,
		TitleEnglish: a.TitleEnglish,
		Synonyms:     a.TitleSynonyms,
		Score:        a.Score,
		Members:      a.Members,
		Type:         a.Type,
		Episodes:     a.Episodes,
		Season:       a.Season,
		Year:         a.Year,
		Image: models.Image{
			URL:   a.Images.JPG.ImageURL,
			Large: a.Images.JPG.LargeImageURL,
		},
	}
}

func (a *jikanAnime) toDetails() models.AnimeDetails {
	d := models.AnimeDetails{
		Anime:      a.toAnime(),
		Synopsis:   a.Synopsis,
		TrailerURL: a.Trailer.EmbedURL,
		Rank:       a.Rank,
		Popularity: a.Popularity,
		Status:     a.Status,
		Rating:     a.Rating,
		Duration:   a.Duration,
		EpisodeRefs: []models.EpisodeRef{},
	}
	for _, g := range a.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	for _, s := range a.Studios {
		d.Studios = append(d.Studios, s.Name)
	}
	return d
}

func toAnimeList(raw []jikanAnime) []models.Anime {
	items := make([]models.Anime, 0, len(raw))
	for i := range raw {
		items = append(items, raw[i].toAnime())
	}
	return items
}

func (c *jikanClient) topAnime(ctx context.Context, filter string, limit int) ([]models.Anime, error) {
	params := url.Values{"limit": []string{strconv.Itoa(limit)}}
	if filter != "" {
		params.Set("filter", filter)
	}
	var resp jikanListResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/top/anime", params, &resp); err != nil {
		return nil, err
	}
	return toAnimeList(resp.Data), nil
}

func (c *jikanClient) seasonNow(ctx context.Context, limit int) ([]models.Anime, error) {
	params := url.Values{"limit": []string{strconv.Itoa(limit)}}
	var resp jikanListResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/seasons/now", params, &resp); err != nil {
		return nil, err
	}
	return toAnimeList(resp.Data), nil
}

// scheduleDay returns the raw schedule rows for one weekday. The caller
// filters out rows whose broadcast day does not actually match.
func (c *jikanClient) scheduleDay(ctx context.Context, day string) ([]jikanAnime, error) {
	var resp jikanListResponse
	u := fmt.Sprintf("%s/schedules/%s", c.baseURL, url.PathEscape(day))
	if err := c.fetch.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *jikanClient) animeByID(ctx context.Context, id int64) (*jikanAnime, error) {
	var resp jikanItemResponse
	u := fmt.Sprintf("%s/anime/%d", c.baseURL, id)
	if err := c.fetch.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *jikanClient) random(ctx context.Context) (*jikanAnime, error) {
	var resp jikanItemResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/random/anime", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

type jikanReview struct {
	User struct {
		Username string `json:"username"`
	} `json:"user"`
	Score  int    `json:"score"`
	Review string `json:"review"`
	Date   string `json:"date"`
}

func (c *jikanClient) reviews(ctx context.Context, id int64) ([]models.Review, error) {
	var resp struct {
		Data []jikanReview `json:"data"`
	}
	u := fmt.Sprintf("%s/anime/%d/reviews", c.baseURL, id)
	if err := c.fetch.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Review, 0, len(resp.Data))
	for _, r := range resp.Data {
		out = append(out, models.Review{
			Username: r.User.Username,
			Score:    r.Score,
			Review:   r.Review,
			Date:     r.Date,
		})
	}
	return out, nil
}

func (c *jikanClient) search(ctx context.Context, query string, page, limit int) ([]models.SearchResult, int, error) {
	params := url.Values{
		"q":     []string{query},
		"limit": []string{strconv.Itoa(limit)},
	}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	var resp struct {
		Data       []jikanAnime    `json:"data"`
		Pagination jikanPagination `json:"pagination"`
	}
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/anime", params, &resp); err != nil {
		return nil, 0, err
	}
	results := make([]models.SearchResult, 0, len(resp.Data))
	for _, d := range resp.Data {
		year := d.Year
		if year == 0 && len(d.Aired.From) >= 4 {
			if y, err := strconv.Atoi(d.Aired.From[:4]); err == nil {
				year = y
			}
		}
		results = append(results, models.SearchResult{
			MalID:    d.MalID,
			Title:    d.Title,
			ImageURL: d.Images.JPG.ImageURL,
			Year:     year,
		})
	}
	return results, resp.Pagination.LastVisiblePage, nil
}

// searchRaw proxies the search endpoint verbatim for the pass-through route.
func (c *jikanClient) searchRaw(ctx context.Context, query string) ([]byte, error) {
	params := url.Values{"q": []string{query}}
	return c.fetch.GetRaw(ctx, c.baseURL+"/anime", params)
}
