package metadata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"aniview/models"
	"aniview/services/fetch"
)

// Caller errors: the request named a view or weekday that does not exist,
// as opposed to an upstream failure.
var (
	ErrUnknownView = errors.New("unknown catalog view")
	ErrUnknownDay  = errors.New("unknown weekday")
)

// View selects a catalog feed.
type View string

const (
	ViewTrending View = "trending"
	ViewPopular  View = "popular"
	ViewTop      View = "top"
	ViewRecent   View = "recent"
	ViewAiring   View = "airing"
)

// SortKey selects the catalog result ordering. Numeric keys sort descending
// with absent values lowest; title sorts ascending. Empty keeps upstream
// order.
type SortKey string

const (
	SortNone    SortKey = ""
	SortScore   SortKey = "score"
	SortMembers SortKey = "members"
	SortTitle   SortKey = "title"
)

// episodeSource is the slice of the episode service this package consumes:
// the dependent episode listing for details, and the feeds backing the
// "recent" and "airing" catalog views.
type episodeSource interface {
	ListByTitle(ctx context.Context, title string) ([]models.EpisodeRef, error)
	Recent(ctx context.Context) ([]models.Anime, error)
	TopAiring(ctx context.Context) ([]models.Anime, error)
}

// Service resolves catalog views, schedules, details, search and reviews
// against the metadata service, bridging to the episode service where a view
// needs it.
type Service struct {
	jikan    *jikanClient
	episodes episodeSource

	limit    int
	dayDelay time.Duration
}

// NewService wires the metadata service. dayDelay is the inter-request pause
// of the weekly schedule fan-out; limit is the fixed catalog page size.
func NewService(fc *fetch.Client, baseURL string, eps episodeSource, limit int, dayDelay time.Duration) *Service {
	if limit <= 0 {
		limit = 20
	}
	return &Service{
		jikan:    newJikanClient(fc, baseURL),
		episodes: eps,
		limit:    limit,
		dayDelay: dayDelay,
	}
}

// Catalog resolves a view into a normalized, optionally re-sorted list.
func (s *Service) Catalog(ctx context.Context, view View, key SortKey) ([]models.Anime, error) {
	var (
		items []models.Anime
		err   error
	)
	switch view {
	case ViewTrending:
		items, err = s.jikan.topAnime(ctx, "airing", s.limit)
	case ViewPopular:
		items, err = s.jikan.seasonNow(ctx, s.limit)
	case ViewTop:
		items, err = s.jikan.topAnime(ctx, "", s.limit)
	case ViewRecent:
		items, err = s.episodes.Recent(ctx)
	case ViewAiring:
		items, err = s.episodes.TopAiring(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	if err != nil {
		return nil, err
	}
	SortAnime(items, key)
	return items, nil
}

// SortAnime orders items in place by the given key.
func SortAnime(items []models.Anime, key SortKey) {
	switch key {
	case SortScore:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ScoreValue() > items[j].ScoreValue()
		})
	case SortMembers:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Members > items[j].Members
		})
	case SortTitle:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		})
	}
}

// ScheduleForDay fetches one day's schedule grouped into time slots. Rows
// whose broadcast day does not match the requested day are excluded.
func (s *Service) ScheduleForDay(ctx context.Context, day string) ([]models.TimeSlot, error) {
	canonical := normalizeDay(day)
	if canonical == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	raw, err := s.jikan.scheduleDay(ctx, canonical)
	if err != nil {
		return nil, err
	}
	entries := make([]models.ScheduleEntry, 0, len(raw))
	for i := range raw {
		entryDay := normalizeDay(raw[i].Broadcast.Day)
		if entryDay != canonical {
			continue
		}
		entries = append(entries, models.ScheduleEntry{
			Anime:    raw[i].toAnime(),
			Day:      entryDay,
			Time:     raw[i].Broadcast.Time,
			Timezone: raw[i].Broadcast.Timezone,
		})
	}
	return GroupByTimeSlot(entries), nil
}

// WeeklySchedule fetches all seven days sequentially with an inter-request
// delay. The fan-out is deliberately serial: the metadata service rate-limits
// aggressively and a parallel burst turns into a 429 storm. A day that fails
// after retries degrades to an empty day instead of failing the week.
func (s *Service) WeeklySchedule(ctx context.Context) ([]models.DaySchedule, error) {
	week := make([]models.DaySchedule, 0, len(Days))
	for i, day := range Days {
		slots, err := s.ScheduleForDay(ctx, day)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[metadata] schedule fetch failed day=%s err=%v", day, err)
			slots = []models.TimeSlot{}
		}
		week = append(week, models.DaySchedule{Day: day, Slots: slots})

		if i < len(Days)-1 && s.dayDelay > 0 {
			select {
			case <-time.After(s.dayDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return week, nil
}

// Details performs the two-stage dependent fetch behind a details view:
// metadata by id, then the episode listing keyed by a slug derived from the
// title. Stage two cannot start before stage one returns the title. Episode
// lookup failures degrade to an empty list; the metadata must stay usable
// when the episode service is down or the slug has no match.
func (s *Service) Details(ctx context.Context, id int64) (*models.AnimeDetails, error) {
	raw, err := s.jikan.animeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details := raw.toDetails()

	eps, err := s.episodes.ListByTitle(ctx, details.Title)
	if err != nil {
		log.Printf("[metadata] episode listing failed id=%d title=%q err=%v", id, details.Title, err)
		eps = []models.EpisodeRef{}
	}
	details.EpisodeRefs = eps
	return &details, nil
}

// Reviews fetches user reviews for a title.
func (s *Service) Reviews(ctx context.Context, id int64) ([]models.Review, error) {
	return s.jikan.reviews(ctx, id)
}

// Random fetches one random title.
func (s *Service) Random(ctx context.Context) (*models.AnimeDetails, error) {
	raw, err := s.jikan.random(ctx)
	if err != nil {
		return nil, err
	}
	details := raw.toDetails()
	return &details, nil
}

// Search returns up to limit results for the quick-search dropdown.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []models.SearchResult{}, nil
	}
	results, _, err := s.jikan.search(ctx, q, 1, limit)
	return results, err
}

// SearchPage returns one page of the full search view with the
// server-reported last page.
func (s *Service) SearchPage(ctx context.Context, query string, page int) (*models.SearchPage, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return &models.SearchPage{Items: []models.SearchResult{}, Page: 1, LastVisible: 0}, nil
	}
	if page < 1 {
		page = 1
	}
	items, last, err := s.jikan.search(ctx, q, page, s.limit)
	if err != nil {
		return nil, err
	}
	return &models.SearchPage{Items: items, Page: page, LastVisible: last}, nil
}

// SearchRaw proxies the upstream search response verbatim.
func (s *Service) SearchRaw(ctx context.Context, query string) ([]byte, error) {
	return s.jikan.searchRaw(ctx, query)
}
