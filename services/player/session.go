package player

import (
	"context"
	"fmt"
	"log"
	"sync"

	"aniview/models"
)

// ServerResolver fetches the playable server list for an episode.
type ServerResolver interface {
	Servers(ctx context.Context, episodeID string) ([]models.ServerRef, error)
}

// Snapshot is the watch view's presentation state. While a newly selected
// episode's servers are still loading, Servers is empty and Loading is true;
// the previous episode's servers are never visible in that window.
type Snapshot struct {
	Episode *models.EpisodeRef
	Servers []models.ServerRef
	Current string
	Loading bool
	Err     error
}

// Session is the state machine behind one watch view. Episode and server
// state live in sibling fields, so every episode selection bumps a generation
// counter and a resolved server list is applied only while its generation is
// still current. That closes the window where a slow fetch for a previously
// selected episode could land on the newly selected one.
type Session struct {
	resolver ServerResolver

	mu      sync.Mutex
	gen     uint64
	episode *models.EpisodeRef
	servers []models.ServerRef
	current string
	loading bool
	err     error
	closed  bool
}

func NewSession(resolver ServerResolver) *Session {
	return &Session{resolver: resolver}
}

// SelectEpisode switches the session to ep and resolves its server list in
// the background. Any in-flight resolution for a previously selected episode
// is orphaned. The first returned server becomes the current selection.
func (s *Session) SelectEpisode(ctx context.Context, ep models.EpisodeRef) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	token := s.gen
	epCopy := ep
	s.episode = &epCopy
	s.servers = nil
	s.current = ""
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	go s.resolve(ctx, token, ep)
}

func (s *Session) resolve(ctx context.Context, token uint64, ep models.EpisodeRef) {
	servers, err := s.resolver.Servers(ctx, ep.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.gen || s.closed {
		log.Printf("[player] dropping stale server list episode=%s gen=%d latest=%d", ep.ID, token, s.gen)
		return
	}
	s.loading = false
	if err != nil {
		s.err = err
		s.servers = []models.ServerRef{}
		return
	}
	if servers == nil {
		servers = []models.ServerRef{}
	}
	s.servers = servers
	if len(servers) > 0 {
		s.current = servers[0].URL
	}
}

// SelectServer switches the current server among the already loaded list.
// No network: the server list is not re-fetched on switch.
func (s *Session) SelectServer(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, srv := range s.servers {
		if srv.URL == url {
			s.current = url
			return nil
		}
	}
	return fmt.Errorf("server not in current list: %s", url)
}

// Snapshot returns the current watch state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Episode: s.episode,
		Servers: append([]models.ServerRef(nil), s.servers...),
		Current: s.current,
		Loading: s.loading,
		Err:     s.err,
	}
}

// Close invalidates the session; pending resolutions are discarded. Used when
// the watch view unmounts.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
