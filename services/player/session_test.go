package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"aniview/models"
)

// blockingResolver resolves each episode's server fetch only when the test
// says so, making selection races deterministic.
type blockingResolver struct {
	mu      sync.Mutex
	pending map[string]chan []models.ServerRef
	started chan string
}

func newBlockingResolver() *blockingResolver {
	return &blockingResolver{
		pending: make(map[string]chan []models.ServerRef),
		started: make(chan string, 16),
	}
}

func (b *blockingResolver) Servers(_ context.Context, episodeID string) ([]models.ServerRef, error) {
	ch := make(chan []models.ServerRef, 1)
	b.mu.Lock()
	b.pending[episodeID] = ch
	b.mu.Unlock()
	b.started <- episodeID
	return <-ch, nil
}

func (b *blockingResolver) resolve(episodeID string, servers []models.ServerRef) {
	b.mu.Lock()
	ch := b.pending[episodeID]
	b.mu.Unlock()
	ch <- servers
}

func (b *blockingResolver) awaitStart(t *testing.T, episodeID string) {
	t.Helper()
	select {
	case got := <-b.started:
		require.Equal(t, episodeID, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("server fetch for %s never started", episodeID)
	}
}

func awaitServers(t *testing.T, s *Session) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := s.Snapshot()
		if !snap.Loading {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("servers never loaded; snapshot: %+v", s.Snapshot())
	return Snapshot{}
}

func TestStaleEpisodeServersNeverShown(t *testing.T) {
	r := newBlockingResolver()
	s := NewSession(r)
	defer s.Close()

	epA := models.EpisodeRef{ID: "show-episode-1", Number: 1}
	epB := models.EpisodeRef{ID: "show-episode-2", Number: 2}

	s.SelectEpisode(context.Background(), epA)
	r.awaitStart(t, epA.ID)

	// Switch to B while A's fetch is still pending.
	s.SelectEpisode(context.Background(), epB)
	r.awaitStart(t, epB.ID)

	// The switch window shows loading, never A's (or any) servers.
	mid := s.Snapshot()
	require.True(t, mid.Loading)
	require.Empty(t, mid.Servers)
	require.Equal(t, epB.ID, mid.Episode.ID)

	r.resolve(epB.ID, []models.ServerRef{{Name: "B1", URL: "https://b.example/1"}})
	snap := awaitServers(t, s)
	require.Equal(t, "https://b.example/1", snap.Current)

	// A resolves late; it must be dropped regardless of resolution order.
	r.resolve(epA.ID, []models.ServerRef{{Name: "A1", URL: "https://a.example/1"}})
	time.Sleep(20 * time.Millisecond)

	final := s.Snapshot()
	require.Equal(t, epB.ID, final.Episode.ID)
	require.Len(t, final.Servers, 1)
	require.Equal(t, "B1", final.Servers[0].Name)
	require.Equal(t, "https://b.example/1", final.Current)
}

func TestFirstServerBecomesCurrentAndSwitchIsLocal(t *testing.T) {
	r := newBlockingResolver()
	s := NewSession(r)
	defer s.Close()

	ep := models.EpisodeRef{ID: "show-episode-1", Number: 1}
	s.SelectEpisode(context.Background(), ep)
	r.awaitStart(t, ep.ID)
	r.resolve(ep.ID, []models.ServerRef{
		{Name: "Main", URL: "https://main.example"},
		{Name: "Backup", URL: "https://backup.example"},
	})

	snap := awaitServers(t, s)
	require.Equal(t, "https://main.example", snap.Current, "first server is the default selection")

	require.NoError(t, s.SelectServer("https://backup.example"))
	require.Equal(t, "https://backup.example", s.Snapshot().Current)

	require.Error(t, s.SelectServer("https://unknown.example"))
}

func TestClosedSessionIgnoresLateResults(t *testing.T) {
	r := newBlockingResolver()
	s := NewSession(r)

	ep := models.EpisodeRef{ID: "show-episode-1", Number: 1}
	s.SelectEpisode(context.Background(), ep)
	r.awaitStart(t, ep.ID)

	s.Close()
	r.resolve(ep.ID, []models.ServerRef{{Name: "Main", URL: "https://main.example"}})
	time.Sleep(20 * time.Millisecond)

	require.Empty(t, s.Snapshot().Servers, "unmounted view must not receive results")
}

type errResolver struct{}

func (errResolver) Servers(context.Context, string) ([]models.ServerRef, error) {
	return nil, context.DeadlineExceeded
}

func TestResolverErrorSurfacesInState(t *testing.T) {
	s := NewSession(errResolver{})
	defer s.Close()

	s.SelectEpisode(context.Background(), models.EpisodeRef{ID: "show-episode-1"})
	snap := awaitServers(t, s)
	require.Error(t, snap.Err)
	require.Empty(t, snap.Servers)
}
