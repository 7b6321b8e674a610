package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Usmankh4/netflixclone/pkg/domain"
)

type favoriteEdge struct {
	profileID string
	videoID   string
	createdAt time.Time
}

// MemoryStore keeps all state in-process. It mirrors the semantics of the
// Postgres store (uniqueness constraints included) and backs the tests.
type MemoryStore struct {
	mu            sync.RWMutex
	accounts      map[string]domain.Account // key: account ID
	external      map[string]string         // external ID -> account ID
	subscriptions map[string]domain.Subscription
	profiles      map[string]domain.Profile
	videos        map[string]domain.Video
	favorites     []favoriteEdge
	watch         map[string]domain.WatchEntry // key: profileID|videoID
	ratings       map[string]domain.Rating     // key: accountID|videoID
	assets        map[string]domain.ImageAsset
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:      make(map[string]domain.Account),
		external:      make(map[string]string),
		subscriptions: make(map[string]domain.Subscription),
		profiles:      make(map[string]domain.Profile),
		videos:        make(map[string]domain.Video),
		watch:         make(map[string]domain.WatchEntry),
		ratings:       make(map[string]domain.Rating),
		assets:        make(map[string]domain.ImageAsset),
	}
}

func pairKey(a, b string) string { return a + "|" + b }

func (m *MemoryStore) CreateAccount(a domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.external[a.ExternalID]; exists {
		return ErrDuplicate
	}
	if _, exists := m.accounts[a.ID]; exists {
		return ErrDuplicate
	}
	m.accounts[a.ID] = a
	m.external[a.ExternalID] = a.ID
	return nil
}

func (m *MemoryStore) GetAccountByExternalID(externalID string) (domain.Account, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.external[externalID]
	if !ok {
		return domain.Account{}, false, nil
	}
	a, ok := m.accounts[id]
	return a, ok, nil
}

func (m *MemoryStore) GetAccountByID(id string) (domain.Account, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	return a, ok, nil
}

func (m *MemoryStore) SaveSubscription(sub domain.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions[sub.AccountID] = sub
	return nil
}

func (m *MemoryStore) GetSubscriptionByAccount(accountID string) (domain.Subscription, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.subscriptions[accountID]
	return sub, ok, nil
}

func (m *MemoryStore) CreateProfile(p domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.profiles[p.ID]; exists {
		return ErrDuplicate
	}
	m.profiles[p.ID] = p
	return nil
}

func (m *MemoryStore) SaveProfile(p domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.profiles[p.ID]
	if !ok {
		return nil
	}
	prev.Name = p.Name
	prev.ImageURL = p.ImageURL
	prev.UpdatedAt = time.Now().UTC()
	m.profiles[p.ID] = prev
	return nil
}

func (m *MemoryStore) GetProfile(id string) (domain.Profile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	return p, ok, nil
}

func (m *MemoryStore) ListProfilesByAccount(accountID string) ([]domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Profile, 0)
	for _, p := range m.profiles {
		if p.AccountID == accountID {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (m *MemoryStore) CountProfilesByAccount(accountID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, p := range m.profiles {
		if p.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) DeleteProfile(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, id)
	filtered := m.favorites[:0]
	for _, e := range m.favorites {
		if e.profileID != id {
			filtered = append(filtered, e)
		}
	}
	m.favorites = filtered
	for key, entry := range m.watch {
		if entry.ProfileID == id {
			delete(m.watch, key)
		}
	}
	return nil
}

func (m *MemoryStore) SaveVideo(v domain.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[v.ID] = v
	return nil
}

func (m *MemoryStore) GetVideo(id string) (domain.Video, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.videos[id]
	return v, ok, nil
}

func (m *MemoryStore) ListVideos(filter CatalogFilter) ([]domain.Video, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := make([]domain.Video, 0)
	for _, v := range m.videos {
		if matchesCatalogFilter(v, filter) {
			matched = append(matched, v)
		}
	}
	sortVideosNewestFirst(matched)
	total := len(matched)
	offset := filter.Offset()
	if offset >= total {
		return []domain.Video{}, total, nil
	}
	end := offset + filter.PageSize()
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matchesCatalogFilter(v domain.Video, f CatalogFilter) bool {
	if f.Type != "" && string(v.Type) != f.Type {
		return false
	}
	if f.Genre != "" && !v.HasGenre(f.Genre) {
		return false
	}
	if f.Featured && !v.Featured {
		return false
	}
	if f.Trending && !v.Trending {
		return false
	}
	if f.IsOriginal && !v.IsOriginal {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(v.Title), needle) &&
			!strings.Contains(strings.ToLower(v.Description), needle) {
			return false
		}
	}
	return true
}

func sortVideosNewestFirst(videos []domain.Video) {
	sort.Slice(videos, func(i, j int) bool {
		if !videos[i].CreatedAt.Equal(videos[j].CreatedAt) {
			return videos[i].CreatedAt.After(videos[j].CreatedAt)
		}
		return videos[i].ID > videos[j].ID
	})
}

func (m *MemoryStore) ListFeatured(limit int) ([]domain.Video, error) {
	return m.listFlagged(limit, func(v domain.Video) bool { return v.Featured })
}

func (m *MemoryStore) ListTrending(limit int) ([]domain.Video, error) {
	return m.listFlagged(limit, func(v domain.Video) bool { return v.Trending })
}

func (m *MemoryStore) listFlagged(limit int, keep func(domain.Video) bool) ([]domain.Video, error) {
	if limit <= 0 {
		return []domain.Video{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Video, 0)
	for _, v := range m.videos {
		if keep(v) {
			res = append(res, v)
		}
	}
	sortVideosNewestFirst(res)
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (m *MemoryStore) AddFavorite(profileID, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.favorites {
		if e.profileID == profileID && e.videoID == videoID {
			return ErrDuplicate
		}
	}
	m.favorites = append(m.favorites, favoriteEdge{
		profileID: profileID,
		videoID:   videoID,
		createdAt: time.Now().UTC(),
	})
	return nil
}

func (m *MemoryStore) RemoveFavorite(profileID, videoID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.favorites {
		if e.profileID == profileID && e.videoID == videoID {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) IsFavorite(profileID, videoID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.favorites {
		if e.profileID == profileID && e.videoID == videoID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListFavorites(profileID string) ([]domain.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	edges := make([]favoriteEdge, 0)
	for _, e := range m.favorites {
		if e.profileID == profileID {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if !edges[i].createdAt.Equal(edges[j].createdAt) {
			return edges[i].createdAt.After(edges[j].createdAt)
		}
		return edges[i].videoID > edges[j].videoID
	})
	res := make([]domain.Video, 0, len(edges))
	for _, e := range edges {
		if v, ok := m.videos[e.videoID]; ok {
			res = append(res, v)
		}
	}
	return res, nil
}

func (m *MemoryStore) UpsertWatchEntry(e domain.WatchEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(e.ProfileID, e.VideoID)
	if prev, ok := m.watch[key]; ok {
		prev.Progress = e.Progress
		prev.Completed = e.Completed
		prev.WatchedAt = e.WatchedAt
		m.watch[key] = prev
		return nil
	}
	m.watch[key] = e
	return nil
}

func (m *MemoryStore) ListWatchHistory(profileID string, limit int) ([]domain.WatchEntry, error) {
	if limit <= 0 {
		return []domain.WatchEntry{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.WatchEntry, 0)
	for _, e := range m.watch {
		if e.ProfileID == profileID {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].WatchedAt.Equal(res[j].WatchedAt) {
			return res[i].WatchedAt.After(res[j].WatchedAt)
		}
		return res[i].ID > res[j].ID
	})
	if len(res) > limit {
		res = res[:limit]
	}
	for i := range res {
		if v, ok := m.videos[res[i].VideoID]; ok {
			video := v
			res[i].Video = &video
		}
	}
	return res, nil
}

func (m *MemoryStore) UpsertRating(r domain.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(r.AccountID, r.VideoID)
	if prev, ok := m.ratings[key]; ok {
		prev.Value = r.Value
		prev.Comment = r.Comment
		prev.UpdatedAt = r.UpdatedAt
		m.ratings[key] = prev
	} else {
		m.ratings[key] = r
	}
	video, ok := m.videos[r.VideoID]
	if !ok {
		return nil
	}
	sum, count := 0, 0
	for _, rating := range m.ratings {
		if rating.VideoID == r.VideoID {
			sum += rating.Value
			count++
		}
	}
	if count > 0 {
		video.AverageRating = float64(sum) / float64(count)
	} else {
		video.AverageRating = 0
	}
	video.TotalRatings = count
	m.videos[r.VideoID] = video
	return nil
}

func (m *MemoryStore) ListRatingsByVideo(videoID string) ([]domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Rating, 0)
	for _, r := range m.ratings {
		if r.VideoID == videoID {
			res = append(res, r)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (m *MemoryStore) SaveImageAsset(a domain.ImageAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.assets {
		if existing.Key == a.Key {
			return ErrDuplicate
		}
	}
	m.assets[a.ID] = a
	return nil
}

func (m *MemoryStore) GetImageAsset(id string) (domain.ImageAsset, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[id]
	return a, ok, nil
}
