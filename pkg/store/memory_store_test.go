package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Usmankh4/netflixclone/pkg/domain"
)

func seedCatalog(t *testing.T, m *MemoryStore, n int, mutate func(i int, v *domain.Video)) []domain.Video {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Video, 0, n)
	for i := 0; i < n; i++ {
		v := domain.Video{
			ID:          fmt.Sprintf("vid-%03d", i),
			Title:       fmt.Sprintf("Video %02d", i),
			Description: "catalog entry",
			Genres:      []string{"Drama"},
			Type:        domain.TypeMovie,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		if mutate != nil {
			mutate(i, &v)
		}
		if err := m.SaveVideo(v); err != nil {
			t.Fatalf("save video %d: %v", i, err)
		}
		out = append(out, v)
	}
	return out
}

func TestCreateAccountDuplicateExternalID(t *testing.T) {
	m := NewMemoryStore()
	a := domain.Account{ID: "a1", ExternalID: "idp-1"}
	if err := m.CreateAccount(a); err != nil {
		t.Fatalf("create account: %v", err)
	}
	dup := domain.Account{ID: "a2", ExternalID: "idp-1"}
	if err := m.CreateAccount(dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, ok, err := m.GetAccountByExternalID("idp-1")
	if err != nil || !ok || got.ID != "a1" {
		t.Fatalf("lookup = %+v ok=%v err=%v", got, ok, err)
	}
}

func TestListVideosOrderingAndPaging(t *testing.T) {
	m := NewMemoryStore()
	seedCatalog(t, m, 7, nil)

	page, total, err := m.ListVideos(CatalogFilter{Limit: 3, Page: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 7 {
		t.Fatalf("total = %d, want 7", total)
	}
	// Newest first.
	if page[0].ID != "vid-006" || page[2].ID != "vid-004" {
		t.Fatalf("page 1 order = %s..%s", page[0].ID, page[2].ID)
	}

	page, _, err = m.ListVideos(CatalogFilter{Limit: 3, Page: 3})
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(page) != 1 || page[0].ID != "vid-000" {
		t.Fatalf("page 3 = %+v", page)
	}

	// Offset past the end yields an empty page, not an error.
	page, total, err = m.ListVideos(CatalogFilter{Limit: 3, Page: 9})
	if err != nil || total != 7 || len(page) != 0 {
		t.Fatalf("past-end page = %v total=%d err=%v", page, total, err)
	}
}

func TestListVideosFilterComposition(t *testing.T) {
	m := NewMemoryStore()
	seedCatalog(t, m, 6, func(i int, v *domain.Video) {
		if i%2 == 0 {
			v.Type = domain.TypeSeries
			v.Genres = []string{"Comedy", "Drama"}
		}
		if i == 2 {
			v.Title = "The Grand Heist"
			v.IsOriginal = true
		}
	})

	_, total, err := m.ListVideos(CatalogFilter{Type: "SERIES", Genre: "Comedy"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("series+comedy total = %d, want 3", total)
	}

	videos, total, err := m.ListVideos(CatalogFilter{Type: "SERIES", Search: "grand", IsOriginal: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || videos[0].Title != "The Grand Heist" {
		t.Fatalf("composed filter = %+v total=%d", videos, total)
	}
}

func TestFavoritesUniqueness(t *testing.T) {
	m := NewMemoryStore()
	seedCatalog(t, m, 1, nil)

	if err := m.AddFavorite("p1", "vid-000"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.AddFavorite("p1", "vid-000"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	removed, err := m.RemoveFavorite("p1", "vid-000")
	if err != nil || !removed {
		t.Fatalf("remove = %v err=%v", removed, err)
	}
	removed, err = m.RemoveFavorite("p1", "vid-000")
	if err != nil || removed {
		t.Fatalf("second remove = %v err=%v", removed, err)
	}
}

func TestUpsertRatingRefreshesAggregates(t *testing.T) {
	m := NewMemoryStore()
	seedCatalog(t, m, 1, nil)
	now := time.Now().UTC()

	ratings := []domain.Rating{
		{ID: "r1", AccountID: "a1", VideoID: "vid-000", Value: 5, CreatedAt: now},
		{ID: "r2", AccountID: "a2", VideoID: "vid-000", Value: 1, CreatedAt: now},
		{ID: "r3", AccountID: "a1", VideoID: "vid-000", Value: 3, CreatedAt: now},
	}
	for _, r := range ratings {
		if err := m.UpsertRating(r); err != nil {
			t.Fatalf("upsert %s: %v", r.ID, err)
		}
	}

	video, ok, err := m.GetVideo("vid-000")
	if err != nil || !ok {
		t.Fatalf("get video: ok=%v err=%v", ok, err)
	}
	if video.TotalRatings != 2 {
		t.Fatalf("totalRatings = %d, want 2", video.TotalRatings)
	}
	if video.AverageRating != 2 {
		t.Fatalf("averageRating = %v, want 2", video.AverageRating)
	}
}

func TestDeleteProfileCascades(t *testing.T) {
	m := NewMemoryStore()
	seedCatalog(t, m, 2, nil)
	if err := m.CreateProfile(domain.Profile{ID: "p1", AccountID: "a1"}); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := m.AddFavorite("p1", "vid-000"); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	if err := m.UpsertWatchEntry(domain.WatchEntry{ID: "w1", ProfileID: "p1", VideoID: "vid-001", WatchedAt: time.Now()}); err != nil {
		t.Fatalf("upsert watch: %v", err)
	}

	if err := m.DeleteProfile("p1"); err != nil {
		t.Fatalf("delete profile: %v", err)
	}
	if _, ok, _ := m.GetProfile("p1"); ok {
		t.Fatal("profile should be gone")
	}
	if fav, _ := m.IsFavorite("p1", "vid-000"); fav {
		t.Fatal("favorite should be gone")
	}
	if entries, _ := m.ListWatchHistory("p1", 10); len(entries) != 0 {
		t.Fatalf("watch entries should be gone, got %d", len(entries))
	}
}

func TestListWatchHistoryOrderAndAttach(t *testing.T) {
	m := NewMemoryStore()
	seedCatalog(t, m, 3, nil)
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := domain.WatchEntry{
			ID:        fmt.Sprintf("w%d", i),
			ProfileID: "p1",
			VideoID:   fmt.Sprintf("vid-%03d", i),
			WatchedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := m.UpsertWatchEntry(entry); err != nil {
			t.Fatalf("upsert watch %d: %v", i, err)
		}
	}

	entries, err := m.ListWatchHistory("p1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].VideoID != "vid-002" {
		t.Fatalf("most recent first, got %s", entries[0].VideoID)
	}
	if entries[0].Video == nil || entries[0].Video.ID != "vid-002" {
		t.Fatal("expected attached video")
	}
}

func TestCatalogFilterPaging(t *testing.T) {
	f := CatalogFilter{}
	if f.PageSize() != DefaultPageSize || f.PageNumber() != 1 || f.Offset() != 0 {
		t.Fatalf("defaults: size=%d page=%d offset=%d", f.PageSize(), f.PageNumber(), f.Offset())
	}
	f = CatalogFilter{Limit: 5, Page: 3}
	if f.Offset() != 10 {
		t.Fatalf("offset = %d, want 10", f.Offset())
	}
}
