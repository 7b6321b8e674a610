package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Usmankh4/netflixclone/pkg/domain"
	"github.com/Usmankh4/netflixclone/pkg/storage"
	"github.com/Usmankh4/netflixclone/pkg/store"
)

func newTestApp(t *testing.T) (*App, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	a, err := New(Config{
		Store:  mem,
		Images: storage.NewMemoryImageStore("http://objects.test"),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, mem
}

func seedVideos(t *testing.T, a *App, n int, mutate func(i int, v *domain.Video)) []domain.Video {
	t.Helper()
	out := make([]domain.Video, 0, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		v := domain.Video{
			Title:       fmt.Sprintf("Video %02d", i),
			Description: "a test entry",
			DurationSec: 5400,
			Genres:      []string{"Drama"},
			Type:        domain.TypeMovie,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		if mutate != nil {
			mutate(i, &v)
		}
		saved, err := a.AddVideo(context.Background(), v)
		if err != nil {
			t.Fatalf("add video %d: %v", i, err)
		}
		out = append(out, saved)
	}
	return out
}

func TestEnsureAccountCreatesAccountAndDefaultProfile(t *testing.T) {
	a, _ := newTestApp(t)

	account, err := a.EnsureAccount("idp-user-1", "viewer@example.com", "Viewer")
	if err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	if account.ID == "" {
		t.Fatal("expected generated account id")
	}

	profiles, err := a.ListProfiles(account)
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 default profile, got %d", len(profiles))
	}
	if profiles[0].Name != "Default Profile" {
		t.Fatalf("default profile name = %q", profiles[0].Name)
	}
	if !strings.Contains(profiles[0].ImageURL, account.ID) {
		t.Fatalf("default avatar should reference account id, got %q", profiles[0].ImageURL)
	}

	// Second call resolves the same account without creating more profiles.
	again, err := a.EnsureAccount("idp-user-1", "viewer@example.com", "Viewer")
	if err != nil {
		t.Fatalf("ensure account again: %v", err)
	}
	if again.ID != account.ID {
		t.Fatalf("expected same account, got %s and %s", account.ID, again.ID)
	}
	profiles, _ = a.ListProfiles(account)
	if len(profiles) != 1 {
		t.Fatalf("expected still 1 profile, got %d", len(profiles))
	}
}

func TestProfileLimitByPlan(t *testing.T) {
	tests := []struct {
		name  string
		plan  domain.SubscriptionPlan
		limit int
	}{
		{"no subscription", "", 1},
		{"basic", domain.PlanBasic, 1},
		{"standard", domain.PlanStandard, 3},
		{"premium", domain.PlanPremium, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := newTestApp(t)
			account, err := a.EnsureAccount("idp-"+tc.name, "v@example.com", "V")
			if err != nil {
				t.Fatalf("ensure account: %v", err)
			}
			if tc.plan != "" {
				if _, err := a.SetSubscription(account.ID, tc.plan, domain.SubscriptionActive, time.Now().Add(24*time.Hour)); err != nil {
					t.Fatalf("set subscription: %v", err)
				}
			}
			// The default profile occupies one slot.
			for i := 1; i < tc.limit; i++ {
				if _, err := a.CreateProfile(account, fmt.Sprintf("Kid %d", i), ""); err != nil {
					t.Fatalf("create profile %d: %v", i, err)
				}
			}
			if _, err := a.CreateProfile(account, "One Too Many", ""); !errors.Is(err, ErrProfileLimit) {
				t.Fatalf("expected ErrProfileLimit, got %v", err)
			}
		})
	}
}

func TestInactiveSubscriptionFallsBackToSingleProfile(t *testing.T) {
	a, _ := newTestApp(t)
	account, _ := a.EnsureAccount("idp-canc", "v@example.com", "V")
	if _, err := a.SetSubscription(account.ID, domain.PlanPremium, domain.SubscriptionCanceled, time.Now()); err != nil {
		t.Fatalf("set subscription: %v", err)
	}
	if _, err := a.CreateProfile(account, "Second", ""); !errors.Is(err, ErrProfileLimit) {
		t.Fatalf("expected ErrProfileLimit for canceled plan, got %v", err)
	}
}

func TestProfileOwnershipGuard(t *testing.T) {
	a, _ := newTestApp(t)
	owner, _ := a.EnsureAccount("idp-owner", "o@example.com", "O")
	intruder, _ := a.EnsureAccount("idp-intruder", "i@example.com", "I")
	profiles, _ := a.ListProfiles(owner)

	if _, err := a.GetProfile(intruder, profiles[0].ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := a.AddFavorite(intruder, profiles[0].ID, "any"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on favorites, got %v", err)
	}
	if _, err := a.WatchHistory(intruder, profiles[0].ID, 10); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on history, got %v", err)
	}
}

func TestDeleteProfileGuardsAndCascades(t *testing.T) {
	a, mem := newTestApp(t)
	account, _ := a.EnsureAccount("idp-del", "v@example.com", "V")
	if _, err := a.SetSubscription(account.ID, domain.PlanStandard, domain.SubscriptionActive, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("set subscription: %v", err)
	}
	second, err := a.CreateProfile(account, "Second", "")
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	videos := seedVideos(t, a, 1, nil)
	if err := a.AddFavorite(account, second.ID, videos[0].ID); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	if _, err := a.RecordWatch(account, second.ID, videos[0].ID, 100, false); err != nil {
		t.Fatalf("record watch: %v", err)
	}

	if err := a.DeleteProfile(account, second.ID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}
	if fav, _ := mem.IsFavorite(second.ID, videos[0].ID); fav {
		t.Fatal("favorites should be deleted with the profile")
	}
	if entries, _ := mem.ListWatchHistory(second.ID, 10); len(entries) != 0 {
		t.Fatalf("watch history should be deleted with the profile, got %d entries", len(entries))
	}

	// The sole remaining profile can be deleted too.
	profiles, _ := a.ListProfiles(account)
	if err := a.DeleteProfile(account, profiles[0].ID); err != nil {
		t.Fatalf("delete sole profile: %v", err)
	}
	profiles, _ = a.ListProfiles(account)
	if len(profiles) != 0 {
		t.Fatalf("expected no profiles left, got %d", len(profiles))
	}
}

func TestBrowseCatalogPagination(t *testing.T) {
	a, _ := newTestApp(t)
	seedVideos(t, a, 12, nil)

	page, err := a.BrowseCatalog(store.CatalogFilter{Genre: "Drama", Type: "MOVIE", Limit: 5, Page: 3})
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if page.Pagination.Total != 12 {
		t.Fatalf("total = %d, want 12", page.Pagination.Total)
	}
	if page.Pagination.Pages != 3 {
		t.Fatalf("pages = %d, want 3", page.Pagination.Pages)
	}
	if len(page.Videos) != 2 {
		t.Fatalf("page 3 should hold the 2 leftover videos, got %d", len(page.Videos))
	}
}

func TestBrowseCatalogSearch(t *testing.T) {
	a, _ := newTestApp(t)
	seedVideos(t, a, 3, func(i int, v *domain.Video) {
		if i == 1 {
			v.Title = "Inception"
			v.Description = "a dream within a dream"
		}
	})

	page, err := a.BrowseCatalog(store.CatalogFilter{Search: "inception"})
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(page.Videos) != 1 || page.Videos[0].Title != "Inception" {
		t.Fatalf("search result = %+v", page.Videos)
	}
}

func TestBrowseCatalogRejectsUnknownType(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.BrowseCatalog(store.CatalogFilter{Type: "PODCAST"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestFavoritesToggle(t *testing.T) {
	a, _ := newTestApp(t)
	account, _ := a.EnsureAccount("idp-fav", "v@example.com", "V")
	profiles, _ := a.ListProfiles(account)
	profileID := profiles[0].ID
	videos := seedVideos(t, a, 2, nil)

	if err := a.AddFavorite(account, profileID, videos[0].ID); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	if err := a.AddFavorite(account, profileID, videos[0].ID); !errors.Is(err, ErrAlreadyFavorited) {
		t.Fatalf("expected ErrAlreadyFavorited, got %v", err)
	}
	favs, err := a.ListFavorites(account, profileID)
	if err != nil {
		t.Fatalf("list favorites: %v", err)
	}
	if len(favs) != 1 || favs[0].ID != videos[0].ID {
		t.Fatalf("favorites = %+v", favs)
	}
	if err := a.RemoveFavorite(account, profileID, videos[0].ID); err != nil {
		t.Fatalf("remove favorite: %v", err)
	}
	if err := a.RemoveFavorite(account, profileID, videos[0].ID); !errors.Is(err, ErrNotFavorited) {
		t.Fatalf("expected ErrNotFavorited, got %v", err)
	}
}

func TestAddFavoriteUnknownVideo(t *testing.T) {
	a, _ := newTestApp(t)
	account, _ := a.EnsureAccount("idp-fav2", "v@example.com", "V")
	profiles, _ := a.ListProfiles(account)
	if err := a.AddFavorite(account, profiles[0].ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordWatchUpserts(t *testing.T) {
	a, _ := newTestApp(t)
	account, _ := a.EnsureAccount("idp-watch", "v@example.com", "V")
	profiles, _ := a.ListProfiles(account)
	profileID := profiles[0].ID
	videos := seedVideos(t, a, 1, nil)

	if _, err := a.RecordWatch(account, profileID, videos[0].ID, 600, false); err != nil {
		t.Fatalf("record watch: %v", err)
	}
	if _, err := a.RecordWatch(account, profileID, videos[0].ID, 5400, true); err != nil {
		t.Fatalf("record watch again: %v", err)
	}

	history, err := a.WatchHistory(account, profileID, 10)
	if err != nil {
		t.Fatalf("watch history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected single upserted entry, got %d", len(history))
	}
	if history[0].Progress != 5400 || !history[0].Completed {
		t.Fatalf("entry not updated: %+v", history[0])
	}
	if history[0].Video == nil || history[0].Video.ID != videos[0].ID {
		t.Fatalf("expected attached video on history entry")
	}
}

func TestRecordWatchClampsProgressToDuration(t *testing.T) {
	a, _ := newTestApp(t)
	account, _ := a.EnsureAccount("idp-clamp", "v@example.com", "V")
	profiles, _ := a.ListProfiles(account)
	videos := seedVideos(t, a, 1, nil)

	entry, err := a.RecordWatch(account, profiles[0].ID, videos[0].ID, 999999, true)
	if err != nil {
		t.Fatalf("record watch: %v", err)
	}
	if entry.Progress != videos[0].DurationSec {
		t.Fatalf("progress = %d, want clamp to %d", entry.Progress, videos[0].DurationSec)
	}
}

func TestRateVideoValidatesAndAggregates(t *testing.T) {
	a, _ := newTestApp(t)
	alice, _ := a.EnsureAccount("idp-alice", "a@example.com", "A")
	bob, _ := a.EnsureAccount("idp-bob", "b@example.com", "B")
	videos := seedVideos(t, a, 1, nil)

	if _, err := a.RateVideo(alice, videos[0].ID, 0, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for value 0, got %v", err)
	}
	if _, err := a.RateVideo(alice, videos[0].ID, 6, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for value 6, got %v", err)
	}

	if _, err := a.RateVideo(alice, videos[0].ID, 5, "great"); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := a.RateVideo(bob, videos[0].ID, 2, ""); err != nil {
		t.Fatalf("rate: %v", err)
	}
	// Alice revises; the aggregate should track the replacement, not add.
	if _, err := a.RateVideo(alice, videos[0].ID, 4, ""); err != nil {
		t.Fatalf("re-rate: %v", err)
	}

	video, err := a.GetVideo(videos[0].ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if video.TotalRatings != 2 {
		t.Fatalf("totalRatings = %d, want 2", video.TotalRatings)
	}
	if video.AverageRating != 3 {
		t.Fatalf("averageRating = %v, want 3", video.AverageRating)
	}

	ratings, err := a.ListRatings(videos[0].ID)
	if err != nil {
		t.Fatalf("list ratings: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(ratings))
	}
}

func TestRails(t *testing.T) {
	a, _ := newTestApp(t)
	seedVideos(t, a, 15, func(i int, v *domain.Video) {
		v.Featured = i%2 == 0
		v.Trending = i%3 == 0
	})

	featured, err := a.FeaturedRail(context.Background())
	if err != nil {
		t.Fatalf("featured rail: %v", err)
	}
	if len(featured) != 8 {
		t.Fatalf("featured rail size = %d, want 8", len(featured))
	}
	for _, v := range featured {
		if !v.Featured {
			t.Fatalf("non-featured video %s in featured rail", v.ID)
		}
	}
	trending, err := a.TrendingRail(context.Background())
	if err != nil {
		t.Fatalf("trending rail: %v", err)
	}
	for _, v := range trending {
		if !v.Trending {
			t.Fatalf("non-trending video %s in trending rail", v.ID)
		}
	}
}

func TestUploadAvatarAndAssetURL(t *testing.T) {
	a, _ := newTestApp(t)
	account, _ := a.EnsureAccount("idp-avatar", "v@example.com", "V")
	profiles, _ := a.ListProfiles(account)

	body := strings.NewReader("fake-png-bytes")
	profile, asset, err := a.UploadAvatar(context.Background(), account, profiles[0].ID, "me.png", body, int64(body.Len()))
	if err != nil {
		t.Fatalf("upload avatar: %v", err)
	}
	if profile.ImageURL != "/assets/"+asset.ID {
		t.Fatalf("profile imageUrl = %q, want /assets/%s", profile.ImageURL, asset.ID)
	}
	if asset.ContentType != "image/png" {
		t.Fatalf("content type = %q", asset.ContentType)
	}

	url, err := a.AssetURL(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("asset url: %v", err)
	}
	if url == "" {
		t.Fatal("expected presigned url")
	}

	if _, _, err := a.UploadAvatar(context.Background(), account, profiles[0].ID, "notes.txt", strings.NewReader("x"), 1); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for non-image upload, got %v", err)
	}
}

func TestUploadAvatarHonorsContextCancellation(t *testing.T) {
	a, _ := newTestApp(t)
	account, _ := a.EnsureAccount("idp-avatar2", "v@example.com", "V")
	profiles, _ := a.ListProfiles(account)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	body := strings.NewReader("fake-png-bytes")
	if _, _, err := a.UploadAvatar(ctx, account, profiles[0].ID, "me.png", body, int64(body.Len())); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
