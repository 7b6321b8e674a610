package store

import (
	"errors"

	"github.com/Usmankh4/netflixclone/pkg/domain"
)

// ErrDuplicate reports a write that collided with a uniqueness constraint.
// Callers treat it as "the row already exists, re-fetch".
var ErrDuplicate = errors.New("duplicate record")

// DefaultPageSize is the catalog page size when the caller supplies none.
const DefaultPageSize = 10

// CatalogFilter is the optional filter set for catalog listings. Boolean
// flags filter only when true; false means the filter is not applied.
type CatalogFilter struct {
	Type       string
	Genre      string
	Featured   bool
	Trending   bool
	IsOriginal bool
	Search     string
	Limit      int
	Page       int
}

// PageSize returns the effective page size.
func (f CatalogFilter) PageSize() int {
	if f.Limit > 0 {
		return f.Limit
	}
	return DefaultPageSize
}

// PageNumber returns the effective 1-based page number.
func (f CatalogFilter) PageNumber() int {
	if f.Page > 0 {
		return f.Page
	}
	return 1
}

// Offset returns how many rows to skip for the requested page.
func (f CatalogFilter) Offset() int {
	return (f.PageNumber() - 1) * f.PageSize()
}

// Store defines persistence operations for accounts, profiles, the video
// catalog, favorites, watch history, ratings, and image assets.
type Store interface {
	// accounts
	CreateAccount(domain.Account) error
	GetAccountByExternalID(externalID string) (domain.Account, bool, error)
	GetAccountByID(id string) (domain.Account, bool, error)

	// subscriptions
	SaveSubscription(domain.Subscription) error
	GetSubscriptionByAccount(accountID string) (domain.Subscription, bool, error)

	// profiles
	CreateProfile(domain.Profile) error
	SaveProfile(domain.Profile) error
	GetProfile(id string) (domain.Profile, bool, error)
	ListProfilesByAccount(accountID string) ([]domain.Profile, error)
	CountProfilesByAccount(accountID string) (int, error)
	DeleteProfile(id string) error

	// catalog
	SaveVideo(domain.Video) error
	GetVideo(id string) (domain.Video, bool, error)
	ListVideos(filter CatalogFilter) ([]domain.Video, int, error)
	ListFeatured(limit int) ([]domain.Video, error)
	ListTrending(limit int) ([]domain.Video, error)

	// favorites
	AddFavorite(profileID, videoID string) error
	RemoveFavorite(profileID, videoID string) (bool, error)
	IsFavorite(profileID, videoID string) (bool, error)
	ListFavorites(profileID string) ([]domain.Video, error)

	// watch history
	UpsertWatchEntry(domain.WatchEntry) error
	ListWatchHistory(profileID string, limit int) ([]domain.WatchEntry, error)

	// ratings
	UpsertRating(domain.Rating) error
	ListRatingsByVideo(videoID string) ([]domain.Rating, error)

	// image assets
	SaveImageAsset(domain.ImageAsset) error
	GetImageAsset(id string) (domain.ImageAsset, bool, error)
}
