package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Usmankh4/netflixclone/pkg/domain"
	"github.com/Usmankh4/netflixclone/pkg/store"
)

const railSize = 10

// Rail names used as cache keys.
const (
	railFeatured = "featured"
	railTrending = "trending"
)

// BrowseCatalog returns one page of videos matching the filter plus
// pagination metadata.
func (a *App) BrowseCatalog(filter store.CatalogFilter) (domain.CatalogPage, error) {
	if filter.Type != "" {
		switch domain.VideoType(filter.Type) {
		case domain.TypeMovie, domain.TypeSeries:
		default:
			return domain.CatalogPage{}, fmt.Errorf("%w: unknown type %q", ErrValidation, filter.Type)
		}
	}
	videos, total, err := a.store.ListVideos(filter)
	if err != nil {
		return domain.CatalogPage{}, fmt.Errorf("list videos: %w", err)
	}
	limit := filter.PageSize()
	pages := (total + limit - 1) / limit
	return domain.CatalogPage{
		Videos: videos,
		Pagination: domain.Pagination{
			Total: total,
			Page:  filter.PageNumber(),
			Limit: limit,
			Pages: pages,
		},
	}, nil
}

// GetVideo returns a single catalog entry.
func (a *App) GetVideo(id string) (domain.Video, error) {
	video, ok, err := a.store.GetVideo(id)
	if err != nil {
		return domain.Video{}, fmt.Errorf("get video: %w", err)
	}
	if !ok {
		return domain.Video{}, fmt.Errorf("%w: video %s", ErrNotFound, id)
	}
	return video, nil
}

// FeaturedRail returns the newest featured videos, cache-first.
func (a *App) FeaturedRail(ctx context.Context) ([]domain.Video, error) {
	return a.rail(ctx, railFeatured, a.store.ListFeatured)
}

// TrendingRail returns the newest trending videos, cache-first.
func (a *App) TrendingRail(ctx context.Context) ([]domain.Video, error) {
	return a.rail(ctx, railTrending, a.store.ListTrending)
}

// rail serves from the cache when possible and refills on a miss. Cache
// failures fall through to the database so Redis outages degrade instead
// of breaking the homepage.
func (a *App) rail(ctx context.Context, name string, load func(int) ([]domain.Video, error)) ([]domain.Video, error) {
	if a.rails != nil {
		if videos, ok, err := a.rails.Get(ctx, name); err == nil && ok {
			return videos, nil
		}
	}
	videos, err := load(railSize)
	if err != nil {
		return nil, fmt.Errorf("load %s rail: %w", name, err)
	}
	if a.rails != nil {
		_ = a.rails.Set(ctx, name, videos)
	}
	return videos, nil
}

// AddVideo inserts or updates a catalog entry. Used by the seeder and by
// catalog ingestion.
func (a *App) AddVideo(ctx context.Context, video domain.Video) (domain.Video, error) {
	if video.Title == "" {
		return domain.Video{}, fmt.Errorf("%w: title required", ErrValidation)
	}
	switch video.Type {
	case domain.TypeMovie, domain.TypeSeries:
	default:
		return domain.Video{}, fmt.Errorf("%w: unknown type %q", ErrValidation, video.Type)
	}
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	now := a.now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now
	if err := a.store.SaveVideo(video); err != nil {
		return domain.Video{}, fmt.Errorf("save video: %w", err)
	}
	if a.rails != nil && (video.Featured || video.Trending) {
		_ = a.rails.Invalidate(ctx, railFeatured, railTrending)
	}
	return video, nil
}
