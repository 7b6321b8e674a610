package app

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Usmankh4/netflixclone/pkg/domain"
)

const maxRatingCommentLen = 500

// RateVideo records or replaces the account's rating for a video and
// refreshes the video's aggregates.
func (a *App) RateVideo(account domain.Account, videoID string, value int, comment string) (domain.Rating, error) {
	if value < 1 || value > 5 {
		return domain.Rating{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if len(comment) > maxRatingCommentLen {
		return domain.Rating{}, fmt.Errorf("%w: comment exceeds %d characters", ErrValidation, maxRatingCommentLen)
	}
	if _, err := a.GetVideo(videoID); err != nil {
		return domain.Rating{}, err
	}
	now := a.now()
	rating := domain.Rating{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		VideoID:   videoID,
		Value:     value,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.UpsertRating(rating); err != nil {
		return domain.Rating{}, fmt.Errorf("save rating: %w", err)
	}
	return rating, nil
}

// ListRatings returns all ratings for a video, newest first.
func (a *App) ListRatings(videoID string) ([]domain.Rating, error) {
	if _, err := a.GetVideo(videoID); err != nil {
		return nil, err
	}
	ratings, err := a.store.ListRatingsByVideo(videoID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	if ratings == nil {
		ratings = []domain.Rating{}
	}
	return ratings, nil
}
