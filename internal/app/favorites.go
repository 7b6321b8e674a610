package app

import (
	"errors"
	"fmt"

	"github.com/Usmankh4/netflixclone/pkg/domain"
	"github.com/Usmankh4/netflixclone/pkg/store"
)

// AddFavorite puts a video on the profile's list. Adding a video that is
// already listed fails so clients can keep their toggle state honest.
func (a *App) AddFavorite(account domain.Account, profileID, videoID string) error {
	if _, err := a.authorizeProfile(account, profileID); err != nil {
		return err
	}
	if _, err := a.GetVideo(videoID); err != nil {
		return err
	}
	if err := a.store.AddFavorite(profileID, videoID); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyFavorited
		}
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite takes a video off the profile's list. Removing a video
// that is not listed fails the same way adding a duplicate does.
func (a *App) RemoveFavorite(account domain.Account, profileID, videoID string) error {
	if _, err := a.authorizeProfile(account, profileID); err != nil {
		return err
	}
	removed, err := a.store.RemoveFavorite(profileID, videoID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if !removed {
		return ErrNotFavorited
	}
	return nil
}

// ListFavorites returns the profile's favorited videos, most recent first.
func (a *App) ListFavorites(account domain.Account, profileID string) ([]domain.Video, error) {
	if _, err := a.authorizeProfile(account, profileID); err != nil {
		return nil, err
	}
	videos, err := a.store.ListFavorites(profileID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if videos == nil {
		videos = []domain.Video{}
	}
	return videos, nil
}
