package app

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Usmankh4/netflixclone/pkg/domain"
)

const defaultHistoryLimit = 20

// RecordWatch upserts a playback progress entry for a profile and video.
// Repeated reports for the same pair update in place.
func (a *App) RecordWatch(account domain.Account, profileID, videoID string, progress int, completed bool) (domain.WatchEntry, error) {
	if _, err := a.authorizeProfile(account, profileID); err != nil {
		return domain.WatchEntry{}, err
	}
	video, err := a.GetVideo(videoID)
	if err != nil {
		return domain.WatchEntry{}, err
	}
	if progress < 0 {
		return domain.WatchEntry{}, fmt.Errorf("%w: progress must be >= 0", ErrValidation)
	}
	if video.DurationSec > 0 && progress > video.DurationSec {
		progress = video.DurationSec
	}
	entry := domain.WatchEntry{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		VideoID:   videoID,
		Progress:  progress,
		Completed: completed,
		WatchedAt: a.now(),
	}
	if err := a.store.UpsertWatchEntry(entry); err != nil {
		return domain.WatchEntry{}, fmt.Errorf("record watch: %w", err)
	}
	return entry, nil
}

// WatchHistory returns the profile's most recently watched videos.
func (a *App) WatchHistory(account domain.Account, profileID string, limit int) ([]domain.WatchEntry, error) {
	if _, err := a.authorizeProfile(account, profileID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	entries, err := a.store.ListWatchHistory(profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("list watch history: %w", err)
	}
	if entries == nil {
		entries = []domain.WatchEntry{}
	}
	return entries, nil
}
