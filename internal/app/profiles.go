package app

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Usmankh4/netflixclone/pkg/domain"
)

const maxProfileNameLen = 30

// authorizeProfile loads a profile and checks it belongs to the account.
// Every profile-scoped operation goes through here.
func (a *App) authorizeProfile(account domain.Account, profileID string) (domain.Profile, error) {
	profile, ok, err := a.store.GetProfile(profileID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !ok {
		return domain.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, profileID)
	}
	if profile.AccountID != account.ID {
		return domain.Profile{}, fmt.Errorf("%w: profile %s belongs to another account", ErrForbidden, profileID)
	}
	return profile, nil
}

// ListProfiles returns the account's profiles, newest first.
func (a *App) ListProfiles(account domain.Account) ([]domain.Profile, error) {
	profiles, err := a.store.ListProfilesByAccount(account.ID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// GetProfile returns one of the account's profiles.
func (a *App) GetProfile(account domain.Account, profileID string) (domain.Profile, error) {
	return a.authorizeProfile(account, profileID)
}

// CreateProfile adds a profile, enforcing the subscription's profile limit.
func (a *App) CreateProfile(account domain.Account, name, imageURL string) (domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Profile{}, fmt.Errorf("%w: profile name required", ErrValidation)
	}
	if len(name) > maxProfileNameLen {
		return domain.Profile{}, fmt.Errorf("%w: profile name exceeds %d characters", ErrValidation, maxProfileNameLen)
	}

	count, err := a.store.CountProfilesByAccount(account.ID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("count profiles: %w", err)
	}
	limit := a.profileLimit(account)
	if count >= limit {
		return domain.Profile{}, fmt.Errorf("%w: plan allows %d profiles", ErrProfileLimit, limit)
	}

	now := a.now()
	if imageURL == "" {
		imageURL = defaultAvatarURL(account.ID)
	}
	profile := domain.Profile{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Name:      name,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.CreateProfile(profile); err != nil {
		return domain.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile renames a profile or changes its avatar URL.
func (a *App) UpdateProfile(account domain.Account, profileID, name, imageURL string) (domain.Profile, error) {
	profile, err := a.authorizeProfile(account, profileID)
	if err != nil {
		return domain.Profile{}, err
	}
	if name != "" {
		name = strings.TrimSpace(name)
		if name == "" {
			return domain.Profile{}, fmt.Errorf("%w: profile name required", ErrValidation)
		}
		if len(name) > maxProfileNameLen {
			return domain.Profile{}, fmt.Errorf("%w: profile name exceeds %d characters", ErrValidation, maxProfileNameLen)
		}
		profile.Name = name
	}
	if imageURL != "" {
		profile.ImageURL = imageURL
	}
	profile.UpdatedAt = a.now()
	if err := a.store.SaveProfile(profile); err != nil {
		return domain.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}

// DeleteProfile removes a profile along with its favorites and history.
func (a *App) DeleteProfile(account domain.Account, profileID string) error {
	if _, err := a.authorizeProfile(account, profileID); err != nil {
		return err
	}
	if err := a.store.DeleteProfile(profileID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// profileLimit resolves how many profiles the account's plan allows.
// Accounts without an active subscription get a single profile.
func (a *App) profileLimit(account domain.Account) int {
	sub, ok, err := a.store.GetSubscriptionByAccount(account.ID)
	if err != nil || !ok || sub.Status != domain.SubscriptionActive {
		return domain.SubscriptionPlan("").ProfileLimit()
	}
	return sub.Plan.ProfileLimit()
}
