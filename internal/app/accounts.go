package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Usmankh4/netflixclone/pkg/domain"
	"github.com/Usmankh4/netflixclone/pkg/store"
)

const defaultProfileName = "Default Profile"

// EnsureAccount resolves the account for an identity-provider subject,
// creating the account and a default profile on first sight. Concurrent
// first requests race on the unique external ID; the loser re-fetches.
func (a *App) EnsureAccount(externalID, email, name string) (domain.Account, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return domain.Account{}, fmt.Errorf("%w: external id required", ErrValidation)
	}

	account, ok, err := a.store.GetAccountByExternalID(externalID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}
	if ok {
		return account, nil
	}

	now := a.now()
	account = domain.Account{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		Email:      email,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := a.store.CreateAccount(account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			existing, ok, ferr := a.store.GetAccountByExternalID(externalID)
			if ferr != nil {
				return domain.Account{}, fmt.Errorf("refetch account: %w", ferr)
			}
			if !ok {
				return domain.Account{}, fmt.Errorf("account vanished after duplicate: %s", externalID)
			}
			return existing, nil
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	profile := domain.Profile{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Name:      defaultProfileName,
		ImageURL:  defaultAvatarURL(account.ID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.CreateProfile(profile); err != nil && !errors.Is(err, store.ErrDuplicate) {
		return domain.Account{}, fmt.Errorf("create default profile: %w", err)
	}
	return account, nil
}

// GetAccount returns an account by ID.
func (a *App) GetAccount(id string) (domain.Account, error) {
	account, ok, err := a.store.GetAccountByID(id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: account %s", ErrNotFound, id)
	}
	return account, nil
}

// Subscription returns the account's subscription when one exists.
func (a *App) Subscription(accountID string) (domain.Subscription, bool, error) {
	return a.store.GetSubscriptionByAccount(accountID)
}

// SetSubscription records the account's plan. Used by the billing webhook
// and the seeder.
func (a *App) SetSubscription(accountID string, plan domain.SubscriptionPlan, status domain.SubscriptionStatus, periodEnd time.Time) (domain.Subscription, error) {
	switch plan {
	case domain.PlanBasic, domain.PlanStandard, domain.PlanPremium:
	default:
		return domain.Subscription{}, fmt.Errorf("%w: unknown plan %q", ErrValidation, plan)
	}
	sub := domain.Subscription{
		ID:               uuid.NewString(),
		AccountID:        accountID,
		Plan:             plan,
		Status:           status,
		CurrentPeriodEnd: periodEnd,
		CreatedAt:        a.now(),
	}
	if err := a.store.SaveSubscription(sub); err != nil {
		return domain.Subscription{}, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}

func defaultAvatarURL(accountID string) string {
	return "https://i.pravatar.cc/150?u=" + accountID
}
