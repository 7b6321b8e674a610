package domain

import "time"

type VideoType string

const (
	TypeMovie  VideoType = "MOVIE"
	TypeSeries VideoType = "SERIES"
)

type SubscriptionPlan string

const (
	PlanBasic    SubscriptionPlan = "BASIC"
	PlanStandard SubscriptionPlan = "STANDARD"
	PlanPremium  SubscriptionPlan = "PREMIUM"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
	SubscriptionPastDue  SubscriptionStatus = "PAST_DUE"
)

// ProfileLimit returns how many profiles a plan allows. Accounts without a
// subscription get the basic allowance.
func (p SubscriptionPlan) ProfileLimit() int {
	switch p {
	case PlanPremium:
		return 5
	case PlanStandard:
		return 3
	default:
		return 1
	}
}

type Account struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"-"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Profile struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Video struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ThumbnailURL   string    `json:"thumbnailUrl"`
	VideoURL       string    `json:"videoUrl"`
	TrailerURL     string    `json:"trailerUrl,omitempty"`
	DurationSec    int       `json:"duration"`
	Genres         []string  `json:"genre"`
	ReleaseYear    int       `json:"releaseYear"`
	Director       string    `json:"director"`
	Cast           []string  `json:"cast"`
	MaturityRating string    `json:"maturityRating"`
	Featured       bool      `json:"featured"`
	Trending       bool      `json:"trending"`
	IsOriginal     bool      `json:"isOriginal"`
	Type           VideoType `json:"type"`
	AverageRating  float64   `json:"averageRating"`
	TotalRatings   int       `json:"totalRatings"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// HasGenre reports membership in the video's genre set.
func (v Video) HasGenre(genre string) bool {
	for _, g := range v.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

type Rating struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	VideoID   string    `json:"videoId"`
	Value     int       `json:"value"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WatchEntry records playback progress of one video on one profile.
type WatchEntry struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	VideoID   string    `json:"videoId"`
	Progress  int       `json:"progress"`
	Completed bool      `json:"completed"`
	WatchedAt time.Time `json:"watchedAt"`
	Video     *Video    `json:"video,omitempty"`
}

type Subscription struct {
	ID               string             `json:"id"`
	AccountID        string             `json:"accountId"`
	Plan             SubscriptionPlan   `json:"plan"`
	Status           SubscriptionStatus `json:"status"`
	CurrentPeriodEnd time.Time          `json:"currentPeriodEnd"`
	CreatedAt        time.Time          `json:"createdAt"`
}

type ImageAsset struct {
	ID          string    `json:"id"`
	Key         string    `json:"-"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CatalogPage is one page of catalog results plus pagination metadata.
type CatalogPage struct {
	Videos     []Video    `json:"videos"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}
