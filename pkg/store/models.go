package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type AccountModel struct {
	ID         string `gorm:"primaryKey"`
	ExternalID string `gorm:"uniqueIndex;not null"`
	Email      string
	Name       string
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time
}

type ProfileModel struct {
	ID        string `gorm:"primaryKey"`
	AccountID string `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	ImageURL  string
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time
}

type VideoModel struct {
	ID             string `gorm:"primaryKey"`
	Title          string `gorm:"not null"`
	Description    string `gorm:"type:text"`
	ThumbnailURL   string
	VideoURL       string
	TrailerURL     string
	DurationSec    int
	Genres         datatypes.JSON `gorm:"type:jsonb"`
	ReleaseYear    int
	Director       string
	Cast           datatypes.JSON `gorm:"type:jsonb"`
	MaturityRating string
	Featured       bool `gorm:"index"`
	Trending       bool `gorm:"index"`
	IsOriginal     bool
	Type           string `gorm:"not null;index"`
	AverageRating  float64
	TotalRatings   int
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time
}

type FavoriteModel struct {
	ProfileID string    `gorm:"primaryKey"`
	VideoID   string    `gorm:"primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

type WatchEntryModel struct {
	ID        string `gorm:"primaryKey"`
	ProfileID string `gorm:"not null;uniqueIndex:idx_watch_profile_video"`
	VideoID   string `gorm:"not null;uniqueIndex:idx_watch_profile_video"`
	Progress  int    `gorm:"not null"`
	Completed bool
	WatchedAt time.Time `gorm:"not null;index"`
}

type RatingModel struct {
	ID        string `gorm:"primaryKey"`
	AccountID string `gorm:"not null;uniqueIndex:idx_ratings_account_video"`
	VideoID   string `gorm:"not null;uniqueIndex:idx_ratings_account_video"`
	Value     int    `gorm:"not null"`
	Comment   string
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

type SubscriptionModel struct {
	ID               string `gorm:"primaryKey"`
	AccountID        string `gorm:"uniqueIndex;not null"`
	Plan             string `gorm:"not null"`
	Status           string `gorm:"not null"`
	CurrentPeriodEnd time.Time
	CreatedAt        time.Time `gorm:"not null"`
}

type ImageAssetModel struct {
	ID          string `gorm:"primaryKey"`
	Key         string `gorm:"uniqueIndex;not null"`
	ContentType string
	SizeBytes   int64
	Width       int
	Height      int
	CreatedAt   time.Time `gorm:"not null"`
}
