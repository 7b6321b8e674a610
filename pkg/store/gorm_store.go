package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Usmankh4/netflixclone/pkg/domain"
)

const migrateLockID int64 = 52946218

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := withMigrationLock(db, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&AccountModel{},
			&ProfileModel{},
			&VideoModel{},
			&FavoriteModel{},
			&WatchEntryModel{},
			&RatingModel{},
			&SubscriptionModel{},
			&ImageAssetModel{},
		); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func withMigrationLock(db *gorm.DB, fn func(*gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open sql conn: %w", err)
	}
	defer conn.Close()
	if err := execAdvisory(ctx, conn, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() {
		_ = execAdvisory(ctx, conn, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()
	return fn(db)
}

func execAdvisory(ctx context.Context, conn *sql.Conn, query string, lockID int64) error {
	_, err := conn.ExecContext(ctx, query, lockID)
	return err
}

func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// CreateAccount inserts a new account. A collision on the external identity
// column surfaces as ErrDuplicate so the caller can re-fetch.
func (s *GormStore) CreateAccount(a domain.Account) error {
	model := accountToModel(a)
	return translateDuplicate(s.db.Create(&model).Error)
}

// GetAccountByExternalID looks up an account by its external identity.
func (s *GormStore) GetAccountByExternalID(externalID string) (domain.Account, bool, error) {
	var model AccountModel
	if err := s.db.Where("external_id = ?", externalID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, false, nil
		}
		return domain.Account{}, false, err
	}
	return accountFromModel(model), true, nil
}

// GetAccountByID returns an account by ID.
func (s *GormStore) GetAccountByID(id string) (domain.Account, bool, error) {
	var model AccountModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, false, nil
		}
		return domain.Account{}, false, err
	}
	return accountFromModel(model), true, nil
}

// SaveSubscription stores or updates an account's subscription.
func (s *GormStore) SaveSubscription(sub domain.Subscription) error {
	model := subscriptionToModel(sub)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plan", "status", "current_period_end"}),
	}).Create(&model).Error
}

// GetSubscriptionByAccount returns the subscription for an account, if any.
func (s *GormStore) GetSubscriptionByAccount(accountID string) (domain.Subscription, bool, error) {
	var model SubscriptionModel
	if err := s.db.Where("account_id = ?", accountID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Subscription{}, false, nil
		}
		return domain.Subscription{}, false, err
	}
	return subscriptionFromModel(model), true, nil
}

// CreateProfile inserts a new profile.
func (s *GormStore) CreateProfile(p domain.Profile) error {
	model := profileToModel(p)
	return translateDuplicate(s.db.Create(&model).Error)
}

// SaveProfile updates an existing profile.
func (s *GormStore) SaveProfile(p domain.Profile) error {
	return s.db.Model(&ProfileModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":       p.Name,
			"image_url":  p.ImageURL,
			"updated_at": time.Now().UTC(),
		}).Error
}

// GetProfile retrieves a profile.
func (s *GormStore) GetProfile(id string) (domain.Profile, bool, error) {
	var model ProfileModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, false, nil
		}
		return domain.Profile{}, false, err
	}
	return profileFromModel(model), true, nil
}

// ListProfilesByAccount returns an account's profiles, newest first.
func (s *GormStore) ListProfilesByAccount(accountID string) ([]domain.Profile, error) {
	var models []ProfileModel
	if err := s.db.Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Profile, 0, len(models))
	for _, m := range models {
		res = append(res, profileFromModel(m))
	}
	return res, nil
}

// CountProfilesByAccount returns how many profiles an account owns.
func (s *GormStore) CountProfilesByAccount(accountID string) (int, error) {
	var count int64
	if err := s.db.Model(&ProfileModel{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// DeleteProfile removes a profile together with its favorite edges and
// watch history.
func (s *GormStore) DeleteProfile(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&FavoriteModel{}, "profile_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&WatchEntryModel{}, "profile_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&ProfileModel{}, "id = ?", id).Error
	})
}

// SaveVideo stores or updates a catalog entry (administrative seeding).
func (s *GormStore) SaveVideo(v domain.Video) error {
	model := videoToModel(v)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "thumbnail_url", "video_url", "trailer_url",
			"duration_sec", "genres", "release_year", "director", "cast",
			"maturity_rating", "featured", "trending", "is_original", "type",
			"average_rating", "total_ratings", "updated_at",
		}),
	}).Create(&model).Error
}

// GetVideo retrieves a catalog entry.
func (s *GormStore) GetVideo(id string) (domain.Video, bool, error) {
	var model VideoModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Video{}, false, nil
		}
		return domain.Video{}, false, err
	}
	return videoFromModel(model), true, nil
}

// ListVideos returns one page of catalog results and the total count for
// the filter. The page and the count are fetched concurrently.
func (s *GormStore) ListVideos(filter CatalogFilter) ([]domain.Video, int, error) {
	var (
		models []VideoModel
		total  int64
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		return s.applyCatalogFilter(filter).
			Order("created_at DESC, id DESC").
			Limit(filter.PageSize()).
			Offset(filter.Offset()).
			Find(&models).Error
	})
	g.Go(func() error {
		return s.applyCatalogFilter(filter).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	videos := make([]domain.Video, 0, len(models))
	for _, m := range models {
		videos = append(videos, videoFromModel(m))
	}
	return videos, int(total), nil
}

func (s *GormStore) applyCatalogFilter(filter CatalogFilter) *gorm.DB {
	tx := s.db.Model(&VideoModel{})
	if filter.Type != "" {
		tx = tx.Where("type = ?", filter.Type)
	}
	if filter.Genre != "" {
		genre, _ := json.Marshal([]string{filter.Genre})
		tx = tx.Where("genres @> ?::jsonb", string(genre))
	}
	if filter.Featured {
		tx = tx.Where("featured = ?", true)
	}
	if filter.Trending {
		tx = tx.Where("trending = ?", true)
	}
	if filter.IsOriginal {
		tx = tx.Where("is_original = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		tx = tx.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	return tx
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// ListFeatured returns the newest featured videos.
func (s *GormStore) ListFeatured(limit int) ([]domain.Video, error) {
	return s.listFlagged("featured", limit)
}

// ListTrending returns the newest trending videos.
func (s *GormStore) ListTrending(limit int) ([]domain.Video, error) {
	return s.listFlagged("trending", limit)
}

func (s *GormStore) listFlagged(column string, limit int) ([]domain.Video, error) {
	if limit <= 0 {
		return []domain.Video{}, nil
	}
	var models []VideoModel
	if err := s.db.Where(column+" = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	videos := make([]domain.Video, 0, len(models))
	for _, m := range models {
		videos = append(videos, videoFromModel(m))
	}
	return videos, nil
}

// AddFavorite inserts the (profile, video) edge. An existing edge surfaces
// as ErrDuplicate.
func (s *GormStore) AddFavorite(profileID, videoID string) error {
	model := FavoriteModel{
		ProfileID: profileID,
		VideoID:   videoID,
		CreatedAt: time.Now().UTC(),
	}
	return translateDuplicate(s.db.Create(&model).Error)
}

// RemoveFavorite deletes the edge and reports whether it existed.
func (s *GormStore) RemoveFavorite(profileID, videoID string) (bool, error) {
	tx := s.db.Delete(&FavoriteModel{}, "profile_id = ? AND video_id = ?", profileID, videoID)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// IsFavorite reports whether the edge exists.
func (s *GormStore) IsFavorite(profileID, videoID string) (bool, error) {
	var count int64
	if err := s.db.Model(&FavoriteModel{}).
		Where("profile_id = ? AND video_id = ?", profileID, videoID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFavorites returns a profile's favorite videos, newest edge first.
func (s *GormStore) ListFavorites(profileID string) ([]domain.Video, error) {
	var models []VideoModel
	if err := s.db.Model(&VideoModel{}).
		Joins("JOIN favorite_models f ON f.video_id = video_models.id").
		Where("f.profile_id = ?", profileID).
		Order("f.created_at DESC, video_models.id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	videos := make([]domain.Video, 0, len(models))
	for _, m := range models {
		videos = append(videos, videoFromModel(m))
	}
	return videos, nil
}

// UpsertWatchEntry records playback progress, replacing any prior entry for
// the same (profile, video) pair.
func (s *GormStore) UpsertWatchEntry(e domain.WatchEntry) error {
	model := watchEntryToModel(e)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress", "completed", "watched_at"}),
	}).Create(&model).Error
}

// ListWatchHistory returns a profile's watch entries, newest first, with
// their videos attached.
func (s *GormStore) ListWatchHistory(profileID string, limit int) ([]domain.WatchEntry, error) {
	if limit <= 0 {
		return []domain.WatchEntry{}, nil
	}
	var models []WatchEntryModel
	if err := s.db.Where("profile_id = ?", profileID).
		Order("watched_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return []domain.WatchEntry{}, nil
	}
	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.VideoID)
	}
	var videoModels []VideoModel
	if err := s.db.Where("id IN ?", ids).Find(&videoModels).Error; err != nil {
		return nil, err
	}
	videosByID := make(map[string]domain.Video, len(videoModels))
	for _, vm := range videoModels {
		videosByID[vm.ID] = videoFromModel(vm)
	}
	entries := make([]domain.WatchEntry, 0, len(models))
	for _, m := range models {
		entry := watchEntryFromModel(m)
		if v, ok := videosByID[m.VideoID]; ok {
			entry.Video = &v
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// UpsertRating stores a rating (one per account per video) and refreshes
// the video's aggregate rating columns in the same transaction.
func (s *GormStore) UpsertRating(r domain.Rating) error {
	model := ratingToModel(r)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "comment", "updated_at"}),
		}).Create(&model).Error; err != nil {
			return err
		}
		var agg struct {
			Avg float64
			Cnt int64
		}
		if err := tx.Model(&RatingModel{}).
			Select("COALESCE(AVG(value), 0) AS avg, COUNT(*) AS cnt").
			Where("video_id = ?", r.VideoID).
			Scan(&agg).Error; err != nil {
			return err
		}
		return tx.Model(&VideoModel{}).
			Where("id = ?", r.VideoID).
			Updates(map[string]any{
				"average_rating": agg.Avg,
				"total_ratings":  agg.Cnt,
				"updated_at":     time.Now().UTC(),
			}).Error
	})
}

// ListRatingsByVideo returns all ratings for a video, newest first.
func (s *GormStore) ListRatingsByVideo(videoID string) ([]domain.Rating, error) {
	var models []RatingModel
	if err := s.db.Where("video_id = ?", videoID).
		Order("created_at DESC, id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	ratings := make([]domain.Rating, 0, len(models))
	for _, m := range models {
		ratings = append(ratings, ratingFromModel(m))
	}
	return ratings, nil
}

// SaveImageAsset stores an image asset record.
func (s *GormStore) SaveImageAsset(a domain.ImageAsset) error {
	model := imageAssetToModel(a)
	return translateDuplicate(s.db.Create(&model).Error)
}

// GetImageAsset retrieves an image asset by ID.
func (s *GormStore) GetImageAsset(id string) (domain.ImageAsset, bool, error) {
	var model ImageAssetModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ImageAsset{}, false, nil
		}
		return domain.ImageAsset{}, false, err
	}
	return imageAssetFromModel(model), true, nil
}

func accountToModel(a domain.Account) AccountModel {
	return AccountModel{
		ID:         a.ID,
		ExternalID: a.ExternalID,
		Email:      a.Email,
		Name:       a.Name,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func accountFromModel(m AccountModel) domain.Account {
	return domain.Account{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Email:      m.Email,
		Name:       m.Name,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func profileToModel(p domain.Profile) ProfileModel {
	return ProfileModel{
		ID:        p.ID,
		AccountID: p.AccountID,
		Name:      p.Name,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func profileFromModel(m ProfileModel) domain.Profile {
	return domain.Profile{
		ID:        m.ID,
		AccountID: m.AccountID,
		Name:      m.Name,
		ImageURL:  m.ImageURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func videoToModel(v domain.Video) VideoModel {
	genres, _ := json.Marshal(v.Genres)
	cast, _ := json.Marshal(v.Cast)
	return VideoModel{
		ID:             v.ID,
		Title:          v.Title,
		Description:    v.Description,
		ThumbnailURL:   v.ThumbnailURL,
		VideoURL:       v.VideoURL,
		TrailerURL:     v.TrailerURL,
		DurationSec:    v.DurationSec,
		Genres:         datatypes.JSON(genres),
		ReleaseYear:    v.ReleaseYear,
		Director:       v.Director,
		Cast:           datatypes.JSON(cast),
		MaturityRating: v.MaturityRating,
		Featured:       v.Featured,
		Trending:       v.Trending,
		IsOriginal:     v.IsOriginal,
		Type:           string(v.Type),
		AverageRating:  v.AverageRating,
		TotalRatings:   v.TotalRatings,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func videoFromModel(m VideoModel) domain.Video {
	var genres, cast []string
	if len(m.Genres) > 0 {
		_ = json.Unmarshal(m.Genres, &genres)
	}
	if len(m.Cast) > 0 {
		_ = json.Unmarshal(m.Cast, &cast)
	}
	return domain.Video{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		ThumbnailURL:   m.ThumbnailURL,
		VideoURL:       m.VideoURL,
		TrailerURL:     m.TrailerURL,
		DurationSec:    m.DurationSec,
		Genres:         genres,
		ReleaseYear:    m.ReleaseYear,
		Director:       m.Director,
		Cast:           cast,
		MaturityRating: m.MaturityRating,
		Featured:       m.Featured,
		Trending:       m.Trending,
		IsOriginal:     m.IsOriginal,
		Type:           domain.VideoType(m.Type),
		AverageRating:  m.AverageRating,
		TotalRatings:   m.TotalRatings,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func watchEntryToModel(e domain.WatchEntry) WatchEntryModel {
	return WatchEntryModel{
		ID:        e.ID,
		ProfileID: e.ProfileID,
		VideoID:   e.VideoID,
		Progress:  e.Progress,
		Completed: e.Completed,
		WatchedAt: e.WatchedAt,
	}
}

func watchEntryFromModel(m WatchEntryModel) domain.WatchEntry {
	return domain.WatchEntry{
		ID:        m.ID,
		ProfileID: m.ProfileID,
		VideoID:   m.VideoID,
		Progress:  m.Progress,
		Completed: m.Completed,
		WatchedAt: m.WatchedAt,
	}
}

func ratingToModel(r domain.Rating) RatingModel {
	return RatingModel{
		ID:        r.ID,
		AccountID: r.AccountID,
		VideoID:   r.VideoID,
		Value:     r.Value,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ratingFromModel(m RatingModel) domain.Rating {
	return domain.Rating{
		ID:        m.ID,
		AccountID: m.AccountID,
		VideoID:   m.VideoID,
		Value:     m.Value,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func subscriptionToModel(s domain.Subscription) SubscriptionModel {
	return SubscriptionModel{
		ID:               s.ID,
		AccountID:        s.AccountID,
		Plan:             string(s.Plan),
		Status:           string(s.Status),
		CurrentPeriodEnd: s.CurrentPeriodEnd,
		CreatedAt:        s.CreatedAt,
	}
}

func subscriptionFromModel(m SubscriptionModel) domain.Subscription {
	return domain.Subscription{
		ID:               m.ID,
		AccountID:        m.AccountID,
		Plan:             domain.SubscriptionPlan(m.Plan),
		Status:           domain.SubscriptionStatus(m.Status),
		CurrentPeriodEnd: m.CurrentPeriodEnd,
		CreatedAt:        m.CreatedAt,
	}
}

func imageAssetToModel(a domain.ImageAsset) ImageAssetModel {
	return ImageAssetModel{
		ID:          a.ID,
		Key:         a.Key,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		Width:       a.Width,
		Height:      a.Height,
		CreatedAt:   a.CreatedAt,
	}
}

func imageAssetFromModel(m ImageAssetModel) domain.ImageAsset {
	return domain.ImageAsset{
		ID:          m.ID,
		Key:         m.Key,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		Width:       m.Width,
		Height:      m.Height,
		CreatedAt:   m.CreatedAt,
	}
}
