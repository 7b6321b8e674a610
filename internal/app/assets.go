package app

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Usmankh4/netflixclone/pkg/domain"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadAvatar stores an uploaded image and points the profile at it. The
// profile's imageUrl becomes a stable /assets/{id} path served by this API.
func (a *App) UploadAvatar(ctx context.Context, account domain.Account, profileID, filename string, r io.Reader, size int64) (domain.Profile, domain.ImageAsset, error) {
	profile, err := a.authorizeProfile(account, profileID)
	if err != nil {
		return domain.Profile{}, domain.ImageAsset{}, err
	}
	if filename == "" {
		return domain.Profile{}, domain.ImageAsset{}, fmt.Errorf("%w: filename required", ErrValidation)
	}
	if size <= 0 {
		return domain.Profile{}, domain.ImageAsset{}, fmt.Errorf("%w: empty upload", ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	contentType := mime.TypeByExtension(ext)
	if !allowedImageTypes[contentType] {
		return domain.Profile{}, domain.ImageAsset{}, fmt.Errorf("%w: unsupported image type %q", ErrValidation, ext)
	}

	assetID := uuid.NewString()
	key := "avatars/" + assetID + ext
	if err := a.images.Put(ctx, key, r, size, contentType); err != nil {
		return domain.Profile{}, domain.ImageAsset{}, fmt.Errorf("store avatar: %w", err)
	}

	asset := domain.ImageAsset{
		ID:          assetID,
		Key:         key,
		ContentType: contentType,
		SizeBytes:   size,
		CreatedAt:   a.now(),
	}
	if err := a.store.SaveImageAsset(asset); err != nil {
		_ = a.images.Delete(ctx, key)
		return domain.Profile{}, domain.ImageAsset{}, fmt.Errorf("save image asset: %w", err)
	}

	profile.ImageURL = "/assets/" + assetID
	profile.UpdatedAt = a.now()
	if err := a.store.SaveProfile(profile); err != nil {
		return domain.Profile{}, domain.ImageAsset{}, fmt.Errorf("save profile: %w", err)
	}
	return profile, asset, nil
}

// AssetURL resolves an image asset to a short-lived download URL.
func (a *App) AssetURL(ctx context.Context, assetID string) (string, error) {
	asset, ok, err := a.store.GetImageAsset(assetID)
	if err != nil {
		return "", fmt.Errorf("get image asset: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: asset %s", ErrNotFound, assetID)
	}
	url, err := a.images.PresignGet(ctx, asset.Key, a.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign asset: %w", err)
	}
	return url, nil
}
