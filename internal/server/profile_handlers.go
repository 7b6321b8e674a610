package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Usmankh4/netflixclone/internal/util"
	"github.com/Usmankh4/netflixclone/pkg/domain"
)

const profileDetailHistorySize = 10

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request, account domain.Account) {
	switch r.Method {
	case http.MethodGet:
		profiles, err := s.app.ListProfiles(account)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"profiles": profiles,
			"count":    len(profiles),
		})
	case http.MethodPost:
		if !s.allowWrite(w, r) {
			return
		}
		var req struct {
			Name     string `json:"name"`
			ImageURL string `json:"imageUrl"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		profile, err := s.app.CreateProfile(account, req.Name, req.ImageURL)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		util.LoggerFromContext(r.Context()).Info("profile created",
			"account_id", account.ID, "profile_id", profile.ID)
		writeJSON(w, http.StatusCreated, profile)
	default:
		methodNotAllowed(w)
	}
}

// /profiles/{id}, /profiles/{id}/favorites[/{videoId}],
// /profiles/{id}/history, /profiles/{id}/avatar
func (s *Server) handleProfileSubtree(w http.ResponseWriter, r *http.Request, account domain.Account) {
	path := strings.TrimPrefix(r.URL.Path, "/profiles/")
	parts := strings.Split(path, "/")
	profileID := parts[0]
	if profileID == "" {
		notFound(w, "not found")
		return
	}

	switch {
	case len(parts) == 1:
		s.handleProfileByID(w, r, account, profileID)
	case len(parts) == 2 && parts[1] == "favorites":
		s.handleListFavorites(w, r, account, profileID)
	case len(parts) == 3 && parts[1] == "favorites" && parts[2] != "":
		s.handleFavoriteToggle(w, r, account, profileID, parts[2])
	case len(parts) == 2 && parts[1] == "history":
		s.handleHistory(w, r, account, profileID)
	case len(parts) == 2 && parts[1] == "avatar":
		s.handleAvatarUpload(w, r, account, profileID)
	default:
		notFound(w, "not found")
	}
}

type profileDetail struct {
	domain.Profile
	Favorites []domain.Video      `json:"favorites"`
	History   []domain.WatchEntry `json:"watchHistory"`
}

func (s *Server) handleProfileByID(w http.ResponseWriter, r *http.Request, account domain.Account, profileID string) {
	switch r.Method {
	case http.MethodGet:
		profile, err := s.app.GetProfile(account, profileID)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		favorites, err := s.app.ListFavorites(account, profileID)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		history, err := s.app.WatchHistory(account, profileID, profileDetailHistorySize)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profileDetail{
			Profile:   profile,
			Favorites: favorites,
			History:   history,
		})
	case http.MethodPut:
		if !s.allowWrite(w, r) {
			return
		}
		var req struct {
			Name     string `json:"name"`
			ImageURL string `json:"imageUrl"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		profile, err := s.app.UpdateProfile(account, profileID, req.Name, req.ImageURL)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	case http.MethodDelete:
		if !s.allowWrite(w, r) {
			return
		}
		if err := s.app.DeleteProfile(account, profileID); err != nil {
			writeAppError(w, r, err)
			return
		}
		util.LoggerFromContext(r.Context()).Info("profile deleted",
			"account_id", account.ID, "profile_id", profileID)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request, account domain.Account, profileID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	videos, err := s.app.ListFavorites(account, profileID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"videos": videos,
		"count":  len(videos),
	})
}

func (s *Server) handleFavoriteToggle(w http.ResponseWriter, r *http.Request, account domain.Account, profileID, videoID string) {
	logger := util.LoggerFromContext(r.Context())
	switch r.Method {
	case http.MethodPost:
		if !s.allowWrite(w, r) {
			return
		}
		if err := s.app.AddFavorite(account, profileID, videoID); err != nil {
			writeAppError(w, r, err)
			return
		}
		logger.Info("favorite added",
			"account_id", account.ID, "profile_id", profileID, "video_id", videoID)
		writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
	case http.MethodDelete:
		if !s.allowWrite(w, r) {
			return
		}
		if err := s.app.RemoveFavorite(account, profileID, videoID); err != nil {
			writeAppError(w, r, err)
			return
		}
		logger.Info("favorite removed",
			"account_id", account.ID, "profile_id", profileID, "video_id", videoID)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, account domain.Account, profileID string) {
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			val, err := strconv.Atoi(raw)
			if err != nil || val < 1 {
				writeError(w, http.StatusBadRequest, "invalid value "+strconv.Quote(raw)+" for parameter limit")
				return
			}
			limit = val
		}
		entries, err := s.app.WatchHistory(account, profileID, limit)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"history": entries,
			"count":   len(entries),
		})
	case http.MethodPost:
		if !s.allowWrite(w, r) {
			return
		}
		var req struct {
			VideoID   string `json:"videoId"`
			Progress  int    `json:"progress"`
			Completed bool   `json:"completed"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.VideoID) == "" {
			writeError(w, http.StatusBadRequest, "videoId is required")
			return
		}
		entry, err := s.app.RecordWatch(account, profileID, req.VideoID, req.Progress, req.Completed)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAvatarUpload(w http.ResponseWriter, r *http.Request, account domain.Account, profileID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowUpload(w, r) {
		return
	}
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()
	profile, asset, err := s.app.UploadAvatar(r.Context(), account, profileID, header.Filename, file, header.Size)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	util.LoggerFromContext(r.Context()).Info("avatar uploaded",
		"account_id", account.ID, "profile_id", profileID, "asset_id", asset.ID)
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/assets/")
	if id == "" || strings.Contains(id, "/") {
		notFound(w, "not found")
		return
	}
	url, err := s.app.AssetURL(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
