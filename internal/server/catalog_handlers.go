package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Usmankh4/netflixclone/internal/util"
	"github.com/Usmankh4/netflixclone/pkg/domain"
	"github.com/Usmankh4/netflixclone/pkg/store"
)

const maxPageSize = 50

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	filter, err := parseCatalogFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := s.app.BrowseCatalog(filter)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// /videos/featured/list, /videos/trending/list, /videos/{id},
// /videos/{id}/ratings
func (s *Server) handleVideoSubtree(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/videos/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		notFound(w, "not found")
		return
	}

	if len(parts) == 1 {
		s.handleVideoByID(w, r, id)
		return
	}

	switch {
	case id == "featured" && parts[1] == "list":
		s.handleRail(w, r, s.app.FeaturedRail)
	case id == "trending" && parts[1] == "list":
		s.handleRail(w, r, s.app.TrendingRail)
	case parts[1] == "ratings":
		s.handleRatings(w, r, id)
	default:
		notFound(w, "not found")
	}
}

func (s *Server) handleRail(w http.ResponseWriter, r *http.Request, load func(context.Context) ([]domain.Video, error)) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	videos, err := load(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if videos == nil {
		videos = []domain.Video{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"videos": videos,
		"count":  len(videos),
	})
}

func (s *Server) handleVideoByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	video, err := s.app.GetVideo(id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	ratings, err := s.app.ListRatings(id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videoDetail{Video: video, Ratings: ratings})
}

type videoDetail struct {
	domain.Video
	Ratings []domain.Rating `json:"ratings"`
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request, videoID string) {
	switch r.Method {
	case http.MethodGet:
		ratings, err := s.app.ListRatings(videoID)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ratings": ratings,
			"count":   len(ratings),
		})
	case http.MethodPost:
		account, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		if !s.allowWrite(w, r) {
			return
		}
		var req struct {
			Value   int    `json:"value"`
			Comment string `json:"comment"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		rating, err := s.app.RateVideo(account, videoID, req.Value, req.Comment)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		util.LoggerFromContext(r.Context()).Info("video rated",
			"account_id", account.ID, "video_id", videoID, "value", req.Value)
		writeJSON(w, http.StatusCreated, rating)
	default:
		methodNotAllowed(w)
	}
}

func parseCatalogFilter(query url.Values) (store.CatalogFilter, error) {
	filter := store.CatalogFilter{
		Type:   strings.TrimSpace(query.Get("type")),
		Genre:  strings.TrimSpace(query.Get("genre")),
		Search: strings.TrimSpace(query.Get("search")),
	}
	var err error
	if filter.Featured, err = parseBoolParam(query, "featured"); err != nil {
		return filter, err
	}
	if filter.Trending, err = parseBoolParam(query, "trending"); err != nil {
		return filter, err
	}
	if filter.IsOriginal, err = parseBoolParam(query, "isOriginal"); err != nil {
		return filter, err
	}
	if filter.Limit, err = parseIntParam(query, "limit"); err != nil {
		return filter, err
	}
	if filter.Limit > maxPageSize {
		return filter, fmt.Errorf("parameter limit must be between 1 and %d", maxPageSize)
	}
	if filter.Page, err = parseIntParam(query, "page"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseBoolParam(query url.Values, name string) (bool, error) {
	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return false, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &paramError{name: name, raw: raw}
	}
	return val, nil
}

func parseIntParam(query url.Values, name string) (int, error) {
	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return 0, &paramError{name: name, raw: raw}
	}
	return val, nil
}

type paramError struct {
	name string
	raw  string
}

func (e *paramError) Error() string {
	return "invalid value " + strconv.Quote(e.raw) + " for parameter " + e.name
}
