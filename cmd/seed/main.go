package main

import (
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Usmankh4/netflixclone/internal/config"
	"github.com/Usmankh4/netflixclone/internal/util"
	"github.com/Usmankh4/netflixclone/pkg/domain"
	"github.com/Usmankh4/netflixclone/pkg/store"
)

const sampleVideoURL = "https://sample-videos.com/video123/mp4/720/big_buck_bunny_720p_1mb.mp4"

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.InitLogger(cfg.LogLevel)

	st, err := store.NewGormStore(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to init postgres store: %v", err)
	}

	now := time.Now().UTC()
	for i, video := range catalog() {
		video.ID = uuid.NewString()
		video.VideoURL = sampleVideoURL
		// Stagger creation times so newest-first ordering is stable.
		video.CreatedAt = now.Add(time.Duration(i) * time.Second)
		video.UpdatedAt = video.CreatedAt
		if err := st.SaveVideo(video); err != nil {
			log.Fatalf("failed to seed %q: %v", video.Title, err)
		}
	}
	slog.Info("catalog seeded", "videos", len(catalog()))
}

func catalog() []domain.Video {
	return []domain.Video{
		{
			Title:          "Stranger Things",
			Description:    "When a young boy vanishes, a small town uncovers a mystery involving secret experiments, terrifying supernatural forces and one strange little girl.",
			ThumbnailURL:   "https://image.tmdb.org/t/p/w500/49WJfeN0moxb9IPfGn8AIqMGskD.jpg",
			TrailerURL:     "https://www.youtube.com/watch?v=b9EkMc79ZSU",
			DurationSec:    3600,
			Genres:         []string{"Sci-Fi", "Horror", "Drama"},
			ReleaseYear:    2016,
			Director:       "The Duffer Brothers",
			Cast:           []string{"Millie Bobby Brown", "Finn Wolfhard", "Winona Ryder"},
			MaturityRating: "TV-14",
			Featured:       true,
			Trending:       true,
			IsOriginal:     true,
			Type:           domain.TypeSeries,
		},
		{
			Title:          "The Witcher",
			Description:    "Geralt of Rivia, a mutated monster-hunter for hire, journeys toward his destiny in a turbulent world where people often prove more wicked than beasts.",
			ThumbnailURL:   "https://image.tmdb.org/t/p/w500/7vjaCdMw15FEbXyLQTVa04URsPm.jpg",
			TrailerURL:     "https://www.youtube.com/watch?v=ndl1W4ltcmg",
			DurationSec:    3540,
			Genres:         []string{"Fantasy", "Action", "Adventure"},
			ReleaseYear:    2019,
			Director:       "Lauren Schmidt Hissrich",
			Cast:           []string{"Henry Cavill", "Freya Allan", "Anya Chalotra"},
			MaturityRating: "TV-MA",
			Featured:       true,
			Trending:       true,
			IsOriginal:     true,
			Type:           domain.TypeSeries,
		},
		{
			Title:          "The Irishman",
			Description:    "Hitman Frank Sheeran looks back at the secrets he kept as a loyal member of the Bufalino crime family.",
			ThumbnailURL:   "https://image.tmdb.org/t/p/w500/mbm8k3GFhXS0ROd9AD1gqYbIFbM.jpg",
			TrailerURL:     "https://www.youtube.com/watch?v=WHXxVmeGQUc",
			DurationSec:    9540,
			Genres:         []string{"Crime", "Drama", "Biography"},
			ReleaseYear:    2019,
			Director:       "Martin Scorsese",
			Cast:           []string{"Robert De Niro", "Al Pacino", "Joe Pesci"},
			MaturityRating: "R",
			Featured:       true,
			IsOriginal:     true,
			Type:           domain.TypeMovie,
		},
		{
			Title:          "Extraction",
			Description:    "A hardened mercenary's mission becomes a soul-searching race to survive when he's sent into Bangladesh to rescue a drug lord's kidnapped son.",
			ThumbnailURL:   "https://image.tmdb.org/t/p/w500/wlfDxbGEsW58vGhFljKkcR5IxDj.jpg",
			TrailerURL:     "https://www.youtube.com/watch?v=L6P3nI6VnlY",
			DurationSec:    6900,
			Genres:         []string{"Action", "Thriller"},
			ReleaseYear:    2020,
			Director:       "Sam Hargrave",
			Cast:           []string{"Chris Hemsworth", "Rudhraksh Jaiswal", "Randeep Hooda"},
			MaturityRating: "R",
			Trending:       true,
			IsOriginal:     true,
			Type:           domain.TypeMovie,
		},
		{
			Title:          "The Queen's Gambit",
			Description:    "In a 1950s orphanage, a young girl reveals an astonishing talent for chess and begins an unlikely journey to stardom while grappling with addiction.",
			ThumbnailURL:   "https://image.tmdb.org/t/p/w500/zU0htwkhNvBQdVSIKB9s6hgVeFK.jpg",
			TrailerURL:     "https://www.youtube.com/watch?v=CDrieqwSdgI",
			DurationSec:    2340,
			Genres:         []string{"Drama"},
			ReleaseYear:    2020,
			Director:       "Scott Frank",
			Cast:           []string{"Anya Taylor-Joy", "Bill Camp", "Moses Ingram"},
			MaturityRating: "TV-MA",
			Trending:       true,
			IsOriginal:     true,
			Type:           domain.TypeSeries,
		},
		{
			Title:          "The Crown",
			Description:    "This drama follows the political rivalries and romance of Queen Elizabeth II's reign and the events that shaped the second half of the 20th century.",
			ThumbnailURL:   "https://image.tmdb.org/t/p/w500/vUUqzWa2LnHIVqkaKVlVGkVcZIW.jpg",
			TrailerURL:     "https://www.youtube.com/watch?v=JWtnJjn6ng0",
			DurationSec:    3300,
			Genres:         []string{"Drama", "History", "Biography"},
			ReleaseYear:    2016,
			Director:       "Peter Morgan",
			Cast:           []string{"Olivia Colman", "Tobias Menzies", "Helena Bonham Carter"},
			MaturityRating: "TV-MA",
			Featured:       true,
			IsOriginal:     true,
			Type:           domain.TypeSeries,
		},
		{
			Title:          "Inception",
			Description:    "A thief who steals corporate secrets through the use of dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
			ThumbnailURL:   "https://image.tmdb.org/t/p/w500/9gk7adHYeDvHkCSEqAvQNLV5Uge.jpg",
			TrailerURL:     "https://www.youtube.com/watch?v=YoHD9XEInc0",
			DurationSec:    8880,
			Genres:         []string{"Action", "Sci-Fi", "Thriller"},
			ReleaseYear:    2010,
			Director:       "Christopher Nolan",
			Cast:           []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Ellen Page"},
			MaturityRating: "PG-13",
			Featured:       true,
			Type:           domain.TypeMovie,
		},
		{
			Title:          "The Dark Knight",
			Description:    "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
			ThumbnailURL:   "https://image.tmdb.org/t/p/w500/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
			TrailerURL:     "https://www.youtube.com/watch?v=EXeTwQWrcwY",
			DurationSec:    9120,
			Genres:         []string{"Action", "Crime", "Drama"},
			ReleaseYear:    2008,
			Director:       "Christopher Nolan",
			Cast:           []string{"Christian Bale", "Heath Ledger", "Aaron Eckhart"},
			MaturityRating: "PG-13",
			Trending:       true,
			Type:           domain.TypeMovie,
		},
		{
			Title:          "Breaking Bad",
			Description:    "A high school chemistry teacher diagnosed with inoperable lung cancer turns to manufacturing and selling methamphetamine in order to secure his family's future.",
			ThumbnailURL:   "https://image.tmdb.org/t/p/w500/ggFHVNu6YYI5L9pCfOacjizRGt.jpg",
			TrailerURL:     "https://www.youtube.com/watch?v=HhesaQXLuRY",
			DurationSec:    2940,
			Genres:         []string{"Crime", "Drama", "Thriller"},
			ReleaseYear:    2008,
			Director:       "Vince Gilligan",
			Cast:           []string{"Bryan Cranston", "Aaron Paul", "Anna Gunn"},
			MaturityRating: "TV-MA",
			Featured:       true,
			Type:           domain.TypeSeries,
		},
		{
			Title:          "Interstellar",
			Description:    "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
			ThumbnailURL:   "https://image.tmdb.org/t/p/w500/gEU2QniE6E77NI6lCU6MxlNBvIx.jpg",
			TrailerURL:     "https://www.youtube.com/watch?v=zSWdZVtXT7E",
			DurationSec:    10140,
			Genres:         []string{"Adventure", "Drama", "Sci-Fi"},
			ReleaseYear:    2014,
			Director:       "Christopher Nolan",
			Cast:           []string{"Matthew McConaughey", "Anne Hathaway", "Jessica Chastain"},
			MaturityRating: "PG-13",
			Featured:       true,
			Trending:       true,
			Type:           domain.TypeMovie,
		},
	}
}
