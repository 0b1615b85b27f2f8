package catalog

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tbourn/go-movie-backend/internal/domain"
)

const (
	// MaxPage is the last page TMDB will serve.
	MaxPage = 500

	placeholderImage = "https://via.placeholder.com/500x750?text=No+Image"
	noDescription    = "No description available"
	notAvailable     = "N/A"
	fallbackCategory = "english"
	defaultSortBy    = "popularity.desc"
)

// genreCategories maps TMDB genre ids to the category slugs movies carry.
var genreCategories = map[int]string{
	28:    "action",
	12:    "adventure",
	16:    "animation",
	35:    "comedy",
	80:    "crime",
	99:    "documentary",
	18:    "drama",
	10751: "family",
	14:    "fantasy",
	36:    "history",
	27:    "horror",
	10402: "music",
	9648:  "mystery",
	10749: "romance",
	878:   "sci-fi",
	10770: "tv-movie",
	53:    "thriller",
	10752: "war",
	37:    "western",
}

// categoryGenres are the browse categories backed by a single genre.
var categoryGenres = map[string]int{
	"action":   28,
	"comedy":   35,
	"drama":    18,
	"thriller": 53,
	"horror":   27,
	"romance":  10749,
}

// regionLanguages are the browse categories backed by an original language.
var regionLanguages = map[string]string{
	"hindi":  "hi",
	"tamil":  "ta",
	"kdrama": "ko",
}

// Page is one page of catalog results.
type Page struct {
	Results      []domain.Movie `json:"results"`
	Page         int            `json:"page"`
	TotalPages   int            `json:"totalPages"`
	TotalResults int            `json:"totalResults"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Video is a TMDB video entry.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// CastMember is a credited actor.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// Details is the full record of one movie.
type Details struct {
	domain.Movie
	Genres      []Genre        `json:"genres"`
	Videos      []Video        `json:"videos"`
	Cast        []CastMember   `json:"cast"`
	Similar     []domain.Movie `json:"similar"`
	DownloadURL string         `json:"downloadUrl"`
}

// DiscoverParams filters Discover.
type DiscoverParams struct {
	Genres []int
	SortBy string
	Page   int
}

type tmdbMovie struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Overview         string   `json:"overview"`
	ReleaseDate      string   `json:"release_date"`
	OriginalLanguage string   `json:"original_language"`
	VoteAverage      *float64 `json:"vote_average"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	GenreIDs         []int    `json:"genre_ids"`
	Genres           []Genre  `json:"genres"`
	Runtime          int      `json:"runtime"`
	Videos           *struct {
		Results []Video `json:"results"`
	} `json:"videos"`
	Credits *struct {
		Cast []CastMember `json:"cast"`
	} `json:"credits"`
	Similar *struct {
		Results []tmdbMovie `json:"results"`
	} `json:"similar"`
}

type tmdbPage struct {
	Page         int         `json:"page"`
	Results      []tmdbMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// Popular lists the currently popular movies.
func (c *Client) Popular(ctx context.Context, page int) (Page, error) {
	return c.page(ctx, "/movie/popular", url.Values{
		"language":           {"en-US"},
		"append_to_response": {"videos"},
	}, page)
}

// TopRated lists the highest-rated movies.
func (c *Client) TopRated(ctx context.Context, page int) (Page, error) {
	return c.page(ctx, "/movie/top_rated", url.Values{"language": {"en-US"}}, page)
}

// Trending lists this week's trending movies.
func (c *Client) Trending(ctx context.Context, page int) (Page, error) {
	return c.page(ctx, "/trending/movie/week", url.Values{}, page)
}

// Search runs a title search. A blank query returns an empty first page
// without calling the catalog.
func (c *Client) Search(ctx context.Context, query string, page int) (Page, error) {
	if c == nil {
		return Page{}, ErrDisabled
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Page{Results: []domain.Movie{}, Page: 1, TotalPages: 1}, nil
	}
	return c.page(ctx, "/search/movie", url.Values{
		"query":    {query},
		"language": {"en-US"},
	}, page)
}

// Discover lists movies matching p. TotalPages never exceeds MaxPage.
func (c *Client) Discover(ctx context.Context, p DiscoverParams) (Page, error) {
	q := url.Values{"language": {"en-US"}}
	if len(p.Genres) > 0 {
		ids := make([]string, len(p.Genres))
		for i, g := range p.Genres {
			ids[i] = strconv.Itoa(g)
		}
		q.Set("with_genres", strings.Join(ids, ","))
	}
	sortBy := strings.TrimSpace(p.SortBy)
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	q.Set("sort_by", sortBy)

	out, err := c.page(ctx, "/discover/movie", q, p.Page)
	if err != nil {
		return out, err
	}
	out.TotalPages = min(out.TotalPages, MaxPage)
	return out, nil
}

// ByCategory lists a browse category: a genre slug, a regional language
// (hindi, tamil, kdrama), top-rated, trending or popular. Unknown categories
// fall back to popular.
func (c *Client) ByCategory(ctx context.Context, category string, page int) (Page, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if lang, ok := regionLanguages[category]; ok {
		return c.page(ctx, "/discover/movie", url.Values{
			"with_original_language": {lang},
			"sort_by":                {defaultSortBy},
		}, page)
	}
	if g, ok := categoryGenres[category]; ok {
		return c.page(ctx, "/discover/movie", url.Values{
			"with_genres": {strconv.Itoa(g)},
			"sort_by":     {defaultSortBy},
			"language":    {"en-US"},
		}, page)
	}
	switch category {
	case "top-rated":
		return c.TopRated(ctx, page)
	case "trending":
		return c.Trending(ctx, page)
	default:
		return c.Popular(ctx, page)
	}
}

// Details fetches one movie with its videos, credits and similar titles.
func (c *Client) Details(ctx context.Context, id int64) (Details, error) {
	if id <= 0 {
		return Details{}, ErrNotFound
	}
	body, err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), url.Values{
		"append_to_response": {"videos,credits,similar"},
		"language":           {"en-US"},
	})
	if err != nil {
		return Details{}, err
	}
	var tm tmdbMovie
	if err := json.Unmarshal(body, &tm); err != nil {
		return Details{}, fmt.Errorf("catalog: decode details: %w", err)
	}
	return c.details(tm), nil
}

func (c *Client) page(ctx context.Context, path string, q url.Values, page int) (Page, error) {
	page = clampPage(page)
	q.Set("page", strconv.Itoa(page))
	body, err := c.get(ctx, path, q)
	if err != nil {
		return Page{}, err
	}
	var tp tmdbPage
	if err := json.Unmarshal(body, &tp); err != nil {
		return Page{}, fmt.Errorf("catalog: decode page: %w", err)
	}
	out := Page{
		Results:      make([]domain.Movie, 0, len(tp.Results)),
		Page:         tp.Page,
		TotalPages:   tp.TotalPages,
		TotalResults: tp.TotalResults,
	}
	if out.Page == 0 {
		out.Page = page
	}
	for _, tm := range tp.Results {
		out.Results = append(out.Results, c.movie(tm))
	}
	return out, nil
}

func clampPage(p int) int {
	if p < 1 {
		return 1
	}
	return min(p, MaxPage)
}

// movie maps a list entry. Runtime is absent from list endpoints.
func (c *Client) movie(tm tmdbMovie) domain.Movie {
	var genreID int
	if len(tm.GenreIDs) > 0 {
		genreID = tm.GenreIDs[0]
	}
	m := c.base(tm, genreID)
	m.Duration = notAvailable
	return m
}

func (c *Client) details(tm tmdbMovie) Details {
	var genreID int
	if len(tm.Genres) > 0 {
		genreID = tm.Genres[0].ID
	}
	d := Details{
		Movie:   c.base(tm, genreID),
		Genres:  []Genre{},
		Videos:  []Video{},
		Cast:    []CastMember{},
		Similar: []domain.Movie{},
	}
	d.Duration = formatRuntime(tm.Runtime)
	if tm.Genres != nil {
		d.Genres = tm.Genres
	}
	if tm.Videos != nil && tm.Videos.Results != nil {
		d.Videos = tm.Videos.Results
	}
	if tm.Credits != nil {
		cast := tm.Credits.Cast
		if len(cast) > 10 {
			cast = cast[:10]
		}
		d.Cast = append(d.Cast, cast...)
	}
	if tm.Similar != nil {
		for i, s := range tm.Similar.Results {
			if i == 8 {
				break
			}
			d.Similar = append(d.Similar, c.movie(s))
		}
	}
	d.DownloadURL = "https://www.justwatch.com/us/search?q=" + url.QueryEscape(tm.Title)
	return d
}

func (c *Client) base(tm tmdbMovie, genreID int) domain.Movie {
	m := domain.Movie{
		ID:          tm.ID,
		Title:       tm.Title,
		Category:    categoryOf(genreID),
		Language:    languageOf(tm.OriginalLanguage),
		Year:        yearOf(tm.ReleaseDate),
		Description: tm.Overview,
		Image:       c.ImageURL(tm.PosterPath, "w500"),
		Backdrop:    c.ImageURL(tm.BackdropPath, "original"),
	}
	if tm.VoteAverage != nil {
		m.Rating = math.Round(*tm.VoteAverage*10) / 10
	}
	if m.Description == "" {
		m.Description = noDescription
	}
	if tm.Videos != nil {
		m.Trailer = pickTrailer(tm.Videos.Results)
	}
	return m
}

// ImageURL returns the sized image URL for path, or a placeholder image.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return placeholderImage
	}
	base := "https://image.tmdb.org/t/p"
	if c != nil && c.imageURL != "" {
		base = c.imageURL
	}
	return base + "/" + size + path
}

func categoryOf(genreID int) string {
	if cat, ok := genreCategories[genreID]; ok {
		return cat
	}
	return fallbackCategory
}

func languageOf(code string) string {
	if code == "hi" {
		return "Hindi"
	}
	return "English"
}

func yearOf(release string) string {
	year, _, _ := strings.Cut(release, "-")
	if year == "" {
		return notAvailable
	}
	return year
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return notAvailable
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// pickTrailer prefers a YouTube trailer and falls back to the first video.
func pickTrailer(videos []Video) *domain.Trailer {
	for _, v := range videos {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			return &domain.Trailer{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type}
		}
	}
	if len(videos) == 0 {
		return nil
	}
	v := videos[0]
	return &domain.Trailer{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type}
}
