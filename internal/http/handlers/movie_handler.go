// Catalog HTTP handlers.
//
// Thin pass-throughs to the remote movie catalog:
//   - GET /movies/popular, /movies/top-rated, /movies/trending
//   - GET /movies/search?q=&page=
//   - GET /movies/discover?genres=&sort_by=&page=
//   - GET /movies/category/{category}
//   - GET /movies/{movieId}
//
// All of them answer 503 when no catalog is configured.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-movie-backend/internal/catalog"
)

type pageFunc func(ctx context.Context, page int) (catalog.Page, error)

// Popular godoc
// @ID          popularMovies
// @Summary     Popular movies
// @Tags        Movies
// @Produce     json
//
// @Param       page  query  int  false "Page (1..500)"  default(1)
//
// @Success     200  {object}  catalog.Page
// @Failure     502  {object}  handlers.ErrorResponse "Catalog error"
// @Failure     503  {object}  handlers.ErrorResponse "Catalog disabled"
// @Router      /movies/popular [get]
func (h *Handlers) Popular(c *gin.Context) {
	h.listPage(c, func(ctx context.Context, p int) (catalog.Page, error) { return h.catalog.Popular(ctx, p) })
}

// TopRated godoc
// @ID          topRatedMovies
// @Summary     Top rated movies
// @Tags        Movies
// @Produce     json
//
// @Param       page  query  int  false "Page (1..500)"  default(1)
//
// @Success     200  {object}  catalog.Page
// @Failure     502  {object}  handlers.ErrorResponse "Catalog error"
// @Failure     503  {object}  handlers.ErrorResponse "Catalog disabled"
// @Router      /movies/top-rated [get]
func (h *Handlers) TopRated(c *gin.Context) {
	h.listPage(c, func(ctx context.Context, p int) (catalog.Page, error) { return h.catalog.TopRated(ctx, p) })
}

// Trending godoc
// @ID          trendingMovies
// @Summary     Trending movies this week
// @Tags        Movies
// @Produce     json
//
// @Param       page  query  int  false "Page (1..500)"  default(1)
//
// @Success     200  {object}  catalog.Page
// @Failure     502  {object}  handlers.ErrorResponse "Catalog error"
// @Failure     503  {object}  handlers.ErrorResponse "Catalog disabled"
// @Router      /movies/trending [get]
func (h *Handlers) Trending(c *gin.Context) {
	h.listPage(c, func(ctx context.Context, p int) (catalog.Page, error) { return h.catalog.Trending(ctx, p) })
}

// SearchMovies godoc
// @ID          searchMovies
// @Summary     Search the catalog by title
// @Description A blank query returns an empty page.
// @Tags        Movies
// @Produce     json
//
// @Param       q     query  string  false "Title search"  example(inception)
// @Param       page  query  int     false "Page (1..500)"  default(1)
//
// @Success     200  {object}  catalog.Page
// @Failure     502  {object}  handlers.ErrorResponse "Catalog error"
// @Failure     503  {object}  handlers.ErrorResponse "Catalog disabled"
// @Router      /movies/search [get]
func (h *Handlers) SearchMovies(c *gin.Context) {
	q := c.Query("q")
	h.listPage(c, func(ctx context.Context, p int) (catalog.Page, error) { return h.catalog.Search(ctx, q, p) })
}

// Discover godoc
// @ID          discoverMovies
// @Summary     Discover movies by genre
// @Tags        Movies
// @Produce     json
//
// @Param       genres   query  string  false "Comma separated TMDB genre ids"  example(28,12)
// @Param       sort_by  query  string  false "TMDB sort order"  default(popularity.desc)
// @Param       page     query  int     false "Page (1..500)"  default(1)
//
// @Success     200  {object}  catalog.Page
// @Failure     400  {object}  handlers.ErrorResponse "Bad genre id"
// @Failure     502  {object}  handlers.ErrorResponse "Catalog error"
// @Failure     503  {object}  handlers.ErrorResponse "Catalog disabled"
// @Router      /movies/discover [get]
func (h *Handlers) Discover(c *gin.Context) {
	genres, err := parseGenres(c.Query("genres"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "genres must be comma separated integers")
		return
	}
	sortBy := c.Query("sort_by")
	h.listPage(c, func(ctx context.Context, p int) (catalog.Page, error) {
		return h.catalog.Discover(ctx, catalog.DiscoverParams{Genres: genres, SortBy: sortBy, Page: p})
	})
}

// MoviesByCategory godoc
// @ID          moviesByCategory
// @Summary     Browse a category
// @Description A genre slug, hindi, tamil, kdrama, top-rated or trending. Anything else lists popular movies.
// @Tags        Movies
// @Produce     json
//
// @Param       category  path   string  true  "Category"  example(action)
// @Param       page      query  int     false "Page (1..500)"  default(1)
//
// @Success     200  {object}  catalog.Page
// @Failure     502  {object}  handlers.ErrorResponse "Catalog error"
// @Failure     503  {object}  handlers.ErrorResponse "Catalog disabled"
// @Router      /movies/category/{category} [get]
func (h *Handlers) MoviesByCategory(c *gin.Context) {
	cat := c.Param("category")
	h.listPage(c, func(ctx context.Context, p int) (catalog.Page, error) { return h.catalog.ByCategory(ctx, cat, p) })
}

// MovieDetails godoc
// @ID          movieDetails
// @Summary     Movie details
// @Description Full record with videos, cast and similar titles.
// @Tags        Movies
// @Produce     json
//
// @Param       movieId  path  int  true  "Movie ID"  example(27205)
//
// @Success     200  {object}  catalog.Details
// @Failure     400  {object}  handlers.ErrorResponse "Bad movie id"
// @Failure     404  {object}  handlers.ErrorResponse "Not in the catalog"
// @Failure     502  {object}  handlers.ErrorResponse "Catalog error"
// @Failure     503  {object}  handlers.ErrorResponse "Catalog disabled"
// @Router      /movies/{movieId} [get]
func (h *Handlers) MovieDetails(c *gin.Context) {
	id, okID := idParam(c, "movieId")
	if !okID {
		return
	}
	if h.catalog == nil {
		writeCatalogError(c, catalog.ErrDisabled)
		return
	}
	d, err := h.catalog.Details(c.Request.Context(), id)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}

func (h *Handlers) listPage(c *gin.Context, fetch pageFunc) {
	if h.catalog == nil {
		writeCatalogError(c, catalog.ErrDisabled)
		return
	}
	p, err := fetch(c.Request.Context(), pageQuery(c))
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

func parseGenres(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		g, err := strconv.Atoi(part)
		if err != nil || g <= 0 {
			return nil, errors.New("bad genre id")
		}
		out = append(out, g)
	}
	return out, nil
}

func writeCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrDisabled):
		fail(c, http.StatusServiceUnavailable, ErrCodeCatalogDisabled, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "movie not found in the catalog")
	case errors.Is(err, catalog.ErrUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeUpstream, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		fail(c, http.StatusGatewayTimeout, ErrCodeUpstream, "catalog timed out")
	default:
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "catalog request failed")
	}
}
