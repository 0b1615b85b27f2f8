// Recommendation HTTP handlers.
//
//   - GET  /recommendations/preferences
//   - POST /recommendations            (personalized, optional candidate pool)
//   - POST /recommendations/similar    (same category or language)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-movie-backend/internal/domain"
)

// RecommendRequest optionally supplies the candidate pool. Without one the
// popular catalog pages are used when the catalog is configured.
type RecommendRequest struct {
	Movies []MovieRequest `json:"movies"`
}

// SimilarRequest asks for movies like Movie among Movies.
type SimilarRequest struct {
	Movie  MovieRequest   `json:"movie" binding:"required"`
	Movies []MovieRequest `json:"movies"`
}

// MoviesResponse wraps a movie list.
type MoviesResponse struct {
	Movies []domain.Movie `json:"movies"`
}

// Preferences godoc
// @ID          preferences
// @Summary     Viewing preferences
// @Description Top three categories over the watchlist and history, plus list sizes.
// @Tags        Recommendations
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  domain.Preferences
// @Router      /recommendations/preferences [get]
func (h *Handlers) Preferences(c *gin.Context) {
	ok(c, http.StatusOK, h.recs.Preferences(c.Request.Context(), userID(c)))
}

// Recommend godoc
// @ID          recommend
// @Summary     Personalized recommendations
// @Description Unseen movies in the caller's favorite categories, best rated first. An empty body uses popular catalog movies as candidates.
// @Tags        Recommendations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.RecommendRequest  false  "Candidate pool"
//
// @Success     200  {object}  handlers.MoviesResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Router      /recommendations [post]
func (h *Handlers) Recommend(c *gin.Context) {
	var req RecommendRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	got := h.recs.Personalized(c.Request.Context(), userID(c), moviesFromRequest(req.Movies))
	ok(c, http.StatusOK, MoviesResponse{Movies: got})
}

// Similar godoc
// @ID          similar
// @Summary     Similar movies
// @Description Movies sharing the category or language of movie, in pool order. Without a pool the first popular catalog page is used.
// @Tags        Recommendations
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SimilarRequest  true  "Movie and pool"
//
// @Success     200  {object}  handlers.MoviesResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     502  {object}  handlers.ErrorResponse "Catalog error"
// @Router      /recommendations/similar [post]
func (h *Handlers) Similar(c *gin.Context) {
	var req SimilarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidMovie, "movie needs an id and a title")
		return
	}
	ctx := c.Request.Context()
	pool := moviesFromRequest(req.Movies)
	if len(pool) == 0 && h.catalog != nil {
		page, err := h.catalog.Popular(ctx, 1)
		if err != nil {
			writeCatalogError(c, err)
			return
		}
		pool = page.Results
	}
	ok(c, http.StatusOK, MoviesResponse{Movies: h.recs.SimilarTo(ctx, movieFromRequest(req.Movie), pool)})
}
