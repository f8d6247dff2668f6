package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"article-agent/backend/internal/interfaces"
	"article-agent/backend/internal/service"
)

// ArticleHandler serves article CRUD for the user named in X-User-ID.
type ArticleHandler struct {
	articles interfaces.ArticleService
}

func NewArticleHandler(articles interfaces.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// ListArticles godoc
// @Summary      List articles
// @Description  Admins see every article, other users only their own. Newest first, 15 per page.
// @Tags         Articles
// @Produce      json
// @Param        X-User-ID  header    string  true   "Acting user"
// @Param        page       query     int     false  "Page number, starting at 1"
// @Success      200        {object}  model.ArticlePage
// @Failure      400        {object}  ErrorResponse
// @Failure      401        {object}  ErrorResponse
// @Router       /articles [get]
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "page must be a positive integer"})
			return
		}
		page = n
	}

	result, err := h.articles.List(r.Context(), UserFromContext(r.Context()), page)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// CreateArticle godoc
// @Summary      Create an article
// @Tags         Articles
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header    string                true  "Acting user"
// @Param        article    body      service.ArticleInput  true  "Article"
// @Success      201        {object}  model.Article
// @Failure      400        {object}  ErrorResponse
// @Failure      401        {object}  ErrorResponse
// @Failure      409        {object}  ErrorResponse
// @Router       /articles [post]
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var in service.ArticleInput
	if err := decodeAndValidate(r, &in); err != nil {
		respondWithError(w, err)
		return
	}

	article, err := h.articles.Create(r.Context(), UserFromContext(r.Context()), &in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, article)
}

// GetArticle godoc
// @Summary      Show an article
// @Tags         Articles
// @Produce      json
// @Param        X-User-ID  header    string  true  "Acting user"
// @Param        articleID  path      string  true  "Article ID"
// @Success      200        {object}  model.Article
// @Failure      401        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /articles/{articleID} [get]
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.Get(r.Context(), UserFromContext(r.Context()), chi.URLParam(r, "articleID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, article)
}

// UpdateArticle godoc
// @Summary      Update an article
// @Description  Replaces title, description, date and status. The slug follows the title.
// @Tags         Articles
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header    string                true  "Acting user"
// @Param        articleID  path      string                true  "Article ID"
// @Param        article    body      service.ArticleInput  true  "Article"
// @Success      200        {object}  model.Article
// @Failure      400        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Failure      409        {object}  ErrorResponse
// @Router       /articles/{articleID} [put]
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var in service.ArticleInput
	if err := decodeAndValidate(r, &in); err != nil {
		respondWithError(w, err)
		return
	}

	article, err := h.articles.Update(r.Context(), UserFromContext(r.Context()), chi.URLParam(r, "articleID"), &in)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, article)
}

// DeleteArticle godoc
// @Summary      Delete an article
// @Tags         Articles
// @Produce      json
// @Param        X-User-ID  header    string  true  "Acting user"
// @Param        articleID  path      string  true  "Article ID"
// @Success      200        {object}  StatusResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /articles/{articleID} [delete]
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.articles.Delete(r.Context(), UserFromContext(r.Context()), chi.URLParam(r, "articleID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "Article deleted successfully!"})
}

