package handlers

import (
	"courier-server/middleware"
	"courier-server/models"
	"courier-server/services"
	"courier-server/utils/errors"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type PostHandler struct {
	postService *services.PostService
}

type SearchResponse struct {
	Results []models.Post `json:"results"`
	Count   int           `json:"count"`
	// Search only covers pages fetched in this request; listings on pages
	// beyond the limit are not considered.
	PagesSearched int `json:"pages_searched"`
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// GET /posts?type=order|traveler&cursor=...
func (h *PostHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	postType := models.PostType(r.URL.Query().Get("type"))
	cursor := r.URL.Query().Get("cursor")

	page, err := h.postService.LoadPage(r.Context(), postType, cursor)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

// GET /posts/search?type=...&q=...&pages=N
func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	postType := models.PostType(r.URL.Query().Get("type"))
	query := r.URL.Query().Get("q")
	if query == "" {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	pages, _ := strconv.Atoi(r.URL.Query().Get("pages"))
	if pages <= 0 {
		pages = 1
	}

	results, pagesSearched, err := h.postService.Search(r.Context(), postType, query, pages)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{
		Results:       results,
		Count:         len(results),
		PagesSearched: pagesSearched,
	})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input struct {
		PostType     models.PostType `json:"post_type"`
		Description  string          `json:"description"`
		Category     string          `json:"category"`
		Price        string          `json:"price"`
		LocationFrom string          `json:"location_from"`
		LocationTo   string          `json:"location_to"`
		Image        string          `json:"image"`
		ContactInfo  string          `json:"contact_info"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, models.Post{
		PostType:     input.PostType,
		Description:  input.Description,
		Category:     input.Category,
		Price:        input.Price,
		LocationFrom: input.LocationFrom,
		LocationTo:   input.LocationTo,
		Image:        input.Image,
		ContactInfo:  input.ContactInfo,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	postID := mux.Vars(r)["id"]

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Post deleted"})
}

// GET /users/{id}/posts
func (h *PostHandler) ByCreator(w http.ResponseWriter, r *http.Request) {
	creatorID := mux.Vars(r)["id"]
	posts, err := h.postService.ByCreator(r.Context(), creatorID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}
