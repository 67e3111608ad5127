package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"termimage/backend/internal/hooks"
	"termimage/backend/internal/logger"
	"termimage/backend/internal/models"
	"termimage/backend/internal/repository"
)

// region --- DTOs ---

// TermForm is the form posted by the add and edit term screens. Event
// handlers receive the complete posted form, including fields not listed here.
type TermForm struct {
	Name        string `form:"name" binding:"required,max=200" example:"Travel"`
	Slug        string `form:"slug" binding:"max=200" example:"travel"`
	Description string `form:"description" example:"Posts about trips"`
	ParentID    uint   `form:"parent" example:"0"`
}

// TermResponse is a term as returned by the API. Attributes attached by event
// handlers, such as image_id, are flattened into the top level object.
type TermResponse struct {
	ID          uint           `json:"id" example:"5"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Name        string         `json:"name" example:"Travel"`
	Slug        string         `json:"slug" example:"travel"`
	Taxonomy    string         `json:"taxonomy" example:"category"`
	Description string         `json:"description" example:"Posts about trips"`
	ParentID    *uint          `json:"parent_id"`
	Attributes  map[string]any `json:"-" swaggerignore:"true"`
}

// MarshalJSON flattens Attributes next to the term fields. Term fields win
// over attributes of the same name.
func (r TermResponse) MarshalJSON() ([]byte, error) {
	type plain TermResponse
	base, err := json.Marshal(plain(r))
	if err != nil || len(r.Attributes) == 0 {
		return base, err
	}

	merged := make(map[string]json.RawMessage, len(r.Attributes)+8)
	for key, value := range r.Attributes {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		merged[key] = raw
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for key, value := range fields {
		merged[key] = value
	}
	return json.Marshal(merged)
}

// PaginatedTermResponse defines the structure for a paginated list of terms.
type PaginatedTermResponse struct {
	Data []TermResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

func newTermResponse(term *models.Term) TermResponse {
	return TermResponse{
		ID:          term.ID,
		CreatedAt:   term.CreatedAt,
		UpdatedAt:   term.UpdatedAt,
		Name:        term.Name,
		Slug:        term.Slug,
		Taxonomy:    term.Taxonomy,
		Description: term.Description,
		ParentID:    term.ParentID,
		Attributes:  term.Attributes,
	}
}

// endregion

// TermStore persists terms.
type TermStore interface {
	Create(ctx context.Context, term *models.Term) error
	Update(ctx context.Context, term *models.Term) (bool, error)
	Delete(ctx context.Context, taxonomy string, id uint) (bool, error)
	Get(ctx context.Context, taxonomy string, id uint) (*models.Term, error)
	List(ctx context.Context, q repository.TermQuery) ([]*models.Term, int64, error)
}

// TermHandler serves the taxonomy screens and fires the term lifecycle events.
type TermHandler struct {
	terms TermStore
	hooks *hooks.Dispatcher
	log   *logrus.Entry
}

func NewTermHandler(terms TermStore, dispatcher *hooks.Dispatcher, log *logrus.Entry) *TermHandler {
	return &TermHandler{terms: terms, hooks: dispatcher, log: log}
}

// fire runs an event. Handler failures never fail the request; they are
// attached to the gin context so the request log reports them.
func (h *TermHandler) fire(c *gin.Context, e *hooks.Event) {
	if err := h.hooks.Fire(c.Request.Context(), e); err != nil {
		_ = c.Error(err)
	}
}

// region --- Public Handlers ---

// ListTerms godoc
// @Summary      List terms of a taxonomy
// @Description  Retrieves a paginated list of terms, decorated by the registered event handlers.
// @Tags         terms
// @Produce      json
// @Param        taxonomy path      string  true   "Taxonomy"  example(category)
// @Param        q        query     string  false  "Search in name and slug"
// @Param        include  query     string  false  "Comma-separated term IDs"
// @Param        page     query     int     false  "Page number" default(1)
// @Param        limit    query     int     false  "Items per page" default(10)
// @Success      200      {object}  PaginatedTermResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /taxonomies/{taxonomy}/terms [get]
func (h *TermHandler) ListTerms(c *gin.Context) {
	taxonomy := c.Param("taxonomy")
	page := parsePage(c)

	terms, total, err := h.terms.List(c.Request.Context(), repository.TermQuery{
		Taxonomy: taxonomy,
		Search:   c.Query("q"),
		Include:  parseIDList(c.Query("include")),
		Page:     page,
	})
	if err != nil {
		logger.FromContext(c, h.log).WithError(err).Error("failed to list terms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list terms"})
		return
	}

	if len(terms) > 0 {
		h.fire(c, &hooks.Event{Name: hooks.TermsFetched, Taxonomy: taxonomy, UserID: currentUserID(c), Terms: terms})
	}

	response := make([]TermResponse, 0, len(terms))
	for _, term := range terms {
		response = append(response, newTermResponse(term))
	}
	c.JSON(http.StatusOK, newPaginatedResponse(response, total, page))
}

// GetTerm godoc
// @Summary      Get a term
// @Description  Retrieves one term, decorated by the registered event handlers.
// @Tags         terms
// @Produce      json
// @Param        taxonomy path      string  true  "Taxonomy"  example(category)
// @Param        id       path      int     true  "Term ID"
// @Success      200      {object}  TermResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse "Term not found"
// @Failure      500      {object}  ErrorResponse
// @Router       /taxonomies/{taxonomy}/terms/{id} [get]
func (h *TermHandler) GetTerm(c *gin.Context) {
	term, ok := h.loadTerm(c)
	if !ok {
		return
	}

	h.fire(c, &hooks.Event{
		Name:     hooks.TermFetched,
		Taxonomy: term.Taxonomy,
		TermID:   term.ID,
		UserID:   currentUserID(c),
		Terms:    []*models.Term{term},
	})
	c.JSON(http.StatusOK, newTermResponse(term))
}

// endregion

// region --- Admin Screens ---

// NewTermForm godoc
// @Summary      Add term screen
// @Description  Renders the add term form, including the fields contributed by event handlers.
// @Tags         admin-terms
// @Produce      html
// @Security     BearerAuth
// @Param        taxonomy path  string  true  "Taxonomy"  example(category)
// @Success      200      {string}  string  "HTML form"
// @Failure      401      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse "Admin access required"
// @Router       /admin/taxonomies/{taxonomy}/terms/new [get]
func (h *TermHandler) NewTermForm(c *gin.Context) {
	taxonomy := c.Param("taxonomy")

	var fields bytes.Buffer
	h.fire(c, &hooks.Event{
		Name:     hooks.AddFormFields,
		Taxonomy: taxonomy,
		UserID:   currentUserID(c),
		Output:   &fields,
	})

	label := taxonomyLabel(taxonomy)
	renderPage(c, "new", termPage{
		Title:    "Add New " + label,
		Label:    label,
		Taxonomy: taxonomy,
		Action:   "/api/v1/admin/taxonomies/" + taxonomy + "/terms",
		Fields:   template.HTML(fields.String()),
	})
}

// EditTermForm godoc
// @Summary      Edit term screen
// @Description  Renders the edit term form, including the fields contributed by event handlers.
// @Tags         admin-terms
// @Produce      html
// @Security     BearerAuth
// @Param        taxonomy path  string  true  "Taxonomy"  example(category)
// @Param        id       path  int     true  "Term ID"
// @Success      200      {string}  string  "HTML form"
// @Failure      400      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse "Admin access required"
// @Failure      404      {object}  ErrorResponse "Term not found"
// @Router       /admin/taxonomies/{taxonomy}/terms/{id}/edit [get]
func (h *TermHandler) EditTermForm(c *gin.Context) {
	term, ok := h.loadTerm(c)
	if !ok {
		return
	}

	var fields bytes.Buffer
	h.fire(c, &hooks.Event{
		Name:     hooks.EditFormFields,
		Taxonomy: term.Taxonomy,
		TermID:   term.ID,
		UserID:   currentUserID(c),
		Terms:    []*models.Term{term},
		Output:   &fields,
	})

	renderPage(c, "edit", termPage{
		Title:    "Edit " + taxonomyLabel(term.Taxonomy),
		Label:    taxonomyLabel(term.Taxonomy),
		Taxonomy: term.Taxonomy,
		Action:   fmt.Sprintf("/api/v1/admin/taxonomies/%s/terms/%d", term.Taxonomy, term.ID),
		Term:     term,
		Fields:   template.HTML(fields.String()),
	})
}

// endregion

// region --- Admin Handlers ---

// CreateTerm godoc
// @Summary      Create a term
// @Description  Creates a term from the add term form and fires created_term with the posted form.
// @Tags         admin-terms
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        taxonomy     path      string  true   "Taxonomy"  example(category)
// @Param        name         formData  string  true   "Term name"
// @Param        slug         formData  string  false  "Term slug, derived from the name when empty"
// @Param        description  formData  string  false  "Term description"
// @Param        parent       formData  int     false  "Parent term ID"
// @Param        taxonomy_term_image        formData  string  false  "Selected image ID"
// @Param        taxonomy_term_image_nonce  formData  string  false  "Form nonce"
// @Success      201          {object}  TermResponse
// @Failure      400          {object}  ErrorResponse
// @Failure      403          {object}  ErrorResponse "Admin access required"
// @Failure      409          {object}  ErrorResponse "Slug already exists"
// @Router       /admin/taxonomies/{taxonomy}/terms [post]
func (h *TermHandler) CreateTerm(c *gin.Context) {
	taxonomy := c.Param("taxonomy")

	var input TermForm
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	term := input.toTerm(taxonomy)
	if term.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must contain letters or digits"})
		return
	}
	if err := h.terms.Create(c.Request.Context(), term); err != nil {
		h.writeError(c, err, "Failed to create term")
		return
	}

	h.fire(c, &hooks.Event{
		Name:     hooks.TermCreated,
		Taxonomy: taxonomy,
		TermID:   term.ID,
		UserID:   currentUserID(c),
		Form:     c.Request.PostForm,
	})
	c.JSON(http.StatusCreated, newTermResponse(term))
}

// UpdateTerm godoc
// @Summary      Update a term
// @Description  Updates a term from the edit term form and fires edited_term with the posted form.
// @Tags         admin-terms
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        taxonomy     path      string  true   "Taxonomy"  example(category)
// @Param        id           path      int     true   "Term ID"
// @Param        name         formData  string  true   "Term name"
// @Param        slug         formData  string  false  "Term slug, derived from the name when empty"
// @Param        description  formData  string  false  "Term description"
// @Param        parent       formData  int     false  "Parent term ID"
// @Param        taxonomy_term_image        formData  string  false  "Selected image ID, empty to remove"
// @Param        taxonomy_term_image_nonce  formData  string  false  "Form nonce"
// @Success      200          {object}  TermResponse
// @Failure      400          {object}  ErrorResponse
// @Failure      403          {object}  ErrorResponse "Admin access required"
// @Failure      404          {object}  ErrorResponse "Term not found"
// @Failure      409          {object}  ErrorResponse "Slug already exists"
// @Router       /admin/taxonomies/{taxonomy}/terms/{id} [post]
func (h *TermHandler) UpdateTerm(c *gin.Context) {
	existing, ok := h.loadTerm(c)
	if !ok {
		return
	}

	var input TermForm
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.ParentID == existing.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A term cannot be its own parent"})
		return
	}

	updated := input.toTerm(existing.Taxonomy)
	if updated.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must contain letters or digits"})
		return
	}
	existing.Name = updated.Name
	existing.Slug = updated.Slug
	existing.Description = updated.Description
	existing.ParentID = updated.ParentID

	found, err := h.terms.Update(c.Request.Context(), existing)
	if err != nil {
		h.writeError(c, err, "Failed to update term")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
		return
	}

	h.fire(c, &hooks.Event{
		Name:     hooks.TermEdited,
		Taxonomy: existing.Taxonomy,
		TermID:   existing.ID,
		UserID:   currentUserID(c),
		Form:     c.Request.PostForm,
	})
	c.JSON(http.StatusOK, newTermResponse(existing))
}

// DeleteTerm godoc
// @Summary      Delete a term
// @Description  Deletes a term and fires delete_term.
// @Tags         admin-terms
// @Produce      json
// @Security     BearerAuth
// @Param        taxonomy path      string  true  "Taxonomy"  example(category)
// @Param        id       path      int     true  "Term ID"
// @Success      200      {object}  MessageResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse "Admin access required"
// @Failure      404      {object}  ErrorResponse "Term not found"
// @Router       /admin/taxonomies/{taxonomy}/terms/{id} [delete]
func (h *TermHandler) DeleteTerm(c *gin.Context) {
	taxonomy := c.Param("taxonomy")
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	deleted, err := h.terms.Delete(c.Request.Context(), taxonomy, id)
	if err != nil {
		h.writeError(c, err, "Failed to delete term")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
		return
	}

	h.fire(c, &hooks.Event{
		Name:     hooks.TermDeleted,
		Taxonomy: taxonomy,
		TermID:   id,
		UserID:   currentUserID(c),
	})
	c.JSON(http.StatusOK, gin.H{"message": "Term deleted"})
}

// endregion

func (h *TermHandler) loadTerm(c *gin.Context) (*models.Term, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return nil, false
	}
	term, err := h.terms.Get(c.Request.Context(), c.Param("taxonomy"), id)
	if err != nil {
		logger.FromContext(c, h.log).WithError(err).Error("failed to get term")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get term"})
		return nil, false
	}
	if term == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Term not found"})
		return nil, false
	}
	return term, true
}

func (h *TermHandler) writeError(c *gin.Context, err error, message string) {
	if errors.Is(err, repository.ErrSlugTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "A term with this slug already exists in this taxonomy"})
		return
	}
	logger.FromContext(c, h.log).WithError(err).Error(strings.ToLower(message))
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

func (f TermForm) toTerm(taxonomy string) *models.Term {
	slug := slugify(f.Slug)
	if slug == "" {
		slug = slugify(f.Name)
	}
	term := &models.Term{
		Name:        strings.TrimSpace(f.Name),
		Slug:        slug,
		Taxonomy:    taxonomy,
		Description: strings.TrimSpace(f.Description),
	}
	if f.ParentID > 0 {
		parent := f.ParentID
		term.ParentID = &parent
	}
	return term
}

// taxonomyLabel turns "post_tag" into "Post Tag".
func taxonomyLabel(taxonomy string) string {
	words := strings.FieldsFunc(taxonomy, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
