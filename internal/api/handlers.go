package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/figcaption/internal/apperr"
	"github.com/starford/figcaption/internal/caption"
	"github.com/starford/figcaption/internal/editform"
	"github.com/starford/figcaption/internal/metastore"
	"github.com/starford/figcaption/internal/metrics"
	"github.com/starford/figcaption/internal/theme"
)

// maxFormBytes bounds a caption form submission.
const maxFormBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	captions *caption.Repository
	accessor *caption.Accessor
	forms    *editform.Service
	page     *theme.Page
	posts    metastore.PostStore
	metrics  *metrics.Registry
}

// postID extracts the numeric post id from the URL.
func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// GetCaption handles GET /api/posts/{id}/caption.
//
//	@Summary		Get the stored featured image caption
//	@Tags			captions
//	@Produce		json
//	@Param			id	path		int	true	"Post id"
//	@Success		200	{object}	CaptionResponse
//	@Failure		400	{object}	errResponse
//	@Router			/posts/{id}/caption [get]
func (h *Handler) GetCaption(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid post id"))
		return
	}
	c, err := h.captions.Get(r.Context(), id)
	if err != nil {
		slog.Error("get caption failed", slog.Int64("post_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CaptionResponse{PostID: id, Caption: c.Text, Present: c.Present()})
}

// RenderCaption handles GET /api/posts/{id}/caption/render.
//
//	@Summary		Render the caption for display or as raw text
//	@Tags			captions
//	@Produce		html,json
//	@Param			id		path		int		true	"Post id"
//	@Param			mode	query		string	false	"Render mode"	Enums(display, raw)
//	@Success		200		{object}	RawCaptionResponse
//	@Success		204		"No caption (display mode)"
//	@Router			/posts/{id}/caption/render [get]
func (h *Handler) RenderCaption(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid post id"))
		return
	}
	mode := caption.ParseMode(r.URL.Query().Get("mode"))
	out, present, err := h.accessor.Render(r.Context(), id, mode)
	if err != nil {
		slog.Error("render caption failed", slog.Int64("post_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	h.metrics.Render(mode.String(), present)

	if mode == caption.ModeRaw {
		var body RawCaptionResponse
		body.Caption = false
		if present {
			body.Caption = out
		}
		writeJSON(w, http.StatusOK, body)
		return
	}
	if !present {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeHTML(w, http.StatusOK, bytes.NewBufferString(out))
}

// Field handles GET /api/posts/{id}/caption/field.
//
//	@Summary		Get the caption form field descriptor
//	@Tags			captions
//	@Produce		json
//	@Param			id	path		int	true	"Post id"
//	@Success		200	{object}	FieldResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/posts/{id}/caption/field [get]
func (h *Handler) Field(w http.ResponseWriter, r *http.Request) {
	f, ok := h.field(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// Metabox handles GET /api/posts/{id}/caption/metabox.
//
//	@Summary		Get the caption meta box markup
//	@Tags			captions
//	@Produce		html
//	@Param			id	path	int	true	"Post id"
//	@Success		200	"Meta box HTML"
//	@Security		BearerAuth
//	@Router			/posts/{id}/caption/metabox [get]
func (h *Handler) Metabox(w http.ResponseWriter, r *http.Request) {
	f, ok := h.field(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := editform.Render(&buf, f); err != nil {
		slog.Error("render metabox failed", slog.Int64("post_id", f.OwnerID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeHTML(w, http.StatusOK, &buf)
}

func (h *Handler) field(w http.ResponseWriter, r *http.Request) (editform.Field, bool) {
	id, ok := postID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid post id"))
		return editform.Field{}, false
	}
	post, err := h.posts.Post(r.Context(), id)
	if err != nil {
		h.postError(w, id, err)
		return editform.Field{}, false
	}
	if !editform.ShownOn(post.Type) {
		writeJSON(w, http.StatusNotFound, errorBody("no caption field for this post type"))
		return editform.Field{}, false
	}
	f, err := h.forms.Field(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		slog.Error("build caption field failed", slog.Int64("post_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return editform.Field{}, false
	}
	return f, true
}

// SaveCaption handles POST /api/posts/{id}/caption.
// Unauthorized submissions are ignored and answered like successful ones.
//
//	@Summary		Submit the caption form
//	@Tags			captions
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			id									path		int		true	"Post id"
//	@Param			cc-featured-image-caption			formData	string	false	"Caption"
//	@Param			cc_featured_image_caption_nonce		formData	string	true	"Form token"
//	@Param			post_type							formData	string	false	"Post type"
//	@Success		200	{object}	SaveResponse
//	@Failure		429	{object}	errResponse
//	@Failure		500	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/posts/{id}/caption [post]
func (h *Handler) SaveCaption(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid post id"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
		return
	}
	saved, err := h.forms.Save(r.Context(), UserFromContext(r.Context()), id, editform.ParseSubmission(r.PostForm))
	if err != nil {
		slog.Error("save caption failed", slog.Int64("post_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{PostID: saved})
}

// Preview handles GET /api/posts/{id}/preview.
//
//	@Summary		Render a post through the theme caption functions
//	@Tags			theme
//	@Produce		html
//	@Param			id	path	int	true	"Post id"
//	@Success		200	"Rendered post"
//	@Failure		404	{object}	errResponse
//	@Router			/posts/{id}/preview [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid post id"))
		return
	}
	post, err := h.posts.Post(r.Context(), id)
	if err != nil {
		h.postError(w, id, err)
		return
	}
	var buf bytes.Buffer
	if err := h.page.Render(r.Context(), &buf, theme.Loop{Post: post}); err != nil {
		slog.Error("render preview failed", slog.Int64("post_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeHTML(w, http.StatusOK, &buf)
}

func (h *Handler) postError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	slog.Error("get post failed", slog.Int64("post_id", id), slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}
