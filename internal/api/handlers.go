package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/docservice"
	"github.com/starford/raido/internal/index"
)

// Notifier receives index changes made through the API.
type Notifier interface {
	PublishDocumentEvent(kind, path string)
	PublishBatch(count int)
}

type nopNotifier struct{}

func (nopNotifier) PublishDocumentEvent(string, string) {}
func (nopNotifier) PublishBatch(int)                    {}

// Handler holds API route handlers.
type Handler struct {
	svc    *docservice.Service
	events Notifier
}

// NewHandler creates a new Handler. events may be nil.
func NewHandler(svc *docservice.Service, events Notifier) *Handler {
	if events == nil {
		events = nopNotifier{}
	}
	return &Handler{svc: svc, events: events}
}

// documentPath extracts the document path from the URL (everything after
// /api/documents/). Encoded slashes such as topics%2Fnote.md are accepted.
func documentPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Import handles POST /api/import.
//
//	@Summary		Convert Markdown into a rich document
//	@Tags			import
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportRequest	true	"Markdown and options"
//	@Success		200		{object}	importer.ImportedDocument
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	doc, err := h.svc.Import(r.Context(), req.Content, req.Options.importerOptions()...)
	if err != nil {
		writeError(w, "import", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ImportJSON handles POST /api/import/json. The body is the serialized
// document only.
//
//	@Summary		Convert Markdown and return the document JSON
//	@Tags			import
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportRequest	true	"Markdown and options"
//	@Success		200		{object}	models.Document
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import/json [post]
func (h *Handler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.svc.ImportJSON(r.Context(), req.Content, req.Options.importerOptions()...)
	if err != nil {
		writeError(w, "import json", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// ImportBatch handles POST /api/import/batch.
//
//	@Summary		Convert several documents, all or nothing
//	@Tags			import
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BatchRequest	true	"Items and options"
//	@Success		200		{object}	BatchResponse
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import/batch [post]
func (h *Handler) ImportBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	results, err := h.svc.ImportBatch(r.Context(), req.Items, req.Options.importerOptions()...)
	if err != nil {
		writeError(w, "import batch", err)
		return
	}
	h.events.PublishBatch(len(results))
	writeJSON(w, http.StatusOK, BatchResponse{Results: results})
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List indexed documents
//	@Tags			documents
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			tag		query		string	false	"Filter by tag"
//	@Success		200		{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListDocuments(r.Context(), limit, offset, q.Get("tag"))
	if err != nil {
		writeError(w, "list documents", err)
		return
	}
	if items == nil {
		items = []index.DocumentSummary{}
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: items, Total: total})
}

// GetDocument handles GET /api/documents/*.
//
//	@Summary		Get an indexed document by path
//	@Tags			documents
//	@Produce		json
//	@Param			path			path		string	true	"Document path"
//	@Param			If-None-Match	header		string	false	"Checksum from a previous ETag"
//	@Success		200				{object}	docservice.DocumentDetail
//	@Success		304				"Not modified"
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody(errEmptyPath.Error()))
		return
	}
	doc, err := h.svc.GetDocument(r.Context(), path)
	if err != nil {
		writeError(w, "get document", err)
		return
	}
	w.Header().Set("ETag", checksum.ETag(doc.Checksum))
	if inm := r.Header.Get("If-None-Match"); inm != "" && checksum.FromETag(inm) == doc.Checksum {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ReindexDocument handles PUT /api/documents/*. The vault file at path is
// imported again and replaces the stored document.
//
//	@Summary		Re-import a vault file into the index
//	@Tags			documents
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	docservice.DocumentDetail
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [put]
func (h *Handler) ReindexDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody(errEmptyPath.Error()))
		return
	}
	doc, err := h.svc.IndexFile(r.Context(), path)
	if err != nil {
		if errors.Is(err, docservice.ErrEntryDropped) {
			h.events.PublishDocumentEvent(index.EventDeleted, path)
		}
		writeError(w, "reindex document", err)
		return
	}
	h.events.PublishDocumentEvent(index.EventUpdated, path)
	w.Header().Set("ETag", checksum.ETag(doc.Checksum))
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/documents/*. Only the index entry is
// removed.
//
//	@Summary		Drop a document from the index
//	@Tags			documents
//	@Param			path	path	string	true	"Document path"
//	@Success		204		"Document removed"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody(errEmptyPath.Error()))
		return
	}
	if err := h.svc.DeleteDocument(r.Context(), path); err != nil {
		writeError(w, "delete document", err)
		return
	}
	h.events.PublishDocumentEvent(index.EventDeleted, path)
	w.WriteHeader(http.StatusNoContent)
}

// Tags handles GET /api/tags.
//
//	@Summary		Tag usage counts
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context())
	if err != nil {
		writeError(w, "tags", err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}
