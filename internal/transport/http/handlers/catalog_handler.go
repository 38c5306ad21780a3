package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	catalogsvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/catalog"
	"github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/dto"
	httperrors "github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/errors"
)

// CatalogHandler serves all four attribute catalogs; the kind is fixed per
// route registration.
type CatalogHandler struct {
	service *catalogsvc.Service
	kind    catalogsvc.Kind
}

func NewCatalogHandler(service *catalogsvc.Service, kind catalogsvc.Kind) *CatalogHandler {
	return &CatalogHandler{service: service, kind: kind}
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	var req dto.CreateCatalogEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	label := req.Name
	if h.kind == catalogsvc.KindCourse {
		label = req.Code
	}

	entry, err := h.service.Create(r.Context(), h.kind, label)
	if err != nil {
		switch {
		case errors.Is(err, catalogsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "label is required")
		case errors.Is(err, catalogsvc.ErrDuplicateEntry):
			writeConflict(w, "CATALOG_ENTRY_EXISTS", "catalog entry already exists")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create catalog entry")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CatalogEntryResponse{ID: entry.ID, Label: entry.Label})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid catalog entry id")
		return
	}

	entry, err := h.service.Get(r.Context(), h.kind, id)
	if err != nil {
		switch {
		case errors.Is(err, catalogsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid catalog request")
		case errors.Is(err, catalogsvc.ErrNotFound):
			writeNotFound(w, "CATALOG_ENTRY_NOT_FOUND", "catalog entry not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load catalog entry")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CatalogEntryResponse{ID: entry.ID, Label: entry.Label})
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), h.kind)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list catalog entries")
		return
	}

	responseItems := make([]dto.CatalogEntryResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.CatalogEntryResponse{ID: item.ID, Label: item.Label})
	}

	httperrors.Write(w, http.StatusOK, dto.CatalogEntriesResponse{Items: responseItems})
}
