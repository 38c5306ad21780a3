package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/WyattC-ctrl/StudyBuddy/internal/pkg/validate"
	userssvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/users"
	"github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/dto"
	httperrors "github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/errors"
)

type UsersHandler struct {
	service *userssvc.Service
}

func NewUsersHandler(service *userssvc.Service) *UsersHandler {
	return &UsersHandler{service: service}
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if !validate.Required(req.Username) || !validate.Required(req.Email) {
		writeBadRequest(w, "VALIDATION_ERROR", "username and email are required")
		return
	}

	user, err := h.service.Create(r.Context(), req.Username, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "username and email are required")
		case errors.Is(err, userssvc.ErrDuplicateUser):
			writeConflict(w, "USER_EXISTS", "user already exists")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create user")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, mapUserSummary(user))
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	userID, ok := userIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		case errors.Is(err, userssvc.ErrNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load user")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, mapUserSummary(user))
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), parseIntOrDefault(r.URL.Query().Get("limit"), 200))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list users")
		return
	}

	responseItems := make([]dto.UserSummaryResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, mapUserSummary(item))
	}

	httperrors.Write(w, http.StatusOK, dto.UsersResponse{Items: responseItems})
}

func mapUserSummary(user userssvc.UserSummary) dto.UserSummaryResponse {
	return dto.UserSummaryResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func userIDFromURL(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func parseIntOrDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeConflict(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusConflict, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}
