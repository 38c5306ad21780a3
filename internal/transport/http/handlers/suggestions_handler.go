package handlers

import (
	"errors"
	"net/http"

	suggestionssvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/suggestions"
	"github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/dto"
	httperrors "github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/errors"
)

type SuggestionsHandler struct {
	service *suggestionssvc.Service
}

func NewSuggestionsHandler(service *suggestionssvc.Service) *SuggestionsHandler {
	return &SuggestionsHandler{service: service}
}

func (h *SuggestionsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SUGGESTIONS_SERVICE_UNAVAILABLE", "suggestions service is unavailable")
		return
	}

	userID, ok := userIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, suggestionssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid suggestions request")
		case errors.Is(err, suggestionssvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load suggestions")
		}
		return
	}

	responseItems := make([]dto.UserSummaryResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.UserSummaryResponse{
			ID:       item.UserID,
			Username: item.Username,
			Email:    item.Email,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.SuggestionsResponse{Items: responseItems})
}
