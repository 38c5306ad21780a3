package handlers

import (
	"errors"
	"net/http"

	matchessvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/matches"
	"github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/dto"
	httperrors "github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/errors"
)

type MatchesHandler struct {
	service      *matchessvc.Service
	defaultLimit int
}

func NewMatchesHandler(service *matchessvc.Service, defaultLimit int) *MatchesHandler {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &MatchesHandler{service: service, defaultLimit: defaultLimit}
}

func (h *MatchesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	userID, ok := userIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	items, err := h.service.List(r.Context(), userID, parseIntOrDefault(r.URL.Query().Get("limit"), h.defaultLimit))
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid matches request")
		case errors.Is(err, matchessvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		}
		return
	}

	responseItems := make([]dto.MatchItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.MatchItemResponse{
			MatchID: item.ID,
			MatchedUser: dto.UserSummaryResponse{
				ID:       item.OtherUserID,
				Username: item.OtherUsername,
				Email:    item.OtherEmail,
			},
			MatchedAt: item.MatchedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: responseItems})
}
