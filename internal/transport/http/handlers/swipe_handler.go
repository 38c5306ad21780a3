package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/WyattC-ctrl/StudyBuddy/internal/domain/enums"
	swipesvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/swipes"
	"github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/dto"
	httperrors "github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.SwiperID <= 0 || req.TargetID <= 0 || strings.TrimSpace(req.Status) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "swiper_id, target_id and status are required")
		return
	}

	status, ok := enums.ParseSwipeStatus(req.Status)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "status must be LIKE or DISLIKE")
		return
	}

	result, err := h.service.Record(r.Context(), req.SwiperID, req.TargetID, status)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		case errors.Is(err, swipesvc.ErrSelfSwipe):
			writeBadRequest(w, "VALIDATION_ERROR", "cannot swipe on yourself")
		case errors.Is(err, swipesvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "one or both users not found")
		case errors.Is(err, swipesvc.ErrDuplicateSwipe):
			writeConflict(w, "SWIPE_EXISTS", "swipe already recorded for this pair")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to record swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.SwipeResponse{
		RecordedPreference: dto.SwipeRecordedResponse{
			ID:        result.Swipe.ID,
			SwiperID:  result.Swipe.SwiperUserID,
			TargetID:  result.Swipe.TargetUserID,
			Status:    result.Swipe.Status,
			CreatedAt: result.Swipe.CreatedAt,
		},
		MatchFound: result.MatchFound,
		NewMatchID: result.MatchID,
	})
}
