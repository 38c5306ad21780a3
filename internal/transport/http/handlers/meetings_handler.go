package handlers

import (
	"errors"
	"net/http"
	"time"

	meetingsvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/meetings"
	"github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/dto"
	httperrors "github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/errors"
)

// meetingTimeLayout is the wall-clock format accepted for scheduling.
const meetingTimeLayout = "2006-01-02 15:04:05"

type MeetingsHandler struct {
	service *meetingsvc.Service
}

func NewMeetingsHandler(service *meetingsvc.Service) *MeetingsHandler {
	return &MeetingsHandler{service: service}
}

func (h *MeetingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MEETING_SERVICE_UNAVAILABLE", "meeting service is unavailable")
		return
	}

	var req dto.CreateMeetingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.UserAID <= 0 || req.UserBID <= 0 || req.Time == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "user_a_id, user_b_id and time are required")
		return
	}

	at, err := time.Parse(meetingTimeLayout, req.Time)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "time must be formatted as YYYY-MM-DD HH:MM:SS")
		return
	}

	meeting, err := h.service.Schedule(r.Context(), req.UserAID, req.UserBID, at, req.Location)
	if err != nil {
		switch {
		case errors.Is(err, meetingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid meeting request")
		case errors.Is(err, meetingsvc.ErrSelfMeeting):
			writeBadRequest(w, "VALIDATION_ERROR", "cannot schedule a meeting with yourself")
		case errors.Is(err, meetingsvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to schedule meeting")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, mapMeeting(meeting))
}

func (h *MeetingsHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MEETING_SERVICE_UNAVAILABLE", "meeting service is unavailable")
		return
	}

	userID, ok := userIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	items, err := h.service.ListForUser(r.Context(), userID, parseIntOrDefault(r.URL.Query().Get("limit"), 100))
	if err != nil {
		switch {
		case errors.Is(err, meetingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		case errors.Is(err, meetingsvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to list meetings")
		}
		return
	}

	responseItems := make([]dto.MeetingResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, mapMeeting(item))
	}

	httperrors.Write(w, http.StatusOK, dto.MeetingsResponse{Items: responseItems})
}

func mapMeeting(m meetingsvc.Meeting) dto.MeetingResponse {
	return dto.MeetingResponse{
		ID:       m.ID,
		UserAID:  m.UserAID,
		UserBID:  m.UserBID,
		Time:     m.Time,
		Location: m.Location,
	}
}
