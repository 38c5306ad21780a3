package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	profilesvc "github.com/WyattC-ctrl/StudyBuddy/internal/services/profiles"
	"github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/dto"
	httperrors "github.com/WyattC-ctrl/StudyBuddy/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.CreateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.UserID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id is required")
		return
	}

	view, err := h.service.Create(r.Context(), req.UserID, profilesvc.Attributes{
		StudyAreaID:  req.StudyAreaID,
		CourseIDs:    req.CourseIDs,
		StudyTimeIDs: req.StudyTimeIDs,
		MajorIDs:     req.MajorIDs,
	})
	if err != nil {
		writeProfileError(w, err, "failed to create profile")
		return
	}

	httperrors.Write(w, http.StatusCreated, mapProfile(view))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profileID, ok := profileIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id")
		return
	}

	attrs, ok := decodeUpdateAttributes(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	view, err := h.service.Update(r.Context(), profileID, attrs)
	if err != nil {
		writeProfileError(w, err, "failed to update profile")
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(view))
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profileID, ok := profileIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile id")
		return
	}

	view, err := h.service.Get(r.Context(), profileID)
	if err != nil {
		writeProfileError(w, err, "failed to load profile")
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(view))
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), parseIntOrDefault(r.URL.Query().Get("limit"), 200))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list profiles")
		return
	}

	responseItems := make([]dto.ProfileResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, mapProfile(item))
	}

	httperrors.Write(w, http.StatusOK, dto.ProfilesResponse{Items: responseItems})
}

// decodeUpdateAttributes reads the partial-update body. Presence of
// study_area_id matters: an explicit null clears the study area, an omitted
// key leaves it unchanged.
func decodeUpdateAttributes(r *http.Request) (profilesvc.UpdateAttributes, bool) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return profilesvc.UpdateAttributes{}, false
	}

	var attrs profilesvc.UpdateAttributes

	if value, present := raw["study_area_id"]; present {
		attrs.HasStudyArea = true
		if string(value) != "null" {
			var id int64
			if err := json.Unmarshal(value, &id); err != nil {
				return profilesvc.UpdateAttributes{}, false
			}
			attrs.StudyAreaID = &id
		}
	}

	idLists := map[string]*[]int64{
		"course_ids":     &attrs.CourseIDs,
		"study_time_ids": &attrs.StudyTimeIDs,
		"major_ids":      &attrs.MajorIDs,
	}
	for key, target := range idLists {
		value, present := raw[key]
		if !present {
			continue
		}
		var ids []int64
		if err := json.Unmarshal(value, &ids); err != nil {
			return profilesvc.UpdateAttributes{}, false
		}
		if ids == nil {
			ids = []int64{}
		}
		*target = ids
	}

	return attrs, true
}

func writeProfileError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, profilesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile request")
	case errors.Is(err, profilesvc.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	case errors.Is(err, profilesvc.ErrProfileNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	case errors.Is(err, profilesvc.ErrCatalogEntryMissing):
		writeNotFound(w, "CATALOG_ENTRY_NOT_FOUND", "referenced catalog entry not found")
	case errors.Is(err, profilesvc.ErrProfileExists):
		writeConflict(w, "PROFILE_EXISTS", "profile already exists for user")
	default:
		writeInternal(w, "INTERNAL_ERROR", fallback)
	}
}

func mapProfile(view profilesvc.ProfileView) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		ID:         view.ID,
		UserID:     view.UserID,
		Courses:    make([]dto.CatalogEntryResponse, 0, len(view.Courses)),
		StudyTimes: make([]dto.CatalogEntryResponse, 0, len(view.StudyTimes)),
		Majors:     make([]dto.CatalogEntryResponse, 0, len(view.Majors)),
	}
	if view.StudyArea != nil {
		resp.StudyArea = &dto.CatalogEntryResponse{ID: view.StudyArea.ID, Label: view.StudyArea.Label}
	}
	for _, c := range view.Courses {
		resp.Courses = append(resp.Courses, dto.CatalogEntryResponse{ID: c.ID, Label: c.Label})
	}
	for _, st := range view.StudyTimes {
		resp.StudyTimes = append(resp.StudyTimes, dto.CatalogEntryResponse{ID: st.ID, Label: st.Label})
	}
	for _, m := range view.Majors {
		resp.Majors = append(resp.Majors, dto.CatalogEntryResponse{ID: m.ID, Label: m.Label})
	}
	return resp
}

func profileIDFromURL(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "profileID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
