package dto

type CreateProfileRequest struct {
	UserID       int64   `json:"user_id"`
	StudyAreaID  *int64  `json:"study_area_id"`
	CourseIDs    []int64 `json:"course_ids"`
	StudyTimeIDs []int64 `json:"study_time_ids"`
	MajorIDs     []int64 `json:"major_ids"`
}

type ProfileResponse struct {
	ID         int64                  `json:"id"`
	UserID     int64                  `json:"user_id"`
	StudyArea  *CatalogEntryResponse  `json:"study_area"`
	Courses    []CatalogEntryResponse `json:"courses"`
	StudyTimes []CatalogEntryResponse `json:"study_times"`
	Majors     []CatalogEntryResponse `json:"majors"`
}

type ProfilesResponse struct {
	Items []ProfileResponse `json:"items"`
}
