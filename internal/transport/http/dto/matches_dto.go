package dto

import "time"

type MatchItemResponse struct {
	MatchID     int64               `json:"match_id"`
	MatchedUser UserSummaryResponse `json:"matched_user"`
	MatchedAt   time.Time           `json:"matched_at"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}
