package dto

import "time"

type SwipeRequest struct {
	SwiperID int64  `json:"swiper_id"`
	TargetID int64  `json:"target_id"`
	Status   string `json:"status"`
}

type SwipeRecordedResponse struct {
	ID        int64     `json:"id"`
	SwiperID  int64     `json:"swiper_id"`
	TargetID  int64     `json:"target_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type SwipeResponse struct {
	RecordedPreference SwipeRecordedResponse `json:"recorded_preference"`
	MatchFound         bool                  `json:"match_found"`
	NewMatchID         *int64                `json:"new_match_id"`
}
