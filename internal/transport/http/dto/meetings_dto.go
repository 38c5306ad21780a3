package dto

import "time"

type CreateMeetingRequest struct {
	UserAID  int64  `json:"user_a_id"`
	UserBID  int64  `json:"user_b_id"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

type MeetingResponse struct {
	ID       int64     `json:"id"`
	UserAID  int64     `json:"user_a_id"`
	UserBID  int64     `json:"user_b_id"`
	Time     time.Time `json:"time"`
	Location string    `json:"location"`
}

type MeetingsResponse struct {
	Items []MeetingResponse `json:"items"`
}
