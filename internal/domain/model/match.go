package model

import "time"

// Match is the materialized mutual-like fact for one unordered user pair.
// The pair is stored in canonical order: UserLowID < UserHighID.
type Match struct {
	ID         int64     `json:"id"`
	UserLowID  int64     `json:"user_low_id"`
	UserHighID int64     `json:"user_high_id"`
	MatchedAt  time.Time `json:"matched_at"`
}

// CanonicalPair orders two user ids so the same unordered pair always maps
// to the same (low, high) key.
func CanonicalPair(a, b int64) (low, high int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// OtherUser returns the participant that is not userID.
func (m Match) OtherUser(userID int64) int64 {
	if m.UserLowID == userID {
		return m.UserHighID
	}
	return m.UserLowID
}
