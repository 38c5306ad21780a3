package enums

import "strings"

type SwipeStatus string

const (
	SwipeStatusLike    SwipeStatus = "LIKE"
	SwipeStatusDislike SwipeStatus = "DISLIKE"
)

func ParseSwipeStatus(value string) (SwipeStatus, bool) {
	switch SwipeStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case SwipeStatusLike:
		return SwipeStatusLike, true
	case SwipeStatusDislike:
		return SwipeStatusDislike, true
	default:
		return "", false
	}
}

func (s SwipeStatus) Valid() bool {
	return s == SwipeStatusLike || s == SwipeStatusDislike
}
