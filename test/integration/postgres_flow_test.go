package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/WyattC-ctrl/StudyBuddy/internal/app/apiapp"
	"github.com/WyattC-ctrl/StudyBuddy/internal/config"
)

// TestPostgresSwipeFlow walks the swipe, suggestion and match contracts end
// to end against a real database, including the parts that live in SQL:
// directional filtering of suggestions, judged-target exclusion, canonical
// match ordering and match-list symmetry. Set TEST_POSTGRES_DSN to run it;
// it reuses the database across runs, so all fixture users get unique names.
func TestPostgresSwipeFlow(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	cfg := config.Default()
	cfg.HTTP.Addr = ":0"
	cfg.Postgres.DSN = dsn
	cfg.Postgres.Migrate = true
	// Candidate ids grow monotonically across runs; an unbounded page keeps
	// membership assertions valid no matter how many fixtures accumulated.
	cfg.Suggestions.DefaultLimit = 1 << 20

	app, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	run := time.Now().UnixNano()
	alice := createUser(t, ts, fmt.Sprintf("alice-%d", run))
	bella := createUser(t, ts, fmt.Sprintf("bella-%d", run))
	carla := createUser(t, ts, fmt.Sprintf("carla-%d", run))
	denis := createUser(t, ts, fmt.Sprintf("denis-%d", run))

	// A DISLIKE is directional: it removes the target from the swiper's
	// suggestions and leaves the reverse direction untouched.
	res, status := recordSwipe(t, ts, alice, bella, "DISLIKE")
	if status != http.StatusCreated {
		t.Fatalf("dislike: unexpected status %d", status)
	}
	if res.MatchFound {
		t.Fatalf("dislike must not resolve a match")
	}

	if !suggestionIDs(t, ts, bella).contains(alice) {
		t.Fatalf("user %d should still be suggested to %d after the one-way dislike", alice, bella)
	}
	if suggestionIDs(t, ts, alice).contains(bella) {
		t.Fatalf("judged target %d must not be suggested to %d", bella, alice)
	}

	// Mutual LIKE: pending after the first edge, resolved by the second.
	res, status = recordSwipe(t, ts, carla, denis, "LIKE")
	if status != http.StatusCreated || res.MatchFound {
		t.Fatalf("first like: status %d, match_found %v", status, res.MatchFound)
	}
	res, status = recordSwipe(t, ts, denis, carla, "LIKE")
	if status != http.StatusCreated {
		t.Fatalf("reciprocal like: unexpected status %d", status)
	}
	if !res.MatchFound || res.NewMatchID == nil {
		t.Fatalf("reciprocal like must resolve a match, got %+v", res)
	}
	matchID := *res.NewMatchID

	// Both participants see the same match, each annotated with the other.
	carlaMatch, ok := findMatch(t, ts, carla, matchID)
	if !ok {
		t.Fatalf("match %d missing from user %d's list", matchID, carla)
	}
	if carlaMatch.MatchedUser.ID != denis {
		t.Fatalf("expected other participant %d, got %d", denis, carlaMatch.MatchedUser.ID)
	}
	denisMatch, ok := findMatch(t, ts, denis, matchID)
	if !ok {
		t.Fatalf("match %d missing from user %d's list", matchID, denis)
	}
	if denisMatch.MatchedUser.ID != carla {
		t.Fatalf("expected other participant %d, got %d", carla, denisMatch.MatchedUser.ID)
	}

	// The ordered pair is immutable; resubmission conflicts forever.
	if _, status = recordSwipe(t, ts, carla, denis, "LIKE"); status != http.StatusConflict {
		t.Fatalf("duplicate swipe: expected 409, got %d", status)
	}

	if suggestionIDs(t, ts, carla).contains(denis) {
		t.Fatalf("matched user %d must not be suggested to %d", denis, carla)
	}
}

// TestPostgresConcurrentReciprocalLikes fires both directions of a LIKE pair
// at once and checks that exactly one match materializes regardless of how
// the two transactions interleave.
func TestPostgresConcurrentReciprocalLikes(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	cfg := config.Default()
	cfg.HTTP.Addr = ":0"
	cfg.Postgres.DSN = dsn
	cfg.Postgres.Migrate = true

	app, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	run := time.Now().UnixNano()
	east := createUser(t, ts, fmt.Sprintf("east-%d", run))
	west := createUser(t, ts, fmt.Sprintf("west-%d", run))

	var wg sync.WaitGroup
	statuses := make([]int, 2)
	errs := make([]error, 2)
	start := make(chan struct{})
	swipe := func(i int, swiperID, targetID int64) {
		defer wg.Done()
		<-start
		_, statuses[i], errs[i] = trySwipe(ts, swiperID, targetID, "LIKE")
	}
	wg.Add(2)
	go swipe(0, east, west)
	go swipe(1, west, east)
	close(start)
	wg.Wait()

	for i, status := range statuses {
		if errs[i] != nil {
			t.Fatalf("swipe %d: %v", i, errs[i])
		}
		if status != http.StatusCreated {
			t.Fatalf("swipe %d: unexpected status %d", i, status)
		}
	}

	eastMatches := listMatches(t, ts, east)
	matched := 0
	for _, item := range eastMatches {
		if item.MatchedUser.ID == west {
			matched++
		}
	}
	if matched != 1 {
		t.Fatalf("expected exactly one match for the pair, got %d", matched)
	}
	westMatches := listMatches(t, ts, west)
	matched = 0
	for _, item := range westMatches {
		if item.MatchedUser.ID == east {
			matched++
		}
	}
	if matched != 1 {
		t.Fatalf("expected the match to be visible to both sides exactly once, got %d", matched)
	}
}

type swipeResult struct {
	MatchFound bool   `json:"match_found"`
	NewMatchID *int64 `json:"new_match_id"`
}

type matchItem struct {
	MatchID     int64 `json:"match_id"`
	MatchedUser struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"matched_user"`
}

type idSet map[int64]bool

func (s idSet) contains(id int64) bool { return s[id] }

func createUser(t *testing.T, ts *httptest.Server, username string) int64 {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    username + "@example.edu",
	})
	resp, err := http.Post(ts.URL+"/users", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user %s: unexpected status %d", username, resp.StatusCode)
	}

	var payload struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode user %s: %v", username, err)
	}
	return payload.ID
}

func recordSwipe(t *testing.T, ts *httptest.Server, swiperID, targetID int64, status string) (swipeResult, int) {
	t.Helper()

	result, code, err := trySwipe(ts, swiperID, targetID, status)
	if err != nil {
		t.Fatalf("record swipe %d->%d: %v", swiperID, targetID, err)
	}
	return result, code
}

// trySwipe reports transport failures as errors so concurrent callers can
// collect them off the test goroutine.
func trySwipe(ts *httptest.Server, swiperID, targetID int64, status string) (swipeResult, int, error) {
	body, _ := json.Marshal(map[string]any{
		"swiper_id": swiperID,
		"target_id": targetID,
		"status":    status,
	})
	resp, err := http.Post(ts.URL+"/swipes", "application/json", bytes.NewReader(body))
	if err != nil {
		return swipeResult{}, 0, err
	}
	defer resp.Body.Close()

	var result swipeResult
	if resp.StatusCode == http.StatusCreated {
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return swipeResult{}, resp.StatusCode, err
		}
	}
	return result, resp.StatusCode, nil
}

func suggestionIDs(t *testing.T, ts *httptest.Server, userID int64) idSet {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/users/%d/suggestions", ts.URL, userID))
	if err != nil {
		t.Fatalf("list suggestions for %d: %v", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list suggestions for %d: unexpected status %d", userID, resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			ID int64 `json:"id"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode suggestions for %d: %v", userID, err)
	}

	ids := idSet{}
	previous := int64(0)
	for _, item := range payload.Items {
		if item.ID == userID {
			t.Fatalf("suggestions for %d contain the viewer", userID)
		}
		if item.ID <= previous {
			t.Fatalf("suggestions for %d not ascending: %d after %d", userID, item.ID, previous)
		}
		previous = item.ID
		ids[item.ID] = true
	}
	return ids
}

func listMatches(t *testing.T, ts *httptest.Server, userID int64) []matchItem {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/users/%d/matches", ts.URL, userID))
	if err != nil {
		t.Fatalf("list matches for %d: %v", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list matches for %d: unexpected status %d", userID, resp.StatusCode)
	}

	var payload struct {
		Items []matchItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode matches for %d: %v", userID, err)
	}
	return payload.Items
}

func findMatch(t *testing.T, ts *httptest.Server, userID, matchID int64) (matchItem, bool) {
	t.Helper()

	for _, item := range listMatches(t, ts, userID) {
		if item.MatchID == matchID {
			return item, true
		}
	}
	return matchItem{}, false
}
