package swipes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/WyattC-ctrl/StudyBuddy/internal/domain/enums"
	pgrepo "github.com/WyattC-ctrl/StudyBuddy/internal/repo/postgres"
)

type identityStub struct {
	known map[int64]bool
}

func (s *identityStub) Exists(_ context.Context, userID int64) (bool, error) {
	return s.known[userID], nil
}

type swipeStoreStub struct {
	nextID     int64
	seen       map[string]bool
	reciprocal map[string]bool
	created    []pgrepo.SwipeRecord
}

func newSwipeStoreStub() *swipeStoreStub {
	return &swipeStoreStub{
		nextID:     1,
		seen:       map[string]bool{},
		reciprocal: map[string]bool{},
	}
}

func pairKey(a, b int64) string {
	return fmt.Sprintf("%d->%d", a, b)
}

func (s *swipeStoreStub) LockPair(_ context.Context, _ pgx.Tx, userA, userB int64) error {
	if userA <= 0 || userB <= 0 || userA == userB {
		return fmt.Errorf("invalid pair lock payload")
	}
	return nil
}

func (s *swipeStoreStub) Create(_ context.Context, _ pgx.Tx, swiperID, targetID int64, status string, now time.Time) (pgrepo.SwipeRecord, error) {
	key := pairKey(swiperID, targetID)
	if s.seen[key] {
		return pgrepo.SwipeRecord{}, pgrepo.ErrDuplicateSwipe
	}
	s.seen[key] = true

	rec := pgrepo.SwipeRecord{
		ID:           s.nextID,
		SwiperUserID: swiperID,
		TargetUserID: targetID,
		Status:       status,
		CreatedAt:    now,
	}
	s.nextID++
	s.created = append(s.created, rec)
	return rec, nil
}

func (s *swipeStoreStub) HasReciprocalLike(_ context.Context, _ pgx.Tx, swiperID, targetID int64) (bool, error) {
	return s.reciprocal[pairKey(targetID, swiperID)], nil
}

type matchStoreStub struct {
	nextID   int64
	existing map[string]pgrepo.MatchRecord
	calls    int
}

func newMatchStoreStub() *matchStoreStub {
	return &matchStoreStub{nextID: 100, existing: map[string]pgrepo.MatchRecord{}}
}

func (s *matchStoreStub) CreateCanonical(_ context.Context, _ pgx.Tx, userA, userB int64, now time.Time) (pgrepo.MatchRecord, bool, error) {
	s.calls++
	low, high := userA, userB
	if low > high {
		low, high = high, low
	}
	key := pairKey(low, high)
	if rec, ok := s.existing[key]; ok {
		return rec, false, nil
	}

	rec := pgrepo.MatchRecord{
		ID:         s.nextID,
		UserLowID:  low,
		UserHighID: high,
		MatchedAt:  now,
	}
	s.nextID++
	s.existing[key] = rec
	return rec, true, nil
}

type invalidatorStub struct {
	calls []int64
	err   error
}

func (s *invalidatorStub) Invalidate(_ context.Context, userID int64) error {
	s.calls = append(s.calls, userID)
	return s.err
}

func newTestService(swipes *swipeStoreStub, matches *matchStoreStub, identities *identityStub, inv *invalidatorStub) *Service {
	svc := NewService(Dependencies{
		SwipeStore: swipes,
		MatchStore: matches,
		Identities: identities,
	})
	if inv != nil {
		svc.invalidator = inv
	}
	svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestRecordRejectsSelfSwipe(t *testing.T) {
	svc := newTestService(newSwipeStoreStub(), newMatchStoreStub(), &identityStub{known: map[int64]bool{4: true}}, nil)

	if _, err := svc.Record(context.Background(), 4, 4, enums.SwipeStatusLike); !errors.Is(err, ErrSelfSwipe) {
		t.Fatalf("expected ErrSelfSwipe, got %v", err)
	}
}

func TestRecordRejectsInvalidStatus(t *testing.T) {
	svc := newTestService(newSwipeStoreStub(), newMatchStoreStub(), &identityStub{known: map[int64]bool{1: true, 2: true}}, nil)

	if _, err := svc.Record(context.Background(), 1, 2, enums.SwipeStatus("MAYBE")); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRecordRejectsUnknownUsers(t *testing.T) {
	identities := &identityStub{known: map[int64]bool{1: true}}
	svc := newTestService(newSwipeStoreStub(), newMatchStoreStub(), identities, nil)

	if _, err := svc.Record(context.Background(), 1, 99, enums.SwipeStatusLike); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown target, got %v", err)
	}
	if _, err := svc.Record(context.Background(), 99, 1, enums.SwipeStatusLike); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown swiper, got %v", err)
	}
}

func TestRecordDuplicatePairIsRejected(t *testing.T) {
	swipes := newSwipeStoreStub()
	svc := newTestService(swipes, newMatchStoreStub(), &identityStub{known: map[int64]bool{1: true, 2: true}}, nil)

	if _, err := svc.Record(context.Background(), 1, 2, enums.SwipeStatusLike); err != nil {
		t.Fatalf("first swipe: %v", err)
	}
	if _, err := svc.Record(context.Background(), 1, 2, enums.SwipeStatusDislike); !errors.Is(err, ErrDuplicateSwipe) {
		t.Fatalf("expected ErrDuplicateSwipe on repeated pair, got %v", err)
	}
	if len(swipes.created) != 1 {
		t.Fatalf("expected exactly one edge, got %d", len(swipes.created))
	}
}

func TestRecordLikeWithoutReciprocityCreatesNoMatch(t *testing.T) {
	matches := newMatchStoreStub()
	svc := newTestService(newSwipeStoreStub(), matches, &identityStub{known: map[int64]bool{1: true, 2: true}}, nil)

	result, err := svc.Record(context.Background(), 1, 2, enums.SwipeStatusLike)
	if err != nil {
		t.Fatalf("record like: %v", err)
	}
	if result.MatchFound {
		t.Fatalf("one-sided like must not produce a match")
	}
	if matches.calls != 0 {
		t.Fatalf("match store must not be consulted without reciprocity")
	}
}

func TestRecordMutualLikeCreatesCanonicalMatch(t *testing.T) {
	swipes := newSwipeStoreStub()
	swipes.reciprocal[pairKey(3, 7)] = true
	matches := newMatchStoreStub()
	inv := &invalidatorStub{}
	svc := newTestService(swipes, matches, &identityStub{known: map[int64]bool{3: true, 7: true}}, inv)

	result, err := svc.Record(context.Background(), 7, 3, enums.SwipeStatusLike)
	if err != nil {
		t.Fatalf("record reciprocal like: %v", err)
	}
	if !result.MatchFound || result.MatchID == nil {
		t.Fatalf("expected a match, got %+v", result)
	}

	rec := matches.existing[pairKey(3, 7)]
	if rec.UserLowID != 3 || rec.UserHighID != 7 {
		t.Fatalf("match pair not canonical: low=%d high=%d", rec.UserLowID, rec.UserHighID)
	}
	if *result.MatchID != rec.ID {
		t.Fatalf("result match id %d != stored %d", *result.MatchID, rec.ID)
	}
	if result.MatchedAt == nil || !result.MatchedAt.Equal(rec.MatchedAt) {
		t.Fatalf("matched_at mismatch: %v vs %v", result.MatchedAt, rec.MatchedAt)
	}
	if len(inv.calls) != 1 || inv.calls[0] != 7 {
		t.Fatalf("expected suggestion invalidation for swiper, got %v", inv.calls)
	}
}

func TestRecordDislikeIgnoresReciprocalLike(t *testing.T) {
	swipes := newSwipeStoreStub()
	swipes.reciprocal[pairKey(3, 7)] = true
	matches := newMatchStoreStub()
	svc := newTestService(swipes, matches, &identityStub{known: map[int64]bool{3: true, 7: true}}, nil)

	result, err := svc.Record(context.Background(), 7, 3, enums.SwipeStatusDislike)
	if err != nil {
		t.Fatalf("record dislike: %v", err)
	}
	if result.MatchFound {
		t.Fatalf("dislike must never produce a match")
	}
	if matches.calls != 0 {
		t.Fatalf("match store must not be consulted for a dislike")
	}
}

func TestRecordReusesExistingMatchOnRace(t *testing.T) {
	swipes := newSwipeStoreStub()
	swipes.reciprocal[pairKey(3, 7)] = true
	matches := newMatchStoreStub()
	matchedAt := time.Date(2026, time.February, 28, 9, 0, 0, 0, time.UTC)
	matches.existing[pairKey(3, 7)] = pgrepo.MatchRecord{
		ID:         55,
		UserLowID:  3,
		UserHighID: 7,
		MatchedAt:  matchedAt,
	}
	svc := newTestService(swipes, matches, &identityStub{known: map[int64]bool{3: true, 7: true}}, nil)

	result, err := svc.Record(context.Background(), 7, 3, enums.SwipeStatusLike)
	if err != nil {
		t.Fatalf("record like against existing match: %v", err)
	}
	if !result.MatchFound || result.MatchID == nil || *result.MatchID != 55 {
		t.Fatalf("expected existing match 55, got %+v", result)
	}
	if !result.MatchedAt.Equal(matchedAt) {
		t.Fatalf("expected original matched_at to be preserved, got %v", result.MatchedAt)
	}
}

func TestRecordSucceedsWhenCacheInvalidationFails(t *testing.T) {
	inv := &invalidatorStub{err: errors.New("redis down")}
	svc := newTestService(newSwipeStoreStub(), newMatchStoreStub(), &identityStub{known: map[int64]bool{1: true, 2: true}}, inv)

	if _, err := svc.Record(context.Background(), 1, 2, enums.SwipeStatusLike); err != nil {
		t.Fatalf("cache failure must not fail the swipe: %v", err)
	}
}

type txSessionKey struct{}

type txSession struct {
	pending   []pgrepo.SwipeRecord
	holdsPair bool
}

func sessionFrom(ctx context.Context) *txSession {
	return ctx.Value(txSessionKey{}).(*txSession)
}

// readCommittedStore gives each transaction READ COMMITTED visibility: edges
// written inside a transaction stay invisible to other transactions until
// that transaction finishes. The pair lock is a real mutex held until the
// finish merges the pending edges, and the reciprocity lookup refuses to
// answer until a second resolver has contended for the lock, so the test
// pins the interleaving where both reciprocal swipes are in flight at once.
type readCommittedStore struct {
	mu        sync.Mutex
	committed map[string]string
	nextID    int64

	pairMu       sync.Mutex
	lockAttempts int32
}

func newReadCommittedStore() *readCommittedStore {
	return &readCommittedStore{committed: map[string]string{}}
}

func (s *readCommittedStore) LockPair(ctx context.Context, _ pgx.Tx, userA, userB int64) error {
	if userA <= 0 || userB <= 0 || userA == userB {
		return fmt.Errorf("invalid pair lock payload")
	}
	atomic.AddInt32(&s.lockAttempts, 1)
	s.pairMu.Lock()
	sessionFrom(ctx).holdsPair = true
	return nil
}

func (s *readCommittedStore) Create(ctx context.Context, _ pgx.Tx, swiperID, targetID int64, status string, now time.Time) (pgrepo.SwipeRecord, error) {
	s.mu.Lock()
	_, dup := s.committed[pairKey(swiperID, targetID)]
	s.mu.Unlock()
	if dup {
		return pgrepo.SwipeRecord{}, pgrepo.ErrDuplicateSwipe
	}

	rec := pgrepo.SwipeRecord{
		ID:           atomic.AddInt64(&s.nextID, 1),
		SwiperUserID: swiperID,
		TargetUserID: targetID,
		Status:       status,
		CreatedAt:    now,
	}
	sess := sessionFrom(ctx)
	sess.pending = append(sess.pending, rec)
	return rec, nil
}

func (s *readCommittedStore) HasReciprocalLike(_ context.Context, _ pgx.Tx, swiperID, targetID int64) (bool, error) {
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&s.lockAttempts) < 2 {
		if time.Now().After(deadline) {
			return false, fmt.Errorf("no concurrent resolver contended for the pair lock")
		}
		time.Sleep(time.Millisecond)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed[pairKey(targetID, swiperID)] == "LIKE", nil
}

// finish commits or discards the session's edges, then releases the pair
// lock, in that order: the lock outlives the transaction's writes the way
// an advisory xact lock does.
func (s *readCommittedStore) finish(sess *txSession, commit bool) {
	if commit {
		s.mu.Lock()
		for _, rec := range sess.pending {
			s.committed[pairKey(rec.SwiperUserID, rec.TargetUserID)] = rec.Status
		}
		s.mu.Unlock()
	}
	if sess.holdsPair {
		s.pairMu.Unlock()
	}
}

func TestRecordConcurrentReciprocalLikesResolveOneMatch(t *testing.T) {
	store := newReadCommittedStore()
	matches := newMatchStoreStub()
	svc := NewService(Dependencies{
		SwipeStore: store,
		MatchStore: matches,
		Identities: &identityStub{known: map[int64]bool{3: true, 7: true}},
	})
	svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		sess := &txSession{}
		err := fn(context.WithValue(ctx, txSessionKey{}, sess), nil)
		store.finish(sess, err == nil)
		return err
	}

	var wg sync.WaitGroup
	results := make([]RecordResult, 2)
	errs := make([]error, 2)
	start := make(chan struct{})
	record := func(i int, swiperID, targetID int64) {
		defer wg.Done()
		<-start
		results[i], errs[i] = svc.Record(context.Background(), swiperID, targetID, enums.SwipeStatusLike)
	}
	wg.Add(2)
	go record(0, 3, 7)
	go record(1, 7, 3)
	close(start)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if store.committed[pairKey(3, 7)] != "LIKE" || store.committed[pairKey(7, 3)] != "LIKE" {
		t.Fatalf("expected both edges committed, got %v", store.committed)
	}

	matched := 0
	for _, res := range results {
		if res.MatchFound {
			matched++
		}
	}
	if matched != 1 {
		t.Fatalf("expected exactly one resolver to report the match, got %d", matched)
	}
	if matches.calls != 1 {
		t.Fatalf("expected one match insert, got %d", matches.calls)
	}

	match, ok := matches.existing[pairKey(3, 7)]
	if !ok {
		t.Fatalf("expected canonical match for pair 3/7, got %v", matches.existing)
	}
	if match.UserLowID != 3 || match.UserHighID != 7 {
		t.Fatalf("unexpected canonical pair: %+v", match)
	}
}
