package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"playerhub/services/auth"
	"playerhub/set"
	"playerhub/utils"
)

// Service reconciles identity-provider principals with stored user
// records and exposes the profile mutation and query operations.
type Service interface {
	// Reconcile produces the authoritative record for a principal:
	// identity fields are refreshed, gameplay fields are preserved when
	// a record already exists, and a fresh record is created otherwise.
	Reconcile(ctx context.Context, p auth.Principal) (*UserRecord, error)
	GetByID(ctx context.Context, uid string) (*UserRecord, error)
	GetCurrent(ctx context.Context) (*UserRecord, error)
	// All returns every user record. Used for admin backfills.
	All(ctx context.Context) ([]UserRecord, error)
	// UpdateStats overwrites the whole stats sub-document. Callers
	// compute deltas themselves; retried calls double-apply them.
	UpdateStats(ctx context.Context, uid string, stats UserStats) error
	// UpdateLevel touches only the level and experience fields so it
	// cannot race a concurrent stats write.
	UpdateLevel(ctx context.Context, uid string, level, experience int) error
	// AddAchievement appends a label once, preserving insertion order.
	// A duplicate label is a successful no-op.
	AddAchievement(ctx context.Context, uid string, label string) error
	SetAvatarURL(ctx context.Context, uid string, url string) error
	Delete(ctx context.Context, uid string) error
	// TopByScore returns the highest-scoring records ordered by
	// highScore descending. limit defaults to 10 when not positive.
	TopByScore(ctx context.Context, limit int) ([]UserRecord, error)
	// Watch delivers the current record immediately and again on every
	// change until the returned subscription is stopped.
	Watch(ctx context.Context, uid string, onChange func(*UserRecord), onError func(error)) (*Subscription, error)
}

type service struct {
	db   *firestore.Client
	auth auth.Service
}

var _ Service = (*service)(nil)

const (
	usersCollection        = "users"
	defaultLeaderboardSize = 10
	highScoreField         = "stats.highScore"
)

var (
	ErrNotFound  = errors.New("user record not found")
	ErrMalformed = errors.New("stored user record is malformed")
)

func NewService(db *firestore.Client, authService auth.Service) Service {
	return &service{
		db:   db,
		auth: authService,
	}
}

// Reconcile performs a whole-record write on purpose: every field is
// either recomputed from the principal or carried over from the stored
// record, so nothing is read-modify-written elsewhere. Concurrent
// logins for the same account are last-writer-wins.
func (s *service) Reconcile(ctx context.Context, p auth.Principal) (*UserRecord, error) {
	if p.ID == "" {
		return nil, errors.New("principal id is required")
	}
	now := time.Now()

	var rec UserRecord
	existing, err := s.GetByID(ctx, p.ID)
	switch {
	case err == nil:
		rec = merge(*existing, p, now)
	case errors.Is(err, ErrNotFound):
		rec = newRecord(p, now)
	case errors.Is(err, ErrMalformed):
		// Never hand back a partially-garbage record. Recreate it.
		log.Warn().Str("uid", p.ID).Err(err).Msg("existing record malformed, recreating")
		rec = newRecord(p, now)
	default:
		return nil, err
	}

	if _, err := s.db.Collection(usersCollection).Doc(p.ID).Set(ctx, rec); err != nil {
		return nil, fmt.Errorf("persisting user %s: %w", p.ID, err)
	}
	return &rec, nil
}

func (s *service) GetByID(ctx context.Context, uid string) (*UserRecord, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	doc, err := s.db.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching user %s: %w", uid, err)
	}
	rec := UserRecord{}
	if err := doc.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	rec.Normalize()
	return &rec, nil
}

func (s *service) GetCurrent(ctx context.Context) (*UserRecord, error) {
	p, err := s.auth.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, p.ID)
}

func (s *service) All(ctx context.Context) ([]UserRecord, error) {
	docs, err := s.db.Collection(usersCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	records, err := utils.GetAllToStructs[UserRecord](docs)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}

func (s *service) UpdateStats(ctx context.Context, uid string, stats UserStats) error {
	_, err := s.db.Collection(usersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "stats", Value: stats},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("updating stats for %s: %w", uid, err)
	}
	return nil
}

func (s *service) UpdateLevel(ctx context.Context, uid string, level, experience int) error {
	if level < 1 {
		return fmt.Errorf("level must be at least 1, got %d", level)
	}
	if experience < 0 {
		return fmt.Errorf("experience must not be negative, got %d", experience)
	}
	_, err := s.db.Collection(usersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "level", Value: level},
		{Path: "experience", Value: experience},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("updating level for %s: %w", uid, err)
	}
	return nil
}

func (s *service) AddAchievement(ctx context.Context, uid string, label string) error {
	if label == "" {
		return errors.New("achievement label is required")
	}
	rec, err := s.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	if set.FromSlice(rec.Achievements).Contains(label) {
		return nil
	}
	updated := append(rec.Achievements, label)
	_, err = s.db.Collection(usersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "achievements", Value: updated},
	})
	if err != nil {
		return fmt.Errorf("adding achievement for %s: %w", uid, err)
	}
	return nil
}

func (s *service) SetAvatarURL(ctx context.Context, uid string, url string) error {
	_, err := s.db.Collection(usersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "profileImageUrl", Value: url},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("updating avatar for %s: %w", uid, err)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, uid string) error {
	if uid == "" {
		return errors.New("uid is required")
	}
	if _, err := s.db.Collection(usersCollection).Doc(uid).Delete(ctx); err != nil {
		return fmt.Errorf("deleting user %s: %w", uid, err)
	}
	return nil
}

// TopByScore queries ascending with LimitToLast, so the store hands
// back the top N in ascending order; the final descending sort happens
// client-side. Records that fail to deserialize are skipped.
// Limit-to-last queries cannot be streamed, so the snapshots are
// collected with GetAll.
func (s *service) TopByScore(ctx context.Context, limit int) ([]UserRecord, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	docs, err := s.db.Collection(usersCollection).
		OrderBy(highScoreField, firestore.Asc).
		LimitToLast(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}

	records := make([]UserRecord, 0, len(docs))
	for _, doc := range docs {
		rec := UserRecord{}
		if err := doc.DataTo(&rec); err != nil {
			log.Warn().Str("doc", doc.Ref.ID).Err(err).Msg("skipping malformed user record")
			continue
		}
		rec.Normalize()
		records = append(records, rec)
	}

	sortByHighScore(records)
	return records, nil
}

func sortByHighScore(records []UserRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Stats.HighScore == records[j].Stats.HighScore {
			return records[i].UID < records[j].UID
		}
		return records[i].Stats.HighScore > records[j].Stats.HighScore
	})
}
