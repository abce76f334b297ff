package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/brightfold/landing-api/internal/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotFound indicates the token has no live session behind it.
var ErrNotFound = errors.New("session: not found")

// Store persists login sessions in the relational database. Tokens are
// opaque to clients; expiry is enforced on read and by a background reaper.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewStore constructs a session store with the given lifetime.
func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{db: db, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// newToken generates an opaque session token.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// Create inserts a new session bound to the given admin identity.
func (s *Store) Create(ctx context.Context, adminID uint64, username string) (*models.Session, error) {
	now := time.Now().UTC()
	record := models.Session{
		Token:     newToken(),
		AdminID:   adminID,
		Username:  username,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if errCreate := s.db.WithContext(ctx).Create(&record).Error; errCreate != nil {
		return nil, errCreate
	}
	return &record, nil
}

// Get loads the session behind a token. Expired rows are removed on read
// and reported as ErrNotFound.
func (s *Store) Get(ctx context.Context, token string) (*models.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotFound
	}
	var record models.Session
	if errFind := s.db.WithContext(ctx).First(&record, "token = ?", token).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errFind
	}
	if record.Expired(time.Now().UTC()) {
		_ = s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error
		return nil, ErrNotFound
	}
	return &record, nil
}

// Delete destroys the session behind a token. Deleting an unknown token is
// not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error
}

// DeleteForAdmin destroys every session bound to an admin, used when the
// account itself is removed.
func (s *Store) DeleteForAdmin(ctx context.Context, adminID uint64) error {
	return s.db.WithContext(ctx).Delete(&models.Session{}, "admin_id = ?", adminID).Error
}

// PurgeExpired removes every expired session row and returns the count.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Session{}, "expires_at <= ?", time.Now().UTC())
	return res.RowsAffected, res.Error
}

// StartReaper launches a goroutine that purges expired sessions on the
// given interval until the context is cancelled.
func (s *Store) StartReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, errPurge := s.PurgeExpired(ctx)
				if errPurge != nil {
					log.WithError(errPurge).Warn("session reaper purge failed")
					continue
				}
				if purged > 0 {
					log.Debugf("session reaper purged %d expired sessions", purged)
				}
			}
		}
	}()
}
