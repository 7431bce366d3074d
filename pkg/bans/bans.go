// Package bans manages the durable ban records kept in a Roblox DataStore,
// keyed by Roblox user id, so game servers can enforce them on join.
package bans

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox"
)

// DefaultReason is used when the issuer gives none.
const DefaultReason = "Banned via Discord."

var (
	// ErrInvalidUserID is returned for ids that are not positive integers.
	ErrInvalidUserID = errors.New("UserId must be a number")
	// ErrUserNotFound is returned when a username does not resolve.
	ErrUserNotFound = errors.New("roblox user not found")
)

// Record is the value stored per banned user. The field names are read by
// the game, so they are fixed.
type Record struct {
	Reason    string `json:"Reason"`
	BannedBy  string `json:"BannedBy"`
	Username  string `json:"Username"`
	Timestamp int64  `json:"Timestamp"`
}

// Result describes a completed ban.
type Result struct {
	UserID int64
	Record Record
}

// UnbanResult describes a completed unban.
type UnbanResult struct {
	UserID   int64
	Username string
	// WasBanned is false when no record existed.
	WasBanned bool
}

// Store is the DataStore surface the service needs.
type Store interface {
	SetEntry(ctx context.Context, key string, value interface{}) error
	GetEntry(ctx context.Context, key string) ([]byte, error)
	DeleteEntry(ctx context.Context, key string) error
	ListKeys(ctx context.Context, cursor string) (*roblox.KeyPage, error)
}

// Directory resolves Roblox accounts.
type Directory interface {
	ResolveUsername(ctx context.Context, id int64) string
	ResolveIdentifier(ctx context.Context, username string) (*roblox.User, error)
}

// Notifier is told about every completed ban and unban.
type Notifier interface {
	BanChanged(action string, userID int64, username, actor string)
}

// Service applies ban operations against the DataStore.
type Service struct {
	store    Store
	users    Directory
	notifier Notifier
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifier registers a listener for ban changes.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a new Service
func NewService(store Store, users Directory, opts ...Option) *Service {
	s := &Service{store: store, users: users, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseUserID validates a Roblox user id typed by a user.
func ParseUserID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidUserID
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, ErrInvalidUserID
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidUserID
	}
	return id, nil
}

// BanByID bans a user id, resolving the username for display.
func (s *Service) BanByID(ctx context.Context, rawID, reason, actor string) (*Result, error) {
	id, err := ParseUserID(rawID)
	if err != nil {
		return nil, err
	}
	username := s.users.ResolveUsername(ctx, id)
	return s.write(ctx, id, username, reason, actor)
}

// BanByUsername resolves name to an account and bans it.
func (s *Service) BanByUsername(ctx context.Context, name, reason, actor string) (*Result, error) {
	user, err := s.users.ResolveIdentifier(ctx, strings.TrimSpace(name))
	if err != nil {
		if roblox.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, name)
		}
		return nil, err
	}
	return s.write(ctx, user.ID, user.Name, reason, actor)
}

func (s *Service) write(ctx context.Context, id int64, username, reason, actor string) (*Result, error) {
	if strings.TrimSpace(reason) == "" {
		reason = DefaultReason
	}
	rec := Record{
		Reason:    reason,
		BannedBy:  fmt.Sprintf("%s (Discord)", actor),
		Username:  username,
		Timestamp: s.now().Unix(),
	}

	if err := s.store.SetEntry(ctx, strconv.FormatInt(id, 10), rec); err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("%s banned %s (%d): %s", actor, username, id, reason), "Bans")
	if s.notifier != nil {
		s.notifier.BanChanged("ban", id, username, actor)
	}
	return &Result{UserID: id, Record: rec}, nil
}

// Unban removes the record for rawID. A missing record is not an error.
func (s *Service) Unban(ctx context.Context, rawID, actor string) (*UnbanResult, error) {
	id, err := ParseUserID(rawID)
	if err != nil {
		return nil, err
	}

	err = s.store.DeleteEntry(ctx, strconv.FormatInt(id, 10))
	if roblox.IsNotFound(err) {
		return &UnbanResult{UserID: id, WasBanned: false}, nil
	}
	if err != nil {
		return nil, err
	}

	username := s.users.ResolveUsername(ctx, id)
	logger.Info(fmt.Sprintf("%s unbanned %s (%d)", actor, username, id), "Bans")
	if s.notifier != nil {
		s.notifier.BanChanged("unban", id, username, actor)
	}
	return &UnbanResult{UserID: id, Username: username, WasBanned: true}, nil
}

// Get reads the record for id.
func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	body, err := s.store.GetEntry(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, &roblox.APIError{Kind: roblox.KindParse, Op: roblox.OpRead, Body: string(body), Err: err}
	}
	return &rec, nil
}

// Keys drains the key listing page by page.
func (s *Service) Keys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor string
	)
	for {
		page, err := s.store.ListKeys(ctx, cursor)
		if err != nil {
			return nil, err
		}
		keys = append(keys, page.Keys...)
		if page.NextPageCursor == "" {
			return keys, nil
		}
		cursor = page.NextPageCursor
	}
}

// List renders every ban as one display line, sorted. All keys are listed
// before any entry is read; entries are read one at a time. A permission
// error aborts the whole listing, any other per-key failure becomes an
// error line.
func (s *Service) List(ctx context.Context) ([]string, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug(fmt.Sprintf("Found %d ban keys", len(keys)), "Bans")

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		body, err := s.store.GetEntry(ctx, key)
		if err != nil {
			switch {
			case roblox.IsPermissionDenied(err):
				return nil, err
			case roblox.IsNotFound(err):
				lines = append(lines, fmt.Sprintf("[ERROR] Data for key `%s` was not found (404).", key))
			default:
				logger.Warn(fmt.Sprintf("Error fetching data for key %s: %v", key, err), "Bans")
				lines = append(lines, fmt.Sprintf("[ERROR] Could not fetch data for key: `%s`", key))
			}
			continue
		}

		line, err := FormatEntry(key, body)
		if err != nil {
			logger.Warn(fmt.Sprintf("Error decoding data for key %s: %v", key, err), "Bans")
			lines = append(lines, fmt.Sprintf("[ERROR] Corrupted data for key: `%s`", key))
			continue
		}
		lines = append(lines, line)
	}

	sort.Strings(lines)
	return lines, nil
}

// listedRecord tolerates entries written by other tools: every field is
// optional.
type listedRecord struct {
	Reason    *string  `json:"Reason"`
	BannedBy  *string  `json:"BannedBy"`
	Username  *string  `json:"Username"`
	Timestamp *float64 `json:"Timestamp"`
}

// FormatEntry renders one raw DataStore entry as a ban list line.
func FormatEntry(key string, body []byte) (string, error) {
	var rec listedRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return "", err
	}

	username := roblox.FallbackUsername(key)
	if rec.Username != nil {
		username = *rec.Username
	}
	bannedBy := "Unknown"
	if rec.BannedBy != nil {
		bannedBy = *rec.BannedBy
	}
	reason := "No reason"
	if rec.Reason != nil {
		reason = *rec.Reason
	}
	date := "???"
	if rec.Timestamp != nil && *rec.Timestamp != 0 {
		date = time.Unix(int64(*rec.Timestamp), 0).UTC().Format("2006-01-02 15:04")
	}

	return fmt.Sprintf("[%s] **%s** (By: %s) - *%s*", date, username, bannedBy, reason), nil
}
