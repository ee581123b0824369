package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msomdec/skill-connect/internal/domain"
)

// DefaultStorageKey is the key the whole profile collection is stored under.
const DefaultStorageKey = "skillconnect_profiles_v1"

// persistTimeout bounds a snapshot write, which outlives the request that
// triggered it.
const persistTimeout = 30 * time.Second

// ProfileStore owns the profile collection, mirrors it into durable storage
// after every mutation and derives the filtered and gallery views.
//
// Every mutation swaps in a new slice; snapshots handed out earlier are never
// modified.
type ProfileStore struct {
	kv     domain.KVStore
	files  domain.FileReader
	newID  domain.IDGenerator
	now    domain.Clock
	key    string
	logger *slog.Logger

	mu       sync.RWMutex
	profiles []domain.Profile
}

// StoreOption customizes a ProfileStore.
type StoreOption func(*ProfileStore)

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(gen domain.IDGenerator) StoreOption {
	return func(s *ProfileStore) { s.newID = gen }
}

// WithClock overrides the clock used for creation timestamps.
func WithClock(clock domain.Clock) StoreOption {
	return func(s *ProfileStore) { s.now = clock }
}

// WithStorageKey overrides the storage key.
func WithStorageKey(key string) StoreOption {
	return func(s *ProfileStore) { s.key = key }
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *ProfileStore) { s.logger = logger }
}

// NewProfileStore creates an empty ProfileStore. Call Initialize to load the
// persisted collection.
func NewProfileStore(kv domain.KVStore, files domain.FileReader, opts ...StoreOption) *ProfileStore {
	s := &ProfileStore{
		kv:       kv,
		files:    files,
		newID:    uuid.NewString,
		now:      time.Now,
		key:      DefaultStorageKey,
		logger:   slog.Default(),
		profiles: []domain.Profile{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the persisted collection. A missing key, an unreachable
// backend or a payload that fails schema validation all leave the store
// empty; nothing is returned to the caller.
func (s *ProfileStore) Initialize(ctx context.Context) {
	profiles, err := s.load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("no persisted profiles, starting empty", "key", s.key)
		} else {
			s.logger.Warn("discarding persisted profiles", "key", s.key, "error", err)
		}
		profiles = []domain.Profile{}
	}

	s.mu.Lock()
	s.profiles = profiles
	s.mu.Unlock()

	s.logger.Info("profile store initialized", "profiles", len(profiles))
}

func (s *ProfileStore) load(ctx context.Context) ([]domain.Profile, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeSnapshot(raw)
}

// CreateProfile builds a profile from raw form input, optionally with one
// video read from upload, and prepends it to the collection. If the upload
// cannot be read nothing is added.
func (s *ProfileStore) CreateProfile(ctx context.Context, in domain.ProfileInput, upload *domain.Upload) (domain.Profile, error) {
	profile := domain.Profile{
		ID:     s.newID(),
		Name:   strings.TrimSpace(in.Name),
		Skills: ParseSkills(in.Skills),
		Email:  strings.TrimSpace(in.Email),
		Phone:  strings.TrimSpace(in.Phone),
		Videos: []domain.Video{},
	}

	if upload != nil {
		video, err := s.readVideo(ctx, upload)
		if err != nil {
			return domain.Profile{}, err
		}
		profile.Videos = []domain.Video{video}
	}
	// Stored at millisecond precision so memory matches the persisted form.
	profile.CreatedAt = time.UnixMilli(s.now().UnixMilli())

	s.mu.Lock()
	next := make([]domain.Profile, 0, len(s.profiles)+1)
	next = append(next, profile)
	next = append(next, s.profiles...)
	s.profiles = next
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("profile created", "profile_id", profile.ID, "videos", len(profile.Videos))
	return profile, nil
}

// AddVideo prepends a video read from upload to the profile's videos. A nil
// upload is a no-op. An unknown profile ID leaves the collection unchanged
// but still persists it.
func (s *ProfileStore) AddVideo(ctx context.Context, profileID string, upload *domain.Upload) error {
	if upload == nil {
		return nil
	}

	video, err := s.readVideo(ctx, upload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Profile, len(s.profiles))
	matched := false
	for i, p := range s.profiles {
		if p.ID == profileID {
			videos := make([]domain.Video, 0, len(p.Videos)+1)
			videos = append(videos, video)
			p.Videos = append(videos, p.Videos...)
			matched = true
		}
		next[i] = p
	}
	s.profiles = next
	s.persistLocked(ctx)

	if matched {
		s.logger.Info("video added", "profile_id", profileID, "video_id", video.ID)
	} else {
		s.logger.Warn("video added to unknown profile", "profile_id", profileID)
	}
	return nil
}

func (s *ProfileStore) readVideo(ctx context.Context, upload *domain.Upload) (domain.Video, error) {
	data, err := s.files.ReadDataURI(ctx, upload)
	if err != nil {
		if !errors.Is(err, domain.ErrFileRead) {
			err = fmt.Errorf("%w: %w", domain.ErrFileRead, err)
		}
		return domain.Video{}, err
	}
	return domain.Video{ID: s.newID(), Name: upload.Name, Data: data}, nil
}

// persistLocked writes the current collection. The write is detached from
// ctx cancellation so a client hanging up after its mutation was applied
// does not leave storage behind. A failed write is logged and leaves memory
// ahead of storage until the next successful write.
func (s *ProfileStore) persistLocked(ctx context.Context) {
	raw, err := encodeSnapshot(s.profiles)
	if err != nil {
		s.logger.Error("encode profile snapshot", "key", s.key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.logger.Error("persist profiles", "key", s.key, "error", err)
	}
}

// Profiles returns a copy of the current collection, newest first. The
// profiles' Skills and Videos slices are shared with the store and must be
// treated as read-only.
func (s *ProfileStore) Profiles() []domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.profiles)
}

// FilteredProfiles returns the profiles whose name, email, phone or skills
// contain query, ignoring case. An empty query returns the whole collection.
func (s *ProfileStore) FilteredProfiles(query string) []domain.Profile {
	profiles := s.Profiles()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return profiles
	}

	matches := []domain.Profile{}
	for _, p := range profiles {
		if matchesQuery(p, q) {
			matches = append(matches, p)
		}
	}
	return matches
}

func matchesQuery(p domain.Profile, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Email), q) ||
		strings.Contains(strings.ToLower(p.Phone), q) ||
		strings.Contains(strings.ToLower(strings.Join(p.Skills, " ")), q)
}

// AllVideos flattens every profile's videos into one gallery, in profile
// order and then each profile's own order.
func (s *ProfileStore) AllVideos() []domain.GalleryVideo {
	profiles := s.Profiles()

	gallery := []domain.GalleryVideo{}
	for _, p := range profiles {
		for _, v := range p.Videos {
			gallery = append(gallery, domain.GalleryVideo{Video: v, OwnerID: p.ID, OwnerName: p.Name})
		}
	}
	return gallery
}

// Video looks up a single video by owner and video ID.
func (s *ProfileStore) Video(profileID, videoID string) (domain.GalleryVideo, error) {
	for _, p := range s.Profiles() {
		if p.ID != profileID {
			continue
		}
		for _, v := range p.Videos {
			if v.ID == videoID {
				return domain.GalleryVideo{Video: v, OwnerID: p.ID, OwnerName: p.Name}, nil
			}
		}
	}
	return domain.GalleryVideo{}, domain.ErrNotFound
}

// ParseSkills splits comma-separated text into trimmed, non-empty skills in
// order of appearance.
func ParseSkills(text string) []string {
	skills := []string{}
	for _, token := range strings.Split(text, ",") {
		if token = strings.TrimSpace(token); token != "" {
			skills = append(skills, token)
		}
	}
	return skills
}
