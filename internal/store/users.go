package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

const bcryptCost = 12

type UserTable struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]*models.UserProfile
	byName map[string]uuid.UUID
	rec    Recorder
}

func newUserTable(rec Recorder) *UserTable {
	return &UserTable{
		users:  make(map[uuid.UUID]*models.UserProfile),
		byName: make(map[string]uuid.UUID),
		rec:    rec,
	}
}

func (t *UserTable) Register(username string, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := strings.ToLower(username)
	if _, taken := t.byName[key]; taken {
		return models.User{}, ErrUsernameTaken
	}

	profile := &models.UserProfile{
		ID:       uuid.New(),
		Username: username,
		Hash:     hash,
		Color:    models.DefaultColor,
		Role:     models.RoleUser,
		Status:   models.StatusOffline,
	}
	t.users[profile.ID] = profile
	t.byName[key] = profile.ID

	t.record(*profile)
	return profile.User(), nil
}

func (t *UserTable) Authenticate(username string, password string) (models.User, error) {
	t.mu.RLock()
	id, exists := t.byName[strings.ToLower(username)]
	var hash []byte
	if exists {
		hash = append([]byte(nil), t.users[id].Hash...)
	}
	t.mu.RUnlock()

	if !exists {
		return models.User{}, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return models.User{}, ErrBadCredentials
	}

	return t.Get(id)
}

func (t *UserTable) Get(id uuid.UUID) (models.User, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	profile, exists := t.users[id]
	if !exists {
		return models.User{}, ErrNotFound
	}
	return profile.User(), nil
}

// Profile returns the full account record with the credential hash stripped,
// so the copy is safe to hand to anything that serializes.
func (t *UserTable) Profile(id uuid.UUID) (models.UserProfile, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	profile, exists := t.users[id]
	if !exists {
		return models.UserProfile{}, ErrNotFound
	}

	cp := *profile
	cp.Hash = nil
	return cp, nil
}

func (t *UserTable) LookupID(username string) (uuid.UUID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	id, exists := t.byName[strings.ToLower(username)]
	return id, exists
}

func (t *UserTable) List() []models.UserInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	users := make([]models.UserInfo, 0, len(t.users))
	for _, profile := range t.users {
		users = append(users, profile.User().Info())
	}
	return users
}

// Avatars resolves a batch of avatar references; unknown ids are skipped
// rather than failing the batch.
func (t *UserTable) Avatars(ids []uuid.UUID) map[uuid.UUID]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	avatars := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if profile, exists := t.users[id]; exists {
			avatars[id] = profile.ProfilePic
		}
	}
	return avatars
}

func (t *UserTable) UpdateColor(id uuid.UUID, color models.Color) (models.User, error) {
	return t.mutate(id, func(p *models.UserProfile) { p.Color = color })
}

func (t *UserTable) UpdateStatus(id uuid.UUID, status models.UserStatus) (models.User, error) {
	return t.mutate(id, func(p *models.UserProfile) { p.Status = status })
}

func (t *UserTable) UpdatePassword(id uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	_, err = t.mutate(id, func(p *models.UserProfile) { p.Hash = hash })
	return err
}

// ProfileUpdate carries the optional profile fields; nil means "leave as is".
type ProfileUpdate struct {
	Bio         *string
	URL1        *string
	URL2        *string
	URL3        *string
	Location    *string
	ProfilePic  *string
	CoverBanner *string
}

func (t *UserTable) UpdateProfile(id uuid.UUID, upd ProfileUpdate) (models.User, error) {
	return t.mutate(id, func(p *models.UserProfile) {
		apply := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		apply(&p.Bio, upd.Bio)
		apply(&p.URL1, upd.URL1)
		apply(&p.URL2, upd.URL2)
		apply(&p.URL3, upd.URL3)
		apply(&p.Location, upd.Location)
		apply(&p.ProfilePic, upd.ProfilePic)
		apply(&p.CoverBanner, upd.CoverBanner)
	})
}

// SetRole is only reachable from admin tooling; role policy lives outside
// the core.
func (t *UserTable) SetRole(id uuid.UUID, role models.UserRole) (models.User, error) {
	return t.mutate(id, func(p *models.UserProfile) { p.Role = role })
}

// Restore installs a previously persisted profile without re-hashing.
func (t *UserTable) Restore(profile models.UserProfile) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cp := profile
	cp.Status = models.StatusOffline
	t.users[cp.ID] = &cp
	t.byName[strings.ToLower(cp.Username)] = cp.ID
}

func (t *UserTable) mutate(id uuid.UUID, fn func(*models.UserProfile)) (models.User, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	profile, exists := t.users[id]
	if !exists {
		return models.User{}, ErrNotFound
	}

	fn(profile)
	t.record(*profile)
	return profile.User(), nil
}

func (t *UserTable) record(profile models.UserProfile) {
	if t.rec != nil {
		t.rec.SaveUser(profile)
	}
}
