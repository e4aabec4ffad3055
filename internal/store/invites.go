package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

// pendingKey is the uniqueness domain: at most one pending invite may exist
// per (inviter, invitee, server) triple.
type pendingKey struct {
	inviter uuid.UUID
	invitee uuid.UUID
	server  uuid.UUID
}

// InviteTable owns the invite lifecycle: Pending -> Accepted | Declined |
// Expired, terminal once non-pending. The pending index doubles as the
// lookup path for the resolve-by-inviter entry point and is dropped on
// every terminal transition.
type InviteTable struct {
	mu      sync.Mutex
	invites map[uuid.UUID]*models.ServerInvite
	pending map[pendingKey]uuid.UUID
	rec     Recorder
}

func newInviteTable(rec Recorder) *InviteTable {
	return &InviteTable{
		invites: make(map[uuid.UUID]*models.ServerInvite),
		pending: make(map[pendingKey]uuid.UUID),
		rec:     rec,
	}
}

// Send creates a pending invite, refusing duplicates within the uniqueness
// domain.
func (t *InviteTable) Send(from models.User, to uuid.UUID, server models.Server) (models.ServerInvite, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := pendingKey{inviter: from.ID, invitee: to, server: server.ID}
	if _, exists := t.pending[key]; exists {
		return models.ServerInvite{}, ErrDuplicatePendingInvite
	}

	invite := &models.ServerInvite{
		ID:        uuid.New(),
		From:      from,
		To:        to,
		Server:    server,
		Timestamp: time.Now().UnixMilli(),
		Status:    models.InvitePending,
	}
	t.invites[invite.ID] = invite
	t.pending[key] = invite.ID

	t.record(*invite)
	return *invite, nil
}

// Respond transitions a pending invite to Accepted or Declined. Only the
// invitee may respond, and a resolved invite can never transition again.
func (t *InviteTable) Respond(inviteID uuid.UUID, by uuid.UUID, accept bool) (models.ServerInvite, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	invite, exists := t.invites[inviteID]
	if !exists {
		return models.ServerInvite{}, ErrNoPendingInvite
	}
	if invite.To != by {
		return models.ServerInvite{}, ErrNotAuthorized
	}
	if invite.Status.Terminal() {
		return models.ServerInvite{}, ErrInviteResolved
	}

	if accept {
		invite.Status = models.InviteAccepted
	} else {
		invite.Status = models.InviteDeclined
	}
	t.dropPending(invite)

	t.record(*invite)
	return *invite, nil
}

// ResolvePending finds the single pending invite from inviter to invitee.
// Zero matches is a plain "no such invite"; more than one means the
// uniqueness invariant was broken and the caller must treat the state as
// inconsistent instead of picking a winner.
func (t *InviteTable) ResolvePending(inviter uuid.UUID, invitee uuid.UUID) (models.ServerInvite, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var found *models.ServerInvite
	for key, id := range t.pending {
		if key.inviter == inviter && key.invitee == invitee {
			if found != nil {
				return models.ServerInvite{}, ErrAmbiguousPendingInvite
			}
			found = t.invites[id]
		}
	}

	if found == nil {
		return models.ServerInvite{}, ErrNoPendingInvite
	}
	return *found, nil
}

// Get returns an invite by id.
func (t *InviteTable) Get(inviteID uuid.UUID) (models.ServerInvite, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	invite, exists := t.invites[inviteID]
	if !exists {
		return models.ServerInvite{}, ErrNoPendingInvite
	}
	return *invite, nil
}

// PendingFor lists pending invites addressed to the user, for initial sync
// after login.
func (t *InviteTable) PendingFor(invitee uuid.UUID) []models.ServerInvite {
	t.mu.Lock()
	defer t.mu.Unlock()

	invites := []models.ServerInvite{}
	for key, id := range t.pending {
		if key.invitee == invitee {
			invites = append(invites, *t.invites[id])
		}
	}
	return invites
}

// ExpireBefore marks every pending invite created before the deadline as
// Expired and returns them, for the periodic sweep.
func (t *InviteTable) ExpireBefore(deadline time.Time) []models.ServerInvite {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := deadline.UnixMilli()
	expired := []models.ServerInvite{}
	for _, id := range t.pending {
		invite := t.invites[id]
		if invite.Timestamp < cutoff {
			expired = append(expired, *invite)
		}
	}
	for i := range expired {
		invite := t.invites[expired[i].ID]
		invite.Status = models.InviteExpired
		t.dropPending(invite)
		expired[i] = *invite
		t.record(*invite)
	}
	return expired
}

// Restore installs a persisted invite, rebuilding the pending index.
func (t *InviteTable) Restore(invite models.ServerInvite) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cp := invite
	t.invites[cp.ID] = &cp
	if cp.Status == models.InvitePending {
		t.pending[pendingKey{inviter: cp.From.ID, invitee: cp.To, server: cp.Server.ID}] = cp.ID
	}
}

func (t *InviteTable) dropPending(invite *models.ServerInvite) {
	delete(t.pending, pendingKey{inviter: invite.From.ID, invitee: invite.To, server: invite.Server.ID})
}

func (t *InviteTable) record(invite models.ServerInvite) {
	if t.rec != nil {
		t.rec.SaveInvite(invite)
	}
}
