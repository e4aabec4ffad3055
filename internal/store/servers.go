package store

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

type ServerTable struct {
	mu      sync.RWMutex
	servers map[uuid.UUID]*models.Server
	order   []uuid.UUID
	rec     Recorder
}

func newServerTable(rec Recorder) *ServerTable {
	return &ServerTable{
		servers: make(map[uuid.UUID]*models.Server),
		rec:     rec,
	}
}

func (t *ServerTable) Create(server models.Server) models.Server {
	t.mu.Lock()
	defer t.mu.Unlock()

	if server.ID == uuid.Nil {
		server.ID = uuid.New()
	}
	if server.Owner != uuid.Nil && !slices.Contains(server.Userlist, server.Owner) {
		server.Userlist = append(server.Userlist, server.Owner)
	}
	for i := range server.Channels {
		server.Channels[i].ServerID = server.ID
		if server.Channels[i].ID == uuid.Nil {
			server.Channels[i].ID = uuid.New()
		}
	}
	if server.Owner != uuid.Nil && len(server.Channels) > 0 {
		enrollInChannel(&server.Channels[0], server.Owner)
	}

	cp := server
	t.servers[cp.ID] = &cp
	t.order = append(t.order, cp.ID)
	t.record(&cp)
	return cloneServer(&cp)
}

// Restore installs a persisted server without re-recording it.
func (t *ServerTable) Restore(server models.Server) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cp := server
	t.servers[cp.ID] = &cp
	t.order = append(t.order, cp.ID)
}

func (t *ServerTable) Get(id uuid.UUID) (models.Server, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	server, exists := t.servers[id]
	if !exists {
		return models.Server{}, ErrNotFound
	}
	return cloneServer(server), nil
}

// ListFor returns every server the user is a member of, in creation order.
func (t *ServerTable) ListFor(userID uuid.UUID) []models.Server {
	t.mu.RLock()
	defer t.mu.RUnlock()

	servers := []models.Server{}
	for _, id := range t.order {
		server := t.servers[id]
		if slices.Contains(server.Userlist, userID) {
			servers = append(servers, cloneServer(server))
		}
	}
	return servers
}

// ListPublic returns the servers every new account is enrolled into.
func (t *ServerTable) ListPublic() []models.Server {
	t.mu.RLock()
	defer t.mu.RUnlock()

	servers := []models.Server{}
	for _, id := range t.order {
		if t.servers[id].Public {
			servers = append(servers, cloneServer(t.servers[id]))
		}
	}
	return servers
}

func (t *ServerTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.servers)
}

func (t *ServerTable) IsMember(serverID uuid.UUID, userID uuid.UUID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	server, exists := t.servers[serverID]
	return exists && slices.Contains(server.Userlist, userID)
}

// AddMember adds the user to the server member list and to its first
// channel's member list and permission lists. Channel membership stays a
// subset of server membership because this is the only place members enter
// a channel. Adding an existing member is a no-op.
func (t *ServerTable) AddMember(serverID uuid.UUID, userID uuid.UUID) (models.Server, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	server, exists := t.servers[serverID]
	if !exists {
		return models.Server{}, ErrNotFound
	}

	if !slices.Contains(server.Userlist, userID) {
		server.Userlist = append(server.Userlist, userID)
	}

	if len(server.Channels) > 0 {
		enrollInChannel(&server.Channels[0], userID)
	}

	t.record(server)
	return cloneServer(server), nil
}

func (t *ServerTable) record(server *models.Server) {
	if t.rec != nil {
		t.rec.SaveServer(cloneServer(server))
	}
}

func enrollInChannel(ch *models.Channel, userID uuid.UUID) {
	if !slices.Contains(ch.Userlist, userID) {
		ch.Userlist = append(ch.Userlist, userID)
	}
	if !slices.Contains(ch.Permissions.CanRead, userID) {
		ch.Permissions.CanRead = append(ch.Permissions.CanRead, userID)
	}
	if !slices.Contains(ch.Permissions.CanWrite, userID) {
		ch.Permissions.CanWrite = append(ch.Permissions.CanWrite, userID)
	}
}

// FindChannel resolves a channel id to its channel and owning server id.
func (t *ServerTable) FindChannel(channelID uuid.UUID) (models.Channel, uuid.UUID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, server := range t.servers {
		for i := range server.Channels {
			if server.Channels[i].ID == channelID {
				return cloneChannel(&server.Channels[i]), server.ID, nil
			}
		}
	}
	return models.Channel{}, uuid.Nil, ErrNotFound
}

func (t *ServerTable) CanWrite(channelID uuid.UUID, userID uuid.UUID) bool {
	channel, _, err := t.FindChannel(channelID)
	if err != nil {
		return false
	}
	return slices.Contains(channel.Permissions.CanWrite, userID)
}

func (t *ServerTable) CanRead(channelID uuid.UUID, userID uuid.UUID) bool {
	channel, _, err := t.FindChannel(channelID)
	if err != nil {
		return false
	}
	return slices.Contains(channel.Permissions.CanRead, userID)
}

// ChannelMembers returns the ids on the channel's member list.
func (t *ServerTable) ChannelMembers(channelID uuid.UUID) ([]uuid.UUID, error) {
	channel, _, err := t.FindChannel(channelID)
	if err != nil {
		return nil, err
	}
	return channel.Userlist, nil
}

// Members returns the ids on the server's member list.
func (t *ServerTable) Members(serverID uuid.UUID) ([]uuid.UUID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	server, exists := t.servers[serverID]
	if !exists {
		return nil, ErrNotFound
	}
	return append([]uuid.UUID(nil), server.Userlist...), nil
}

func cloneServer(s *models.Server) models.Server {
	cp := *s
	cp.Mods = append([]uuid.UUID(nil), s.Mods...)
	cp.Userlist = append([]uuid.UUID(nil), s.Userlist...)
	cp.Channels = make([]models.Channel, len(s.Channels))
	for i := range s.Channels {
		cp.Channels[i] = cloneChannel(&s.Channels[i])
	}
	return cp
}

func cloneChannel(c *models.Channel) models.Channel {
	cp := *c
	cp.Userlist = append([]uuid.UUID(nil), c.Userlist...)
	cp.Permissions.CanRead = append([]uuid.UUID(nil), c.Permissions.CanRead...)
	cp.Permissions.CanWrite = append([]uuid.UUID(nil), c.Permissions.CanWrite...)
	return cp
}
