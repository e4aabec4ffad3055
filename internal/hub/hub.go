// Package hub owns the live connections: a registry mapping session id to a
// bounded outbound queue, per-session topic subscriptions, and the fan-out
// path that delivers one server event to every subscribed queue without
// ever blocking the producer.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/y4my4my4m/nexus-sync/internal/protocol"
	"github.com/y4my4my4m/nexus-sync/internal/session"
)

const writeWait = 10 * time.Second

// Client is one live connection. Events enqueue onto Send and a single
// writer goroutine drains it, so per-session delivery order matches enqueue
// order.
type Client struct {
	SessionID int64
	Conn      *websocket.Conn
	Send      chan []byte
	Ctx       context.Context

	cancel context.CancelFunc
	pubsub *redis.PubSub

	mu     sync.Mutex
	userID uuid.UUID
}

func (c *Client) UserID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Close tears the connection down; safe to call more than once. Closing the
// socket unblocks the read loop, which then runs the unregister path.
func (c *Client) Close() {
	c.cancel()
	c.Conn.Close()
}

type Hub struct {
	sugar       *zap.SugaredLogger
	redisClient *redis.Client
	queueSize   int
	gen         *session.Generator
	local       *LocalPubSub

	mu      sync.Mutex
	clients map[int64]*Client
}

var redisCtx = context.Background()

// New builds the hub. A nil redis client keeps fan-out in-process.
func New(sugar *zap.SugaredLogger, redisClient *redis.Client, gen *session.Generator, queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Hub{
		sugar:       sugar,
		redisClient: redisClient,
		queueSize:   queueSize,
		gen:         gen,
		local:       NewLocalPubSub(),
		clients:     make(map[int64]*Client),
	}
}

// Register wires a websocket connection into the registry and starts its
// writer goroutine. The caller owns the read loop and must call Unregister
// when it returns.
func (h *Hub) Register(conn *websocket.Conn) (*Client, error) {
	sessionID, err := h.gen.Generate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, h.queueSize),
		Ctx:       ctx,
		cancel:    cancel,
	}

	if h.redisClient != nil {
		client.pubsub = h.redisClient.Subscribe(ctx)
		go h.forwardRedis(client)
	}

	go h.writePump(client)

	h.mu.Lock()
	h.clients[sessionID] = client
	h.mu.Unlock()

	h.sugar.Debugf("Registered session ID [%d]", sessionID)
	return client, nil
}

func (h *Hub) Unregister(client *Client) {
	client.cancel()

	h.mu.Lock()
	delete(h.clients, client.SessionID)
	h.mu.Unlock()

	h.local.UnsubscribeAll(client.SessionID)
	if client.pubsub != nil {
		client.pubsub.Close()
	}
	client.Conn.Close()

	h.sugar.Debugf("Removed session ID [%d] from clients", client.SessionID)
}

// Authenticate binds the session to a user and subscribes it to its user
// topic and the presence topic.
func (h *Hub) Authenticate(client *Client, userID uuid.UUID) error {
	client.mu.Lock()
	client.userID = userID
	client.mu.Unlock()

	if err := h.Subscribe(client, TopicUser(userID)); err != nil {
		return err
	}
	return h.Subscribe(client, TopicGlobal)
}

func (h *Hub) Subscribe(client *Client, topic string) error {
	if h.redisClient != nil {
		return client.pubsub.Subscribe(client.Ctx, topic)
	}
	h.local.Subscribe(topic, client.SessionID)
	return nil
}

func (h *Hub) Unsubscribe(client *Client, topic string) error {
	if h.redisClient != nil {
		return client.pubsub.Unsubscribe(client.Ctx, topic)
	}
	h.local.Unsubscribe(topic, client.SessionID)
	return nil
}

// SendTo delivers a 1:1 response to a single session.
func (h *Hub) SendTo(client *Client, event any) error {
	bytes, err := protocol.Encode(event)
	if err != nil {
		return err
	}
	h.trySend(client, bytes)
	return nil
}

// Emit fans an event out to every session subscribed to the topic. Delivery
// to laggards is best-effort; the producer never blocks on a full queue.
func (h *Hub) Emit(topic string, event any) error {
	bytes, err := protocol.Encode(event)
	if err != nil {
		return err
	}

	if h.redisClient != nil {
		return h.redisClient.Publish(redisCtx, topic, bytes).Err()
	}

	for _, sessionID := range h.local.Subscribers(topic) {
		client, exists := h.getClient(sessionID)
		if !exists {
			h.sugar.Warnf("Session ID %d is subscribed to %s but not in the registry", sessionID, topic)
			continue
		}
		h.trySend(client, bytes)
	}
	return nil
}

// EmitToUser targets every session the user currently has.
func (h *Hub) EmitToUser(userID uuid.UUID, event any) error {
	return h.Emit(TopicUser(userID), event)
}

// trySend enqueues without blocking. A full queue means the consumer can't
// keep up; the connection is torn down rather than stalling the producer.
func (h *Hub) trySend(client *Client, bytes []byte) {
	select {
	case client.Send <- bytes:
	default:
		h.sugar.Warnf("Session ID %d outbound queue is full, disconnecting", client.SessionID)
		client.cancel()
	}
}

func (h *Hub) getClient(sessionID int64) (*Client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, exists := h.clients[sessionID]
	return client, exists
}

// ConnectedUsers snapshots the distinct authenticated users currently
// connected.
func (h *Hub) ConnectedUsers() []uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[uuid.UUID]struct{})
	users := []uuid.UUID{}
	for _, client := range h.clients {
		id := client.UserID()
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			users = append(users, id)
		}
	}
	return users
}

// SessionCount reports live connections, for the max-connections policy.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) writePump(client *Client) {
	for {
		select {
		case <-client.Ctx.Done():
			return
		case bytes, ok := <-client.Send:
			if !ok {
				return
			}
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.TextMessage, bytes); err != nil {
				h.sugar.Debugf("Session ID %d write failed: %v", client.SessionID, err)
				client.cancel()
				return
			}
		}
	}
}

// forwardRedis bridges redis pub/sub deliveries into the session queue.
func (h *Hub) forwardRedis(client *Client) {
	ch := client.pubsub.Channel()
	for {
		select {
		case <-client.Ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.trySend(client, []byte(msg.Payload))
		}
	}
}
