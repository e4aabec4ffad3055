package hub

import (
	"fmt"

	"github.com/google/uuid"
)

// Fan-out topics. Every authenticated session is subscribed to its own user
// topic and the global presence topic; channel and server topics follow
// what the client is currently viewing.
const TopicGlobal = "global"

func TopicUser(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func TopicServer(id uuid.UUID) string {
	return fmt.Sprintf("server:%s", id)
}

func TopicChannel(id uuid.UUID) string {
	return fmt.Sprintf("channel:%s", id)
}
