package handlers

import (
	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/protocol"
)

// handleGetServers answers with the requester's servers and subscribes the
// session to their topics so membership changes reach it live.
func handleGetServers(client *hub.Client) {
	servers := st.Servers.ListFor(client.UserID())
	for _, server := range servers {
		if err := h.Subscribe(client, hub.TopicServer(server.ID)); err != nil {
			sugar.Error(err)
		}
	}
	sendEvent(client, protocol.Servers{Servers: servers})
}
