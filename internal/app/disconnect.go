package app

// HandleDisconnect is the single entry point for connection loss. The lost
// handle resolves to (room, identity) and the room is mutated through the
// same transition contract as any other command: a host loss opens the host
// grace window, a participant loss parks the participant in the
// disconnected side-table.
func (r *Registry) HandleDisconnect(handle string) {
	session, identity, ok := r.Resolve(handle)
	if !ok {
		// Handle was never bound to a room (e.g. the connection dropped
		// before createRoom/joinRoom), or the room is already gone.
		return
	}

	r.RemoveHandle(handle)

	if identity.IsHost {
		if session.IsHost(handle) {
			session.HostLost()
		}
		return
	}

	session.ParticipantLost(identity.Name)
}
