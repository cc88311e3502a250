package relay

import "relay/internal/models"

// Roster returns the live membership of a room annotated with registered
// display names, computed fresh on every call. A member with no registry
// entry is skipped: a disconnect race can briefly leave one in the room set.
func (rt *Router) Roster(roomID string) []models.RosterEntry {
	room, ok := rt.hub.Get(roomID)
	if !ok {
		return []models.RosterEntry{}
	}

	members := room.Clients()
	entries := make([]models.RosterEntry, 0, len(members))
	for _, c := range members {
		username, ok := rt.registry.Lookup(c.ID)
		if !ok {
			continue
		}
		entries = append(entries, models.RosterEntry{ConnectionID: c.ID, Username: username})
	}
	return entries
}
