package service

import "github.com/rs/zerolog/log"

// UpdateLog is a logging sink on the store's observer boundary, alongside
// the realtime hub.
type UpdateLog struct{}

// SessionUpdated logs the mutation.
func (UpdateLog) SessionUpdated(id string, data map[string]any) {
	log.Debug().
		Str("session_id", id).
		Int("keys", len(data)).
		Msg("Session data updated")
}
