package database

import (
	"encoding/json"
	"errors"

	"therapist-discovery-backend/internal/logger"

	"github.com/allegro/bigcache/v3"
	"github.com/google/uuid"
)

// GetSession loads the conversation state from the cache. Unknown or
// unreadable sessions start over at the start node.
func GetSession(cache *bigcache.BigCache, sessionID uuid.UUID) Session {
	fresh := Session{CurrentState: START, PreviousState: START}

	b, err := cache.Get(sessionID.String())
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			logger.Warning("Error while reading session state", err)
		}
		return fresh
	}

	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		logger.Warning("Error while decoding session state", err)
		return fresh
	}
	return sess
}

func SaveSession(cache *bigcache.BigCache, sessionID uuid.UUID, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	if err := cache.Set(sessionID.String(), data); err != nil {
		logger.Warning("Error while writing session state", err)
		return err
	}
	return nil
}
