package conversation

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/cache"
)

// windowTTL bounds how long a memoized window can serve reads.
const windowTTL = time.Hour

// Window layers the redis memo over the store for the message pipeline.
// Unlike Store, it never returns errors: the chat must get a reply even
// when persistence is down, so failures degrade to warnings and empty
// history.
type Window struct {
	store *Store
	cache *cache.Cache
	log   *zap.Logger
}

func NewWindow(store *Store, c *cache.Cache, log *zap.Logger) *Window {
	return &Window{store: store, cache: c, log: log}
}

// Recent returns up to limit turns in chronological order, preferring the
// memoized window. Storage failures yield an empty history.
func (w *Window) Recent(ctx context.Context, clientID, phoneNumber string, limit int) []Turn {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	key := cache.ContextKey(clientID, phoneNumber)
	if raw, ok := w.cache.GetContext(ctx, key); ok {
		var turns []Turn
		if err := json.Unmarshal([]byte(raw), &turns); err == nil {
			if len(turns) > limit {
				turns = turns[len(turns)-limit:]
			}
			return turns
		}
		w.log.Warn("discarding malformed cached window", zap.String("key", key))
	}

	turns, err := w.store.Recent(ctx, clientID, phoneNumber, limit)
	if err != nil {
		w.log.Warn("conversation history unavailable",
			zap.String("phone", phoneNumber), zap.Error(err))
		return nil
	}
	return turns
}

// Append writes the turn through to the store and refreshes the memo.
// Persistence failures are logged; the turn is lost but processing
// continues.
func (w *Window) Append(ctx context.Context, turn Turn) {
	if err := w.store.Append(ctx, turn); err != nil {
		w.log.Warn("conversation append failed",
			zap.String("phone", turn.PhoneNumber), zap.Error(err))
		return
	}

	if !w.cache.Enabled() {
		return
	}

	turns, err := w.store.Recent(ctx, turn.ClientID, turn.PhoneNumber, defaultRecentLimit)
	if err != nil {
		return
	}
	data, err := json.Marshal(turns)
	if err != nil {
		return
	}
	w.cache.SetContext(ctx, cache.ContextKey(turn.ClientID, turn.PhoneNumber), string(data), windowTTL)
}
