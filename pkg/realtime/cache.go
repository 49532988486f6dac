package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/travigo/denmhazard/pkg/denm"
)

const stateCacheExpiration = 30 * time.Minute
const actionCacheExpiration = 10 * time.Second

// StateCache keeps the latest vehicle state of each station and the alert actions
// already handed to a station, so both survive an engine restart
type StateCache struct {
	cache *cache.Cache[string]
}

func NewStateCache(client *redis.Client) *StateCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(stateCacheExpiration))

	return &StateCache{
		cache: cache.New[string](redisStore),
	}
}

func stateKey(stationID string) string {
	return fmt.Sprintf("vehicle_state:%s", stationID)
}

func actionKey(receiverStationID string, action denm.ActionID) string {
	return fmt.Sprintf("denm_action:%s:%s", receiverStationID, action.String())
}

func (c *StateCache) SaveState(ctx context.Context, state denm.VehicleState) error {
	stateJson, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return c.cache.Set(ctx, stateKey(state.StationID), string(stateJson))
}

func (c *StateCache) LoadState(ctx context.Context, stationID string) (denm.VehicleState, error) {
	var state denm.VehicleState

	cached, err := c.cache.Get(ctx, stateKey(stationID))
	if err != nil {
		return state, err
	}

	if err := json.Unmarshal([]byte(cached), &state); err != nil {
		return state, fmt.Errorf("decode cached state of %s: %w", stationID, err)
	}

	return state, nil
}

// FirstDelivery records the alert for the receiver and reports whether it was not recorded before
func (c *StateCache) FirstDelivery(ctx context.Context, receiverStationID string, alert denm.AlertEvent) bool {
	key := actionKey(receiverStationID, alert.ActionID)

	if cached, err := c.cache.Get(ctx, key); err == nil && cached != "" {
		return false
	}

	expiration := actionCacheExpiration
	if alert.ValidityDuration > 0 {
		expiration = alert.ValidityDuration
	}

	c.cache.Set(ctx, key, alert.DetectionTime.Format(time.RFC3339Nano), store.WithExpiration(expiration))

	return true
}
