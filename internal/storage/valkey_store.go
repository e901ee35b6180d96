package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	valkey "github.com/valkey-io/valkey-go"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

const valkeyPrefix = "marketvisit:"

// valkeyStore implements a Store backed by a Valkey/Redis server. Expiry is
// delegated to the server, so no cleanup pass is needed.
type valkeyStore struct {
	client     valkey.Client
	storeTTL   time.Duration
	sessionTTL time.Duration
	opTimeout  time.Duration
}

func openValkey(addr string, opts Options) (Store, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{addr},
		AlwaysRESP2:       true,
		ForceSingleClient: true,
		DisableCache:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.OpTimeout)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	return &valkeyStore{
		client:     client,
		storeTTL:   opts.StoreTTL,
		sessionTTL: opts.SessionTTL,
		opTimeout:  opts.OpTimeout,
	}, nil
}

func (v *valkeyStore) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	v.client.Close()
	return nil
}

func (v *valkeyStore) SeenStore(areaID string, storeID int64) (bool, error) {
	ctx, cancel := v.opContext()
	defer cancel()
	n, err := v.client.Do(ctx, v.client.B().Exists().Key(valkeyPrefix+"store:"+storeKey(areaID, storeID)).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("valkey exists: %w", err)
	}
	return n > 0, nil
}

func (v *valkeyStore) MarkStore(areaID string, storeID int64) error {
	return v.set(valkeyPrefix+"store:"+storeKey(areaID, storeID), "1", v.storeTTL)
}

func (v *valkeyStore) SaveSession(token string) error {
	return v.set(valkeyPrefix+sessionKey, token, v.sessionTTL)
}

func (v *valkeyStore) Session() (string, bool, error) {
	raw, ok, err := v.get(valkeyPrefix + sessionKey)
	if err != nil || !ok {
		return "", false, err
	}
	return string(raw), len(raw) > 0, nil
}

func (v *valkeyStore) ClearSession() error {
	ctx, cancel := v.opContext()
	defer cancel()
	if err := v.client.Do(ctx, v.client.B().Del().Key(valkeyPrefix+sessionKey).Build()).Error(); err != nil {
		return fmt.Errorf("valkey del: %w", err)
	}
	return nil
}

func (v *valkeyStore) SaveLocation(p domain.Coordinates) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	return v.set(valkeyPrefix+locationKey, string(raw), 0)
}

func (v *valkeyStore) LastLocation() (domain.Coordinates, bool, error) {
	var p domain.Coordinates
	raw, ok, err := v.get(valkeyPrefix + locationKey)
	if err != nil || !ok {
		return p, false, err
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, false, fmt.Errorf("decode location: %w", err)
	}
	return p, true, nil
}

func (v *valkeyStore) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), v.opTimeout)
}

// set writes key with an optional ttl; ttl <= 0 keeps the key until overwritten.
func (v *valkeyStore) set(key, value string, ttl time.Duration) error {
	ctx, cancel := v.opContext()
	defer cancel()
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = v.client.B().Set().Key(key).Value(value).Px(ttl).Build()
	} else {
		cmd = v.client.B().Set().Key(key).Value(value).Build()
	}
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set: %w", err)
	}
	return nil
}

func (v *valkeyStore) get(key string) ([]byte, bool, error) {
	ctx, cancel := v.opContext()
	defer cancel()
	resp := v.client.Do(ctx, v.client.B().Get().Key(key).Build())
	if err := resp.Error(); err != nil {
		if errors.Is(err, valkey.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("valkey get: %w", err)
	}
	raw, err := resp.AsBytes()
	if err != nil {
		return nil, false, fmt.Errorf("valkey get bytes: %w", err)
	}
	return raw, true, nil
}
