package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ItemMirrorTTL bounds how long a mirrored item outlives its last change.
	ItemMirrorTTL = 7 * 24 * time.Hour

	itemKeyPrefix = "item"
	activeSetKey  = "items:active"
	boughtZSetKey = "items:bought"
)

// MirroredItem is the Redis hash written for every item change.
type MirroredItem struct {
	ID        uuid.UUID
	Name      string
	Quantity  int
	Bought    bool
	BoughtSeq int64
	BoughtAt  time.Time
	CreatedAt time.Time
}

// ItemMirror writes item hashes under "item:{id}" plus two indexes: the set of
// active ids and a sorted set of bought ids scored by bought sequence.
type ItemMirror struct {
	client *redis.Client
}

// NewItemMirror creates an ItemMirror backed by r.
func NewItemMirror(r *RedisClient) *ItemMirror {
	return &ItemMirror{client: r.Client()}
}

// Put stores item and moves it into the index matching its state.
func (m *ItemMirror) Put(ctx context.Context, item *MirroredItem) error {
	key := itemKey(item.ID)
	id := item.ID.String()

	boughtAt := ""
	if !item.BoughtAt.IsZero() {
		boughtAt = item.BoughtAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"id", id,
			"name", item.Name,
			"quantity", item.Quantity,
			"bought", strconv.FormatBool(item.Bought),
			"bought_seq", item.BoughtSeq,
			"bought_at", boughtAt,
			"created_at", item.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		pipe.Expire(ctx, key, ItemMirrorTTL)
		if item.Bought {
			pipe.SRem(ctx, activeSetKey, id)
			pipe.ZAdd(ctx, boughtZSetKey, redis.Z{Score: float64(item.BoughtSeq), Member: id})
		} else {
			pipe.ZRem(ctx, boughtZSetKey, id)
			pipe.SAdd(ctx, activeSetKey, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("mirror put: %w", err)
	}
	return nil
}

// Get reads a mirrored item. It returns redis.Nil when the key is absent.
func (m *ItemMirror) Get(ctx context.Context, id uuid.UUID) (*MirroredItem, error) {
	vals, err := m.client.HGetAll(ctx, itemKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("mirror get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return decodeItem(vals)
}

// Remove deletes the hash and its index entries.
func (m *ItemMirror) Remove(ctx context.Context, id uuid.UUID) error {
	member := id.String()
	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, itemKey(id))
		pipe.SRem(ctx, activeSetKey, member)
		pipe.ZRem(ctx, boughtZSetKey, member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("mirror remove: %w", err)
	}
	return nil
}

// RecentlyBought returns up to limit bought ids, most recent first.
func (m *ItemMirror) RecentlyBought(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		return nil, nil
	}
	members, err := m.client.ZRevRange(ctx, boughtZSetKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("mirror recently bought: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, s := range members {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("mirror parse id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodeItem(vals map[string]string) (*MirroredItem, error) {
	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("mirror parse id: %w", err)
	}
	qty, err := strconv.Atoi(vals["quantity"])
	if err != nil {
		return nil, fmt.Errorf("mirror parse quantity: %w", err)
	}
	bought, err := strconv.ParseBool(vals["bought"])
	if err != nil {
		return nil, fmt.Errorf("mirror parse bought: %w", err)
	}
	seq, err := strconv.ParseInt(vals["bought_seq"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("mirror parse bought_seq: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("mirror parse created_at: %w", err)
	}

	item := &MirroredItem{
		ID:        id,
		Name:      vals["name"],
		Quantity:  qty,
		Bought:    bought,
		BoughtSeq: seq,
		CreatedAt: createdAt,
	}
	if s := vals["bought_at"]; s != "" {
		if item.BoughtAt, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return nil, fmt.Errorf("mirror parse bought_at: %w", err)
		}
	}
	return item, nil
}

func itemKey(id uuid.UUID) string {
	return itemKeyPrefix + ":" + id.String()
}
