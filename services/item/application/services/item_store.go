package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/shoppinglist/pkg/logger"
	itemdomain "github.com/ghuser/shoppinglist/services/item/domain"
	"github.com/ghuser/shoppinglist/services/item/domain/events"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
	"github.com/ghuser/shoppinglist/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/shoppinglist/services/item/domain/services"
)

// DefaultBoughtLimit caps the bought list when no limit is configured.
const DefaultBoughtLimit = 20

// Change describes one mutation of the item collection.
type Change struct {
	Kind events.ChangeKind `json:"kind"`
	Item *models.Item      `json:"item"`
}

// Listener is notified after every mutation, after the store lock is released.
type Listener func(ctx context.Context, change Change)

type subscription struct {
	id int
	fn Listener
}

// ItemStore is the single source of truth for shopping items. Every mutation is
// applied in memory, written through the repository before returning and then
// announced to listeners.
//
// When the repository fails the in-memory change is kept and the error is
// returned wrapped in ErrPersistence together with the mutated item. Items
// whose first save failed are saved again on their next change, and failed
// deletes are retried by the next RemoveDuplicates.
//
// Callers receive copies; items are referred to by ID.
type ItemStore struct {
	mu     sync.Mutex
	repo   repositories.ItemRepository
	items  []*models.Item // creation order
	byID   map[uuid.UUID]*models.Item
	seq    int64
	subs   []subscription
	nextID int

	unsaved        map[uuid.UUID]struct{}     // created in memory, never stored
	pendingDeletes map[uuid.UUID]*models.Item // removed in memory, still stored

	metrics *storeMetrics
	log     logger.Logger
	now     func() time.Time
}

// NewItemStore returns an empty store. Call Load to read existing items.
func NewItemStore(repo repositories.ItemRepository, log logger.Logger) *ItemStore {
	return &ItemStore{
		repo:           repo,
		byID:           make(map[uuid.UUID]*models.Item),
		unsaved:        make(map[uuid.UUID]struct{}),
		pendingDeletes: make(map[uuid.UUID]*models.Item),
		metrics:        newStoreMetrics(),
		log:            log,
		now:            time.Now,
	}
}

// Load replaces the in-memory collection with the repository contents.
func (s *ItemStore) Load(ctx context.Context) error {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: load items: %w", itemdomain.ErrPersistence, err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = items
	s.byID = make(map[uuid.UUID]*models.Item, len(items))
	s.unsaved = make(map[uuid.UUID]struct{})
	s.pendingDeletes = make(map[uuid.UUID]*models.Item)
	s.seq = 0
	for _, it := range items {
		s.byID[it.ID] = it
		if it.BoughtSeq > s.seq {
			s.seq = it.BoughtSeq
		}
	}
	s.log.InfoContext(ctx, "item store loaded", "items", len(items))
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *ItemStore) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Get returns a copy of the item with id.
func (s *ItemStore) Get(id uuid.UUID) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", itemdomain.ErrItemNotFound, id)
	}
	return it.Clone(), nil
}

// Items returns every item in creation order.
func (s *ItemStore) Items() []*models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterLocked(func(*models.Item) bool { return true })
}

// ActiveItems returns the items still to buy, in creation order.
func (s *ItemStore) ActiveItems() []*models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterLocked(func(it *models.Item) bool { return !it.Bought })
}

// BoughtItems returns up to limit bought items, most recently bought first.
// A non-positive limit means DefaultBoughtLimit.
func (s *ItemStore) BoughtItems(limit int) []*models.Item {
	if limit <= 0 {
		limit = DefaultBoughtLimit
	}

	s.mu.Lock()
	bought := s.filterLocked(func(it *models.Item) bool { return it.Bought })
	s.mu.Unlock()

	sort.SliceStable(bought, func(i, j int) bool {
		return bought[i].BoughtSeq > bought[j].BoughtSeq
	})
	if len(bought) > limit {
		bought = bought[:limit]
	}
	return bought
}

// FindActiveByNormalizedName returns the active item whose key matches name.
func (s *ItemStore) FindActiveByNormalizedName(name string) (*models.Item, bool) {
	return s.findByKey(models.NameKey(name), func(it *models.Item) bool { return !it.Bought })
}

// FindBoughtByNormalizedName returns the bought item whose key matches name.
func (s *ItemStore) FindBoughtByNormalizedName(name string) (*models.Item, bool) {
	return s.findByKey(models.NameKey(name), func(it *models.Item) bool { return it.Bought })
}

// AllNames returns one display name per key, in creation order.
func (s *ItemStore) AllNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.items))
	names := make([]string, 0, len(s.items))
	for _, it := range s.items {
		key := it.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, it.Name.String())
	}
	return names
}

// Create adds a new active item.
func (s *ItemStore) Create(ctx context.Context, name string, quantity int) (*models.Item, error) {
	itemName, err := models.NewItemName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidInput, err)
	}
	if err := domainsvcs.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	item, err := models.NewItem(itemName, quantity, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidInput, err)
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.byID[item.ID] = item
	perr := s.repo.Save(ctx, item)
	if perr != nil {
		s.unsaved[item.ID] = struct{}{}
	}
	out := item.Clone()
	s.mu.Unlock()

	s.metrics.created.Add(ctx, 1)
	return out, s.finish(ctx, "create", events.ChangeCreated, out, perr)
}

// SetQuantity changes the quantity of item id.
func (s *ItemStore) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.Item, error) {
	if err := domainsvcs.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	item, _, err := s.update(ctx, "set_quantity", id, func(it *models.Item) bool {
		if it.Quantity == quantity {
			return false
		}
		it.Quantity = quantity
		return true
	})
	return item, err
}

// MarkBought moves item id to the bought list and stamps it as the most recent
// purchase. Already bought items are returned unchanged.
func (s *ItemStore) MarkBought(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, changed, err := s.update(ctx, "mark_bought", id, func(it *models.Item) bool {
		if it.Bought {
			return false
		}
		s.seq++
		it.Bought = true
		it.BoughtSeq = s.seq
		it.BoughtAt = s.now().UTC()
		return true
	})
	if changed {
		s.metrics.bought.Add(ctx, 1)
	}
	return item, err
}

// MarkActive moves item id back to the active list keeping its quantity.
// Already active items are returned unchanged.
func (s *ItemStore) MarkActive(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, changed, err := s.update(ctx, "mark_active", id, func(it *models.Item) bool {
		if !it.Bought {
			return false
		}
		it.Bought = false
		return true
	})
	if changed {
		s.metrics.reactivated.Add(ctx, 1)
	}
	return item, err
}

// Delete removes item id and returns its last state.
func (s *ItemStore) Delete(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	s.mu.Lock()
	it, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", itemdomain.ErrItemNotFound, id)
	}
	s.removeLocked(id)
	perr := s.deleteLocked(ctx, it)
	out := it.Clone()
	s.mu.Unlock()

	return out, s.finish(ctx, "delete", events.ChangeDeleted, out, perr)
}

// RemoveDuplicates keeps the first item created for each key and deletes the
// rest. Deletes that failed earlier are retried first. It returns how many
// items were removed from memory or storage; running it again removes none.
func (s *ItemStore) RemoveDuplicates(ctx context.Context) (int, error) {
	s.mu.Lock()
	var perrs []error
	retried := 0
	for id, it := range s.pendingDeletes {
		if err := s.repo.Delete(ctx, it); err != nil {
			perrs = append(perrs, fmt.Errorf("delete %s: %w", id, err))
			continue
		}
		delete(s.pendingDeletes, id)
		retried++
	}

	seen := make(map[string]struct{}, len(s.items))
	var dupes []*models.Item
	for _, it := range s.items {
		key := it.Key()
		if _, ok := seen[key]; ok {
			dupes = append(dupes, it)
			continue
		}
		seen[key] = struct{}{}
	}

	removed := make([]*models.Item, 0, len(dupes))
	for _, it := range dupes {
		s.removeLocked(it.ID)
		if err := s.deleteLocked(ctx, it); err != nil {
			perrs = append(perrs, fmt.Errorf("delete %s: %w", it.ID, err))
		}
		removed = append(removed, it.Clone())
	}
	subs := s.listenersLocked()
	s.mu.Unlock()

	if n := len(removed) + retried; n > 0 {
		s.metrics.duplicatesRemoved.Add(ctx, int64(n))
		s.log.InfoContext(ctx, "duplicate items removed", "count", len(removed), "retried_deletes", retried)
	}

	var err error
	if len(perrs) > 0 {
		s.metrics.persistenceFailed(ctx, "remove_duplicates")
		err = fmt.Errorf("%w: %w", itemdomain.ErrPersistence, errors.Join(perrs...))
		s.log.ErrorContext(ctx, "duplicate removal not fully persisted", "error", err)
	}
	for _, it := range removed {
		notify(ctx, subs, Change{Kind: events.ChangeDeleted, Item: it})
	}
	return len(removed) + retried, err
}

// update applies mutate to item id under the lock. When mutate reports a
// change the item is persisted and listeners are notified; otherwise nothing
// is written.
func (s *ItemStore) update(ctx context.Context, op string, id uuid.UUID, mutate func(*models.Item) bool) (*models.Item, bool, error) {
	s.mu.Lock()
	it, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, false, fmt.Errorf("%w: %s", itemdomain.ErrItemNotFound, id)
	}
	if !mutate(it) {
		out := it.Clone()
		s.mu.Unlock()
		return out, false, nil
	}
	perr := s.writeLocked(ctx, it)
	out := it.Clone()
	s.mu.Unlock()

	return out, true, s.finish(ctx, op, events.ChangeUpdated, out, perr)
}

// finish records a persistence failure, notifies listeners and returns the
// error callers should see.
func (s *ItemStore) finish(ctx context.Context, op string, kind events.ChangeKind, item *models.Item, perr error) error {
	var err error
	if perr != nil {
		s.metrics.persistenceFailed(ctx, op)
		err = fmt.Errorf("%w: %s %s: %w", itemdomain.ErrPersistence, op, item.ID, perr)
		s.log.ErrorContext(ctx, "item change not persisted", "op", op, "item_id", item.ID, "error", perr)
	}

	s.mu.Lock()
	subs := s.listenersLocked()
	s.mu.Unlock()

	notify(ctx, subs, Change{Kind: kind, Item: item})
	return err
}

// writeLocked stores a changed item, inserting it when its first save failed.
func (s *ItemStore) writeLocked(ctx context.Context, it *models.Item) error {
	if _, ok := s.unsaved[it.ID]; !ok {
		return s.repo.Update(ctx, it)
	}
	if err := s.repo.Save(ctx, it); err != nil {
		return err
	}
	delete(s.unsaved, it.ID)
	return nil
}

// deleteLocked removes it from storage. A failed delete is remembered for the
// next RemoveDuplicates; an item that was never stored needs no delete.
func (s *ItemStore) deleteLocked(ctx context.Context, it *models.Item) error {
	if _, ok := s.unsaved[it.ID]; ok {
		delete(s.unsaved, it.ID)
		return nil
	}
	if err := s.repo.Delete(ctx, it); err != nil {
		s.pendingDeletes[it.ID] = it.Clone()
		return err
	}
	return nil
}

func (s *ItemStore) listenersLocked() []Listener {
	fns := make([]Listener, len(s.subs))
	for i, sub := range s.subs {
		fns[i] = sub.fn
	}
	return fns
}

func notify(ctx context.Context, fns []Listener, change Change) {
	for _, fn := range fns {
		fn(ctx, Change{Kind: change.Kind, Item: change.Item.Clone()})
	}
}

func (s *ItemStore) removeLocked(id uuid.UUID) {
	delete(s.byID, id)
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *ItemStore) filterLocked(keep func(*models.Item) bool) []*models.Item {
	out := make([]*models.Item, 0, len(s.items))
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it.Clone())
		}
	}
	return out
}

func (s *ItemStore) findByKey(key string, keep func(*models.Item) bool) (*models.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if keep(it) && it.Key() == key {
			return it.Clone(), true
		}
	}
	return nil, false
}
