package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/shoppinglist/services/item/domain"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
)

var errDiskFull = errors.New("disk full")

// fakeRepo is an in-memory ItemRepository. Setting fail makes every write
// return errDiskFull without storing anything. Like the SQL repositories,
// Update of a missing row reports ErrItemNotFound.
type fakeRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]models.Item
	order   []uuid.UUID
	fail    bool
	loadErr error
	writes  int
}

func newFakeRepo(seed ...*models.Item) *fakeRepo {
	r := &fakeRepo{rows: make(map[uuid.UUID]models.Item)}
	for _, it := range seed {
		r.rows[it.ID] = *it
		r.order = append(r.order, it.ID)
	}
	return r
}

func (r *fakeRepo) FindAll(_ context.Context) ([]*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	out := make([]*models.Item, 0, len(r.order))
	for _, id := range r.order {
		if it, ok := r.rows[id]; ok {
			c := it
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeRepo) Save(_ context.Context, item *models.Item) error {
	return r.write(func() {
		r.rows[item.ID] = *item
		r.order = append(r.order, item.ID)
	})
}

func (r *fakeRepo) Update(_ context.Context, item *models.Item) error {
	var missing bool
	err := r.write(func() {
		if _, ok := r.rows[item.ID]; !ok {
			missing = true
			return
		}
		r.rows[item.ID] = *item
	})
	if err == nil && missing {
		return itemdomain.ErrItemNotFound
	}
	return err
}

func (r *fakeRepo) Delete(_ context.Context, item *models.Item) error {
	return r.write(func() { delete(r.rows, item.ID) })
}

func (r *fakeRepo) write(fn func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.fail {
		return errDiskFull
	}
	fn()
	return nil
}

func (r *fakeRepo) stored(id uuid.UUID) (models.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.rows[id]
	return it, ok
}

func (r *fakeRepo) setFail(v bool) {
	r.mu.Lock()
	r.fail = v
	r.mu.Unlock()
}

func (r *fakeRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
