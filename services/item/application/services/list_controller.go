package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/shoppinglist/pkg/logger"
	itemdomain "github.com/ghuser/shoppinglist/services/item/domain"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
	domainsvcs "github.com/ghuser/shoppinglist/services/item/domain/services"
)

// Outcome tells API clients what a submit did.
type Outcome string

const (
	OutcomeIgnored       Outcome = "ignored"
	OutcomeCreated       Outcome = "created"
	OutcomeReactivated   Outcome = "reactivated"
	OutcomeAlreadyActive Outcome = "already_active"
)

// InputState is the text being typed and the suggestions derived from it.
type InputState struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions"`
}

// SubmitResult is returned by Submit and SelectSuggestion. Item is nil when
// the outcome is OutcomeIgnored.
type SubmitResult struct {
	Outcome Outcome      `json:"outcome"`
	Item    *models.Item `json:"item,omitempty"`
}

// ListController turns user intents into ItemStore mutations and holds the
// input buffer with its suggestions. Intents are serialized so each
// find-then-mutate sequence sees a consistent store.
type ListController struct {
	mu              sync.Mutex
	store           *ItemStore
	input           InputState
	suggestionLimit int
	log             logger.Logger
}

// NewListController returns a controller over store. A non-positive
// suggestionLimit means DefaultSuggestionLimit.
func NewListController(store *ItemStore, suggestionLimit int, log logger.Logger) *ListController {
	if suggestionLimit <= 0 {
		suggestionLimit = domainsvcs.DefaultSuggestionLimit
	}
	return &ListController{
		store:           store,
		input:           InputState{Suggestions: []string{}},
		suggestionLimit: suggestionLimit,
		log:             log,
	}
}

// Input returns the current input buffer and suggestions.
func (c *ListController) Input() InputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyInput(c.input)
}

// SetInput stores raw with its first character capitalized and recomputes
// suggestions from every known item name.
func (c *ListController) SetInput(raw string) InputState {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := models.Capitalize(raw)
	c.input = InputState{
		Text:        text,
		Suggestions: domainsvcs.Suggest(text, c.store.AllNames(), c.suggestionLimit),
	}
	return copyInput(c.input)
}

// Submit adds raw to the list. A bought item with the same name is
// reactivated with its quantity; an active one is left alone; otherwise a new
// item with quantity 1 is created. The input buffer is cleared in every case.
func (c *ListController) Submit(ctx context.Context, raw string) (SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitLocked(ctx, raw)
}

// SubmitBuffer submits the current input buffer.
func (c *ListController) SubmitBuffer(ctx context.Context) (SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitLocked(ctx, c.input.Text)
}

// SelectSuggestion submits a suggested name exactly as stored.
func (c *ListController) SelectSuggestion(ctx context.Context, name string) (SubmitResult, error) {
	return c.Submit(ctx, name)
}

func (c *ListController) submitLocked(ctx context.Context, raw string) (SubmitResult, error) {
	c.input = InputState{Suggestions: []string{}}

	name := models.Capitalize(models.NormalizeName(raw))
	if name == "" {
		return SubmitResult{Outcome: OutcomeIgnored}, nil
	}

	if bought, ok := c.store.FindBoughtByNormalizedName(name); ok {
		item, err := c.reactivateLocked(ctx, bought)
		if item == nil {
			return SubmitResult{Outcome: OutcomeIgnored}, err
		}
		return SubmitResult{Outcome: OutcomeReactivated, Item: item}, err
	}

	if active, ok := c.store.FindActiveByNormalizedName(name); ok {
		return SubmitResult{Outcome: OutcomeAlreadyActive, Item: active}, nil
	}

	item, err := c.store.Create(ctx, name, models.DefaultQuantity)
	if item == nil {
		return SubmitResult{Outcome: OutcomeIgnored}, err
	}
	c.log.DebugContext(ctx, "item created from input", "item_id", item.ID)
	return SubmitResult{Outcome: OutcomeCreated, Item: item}, err
}

// Increment adds one to the quantity of an active item.
func (c *ListController) Increment(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.guard(id, domainsvcs.ActionIncrement)
	if err != nil {
		return nil, err
	}
	return c.store.SetQuantity(ctx, id, item.Quantity+1)
}

// Decrement removes one from the quantity of an active item. Decrementing the
// last unit marks the item bought and leaves its quantity at 1.
func (c *ListController) Decrement(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.guard(id, domainsvcs.ActionDecrement)
	if err != nil {
		return nil, err
	}
	if item.Quantity > 1 {
		return c.store.SetQuantity(ctx, id, item.Quantity-1)
	}
	return c.store.MarkBought(ctx, id)
}

// MarkBoughtDirectly moves an item to the bought list keeping its quantity.
func (c *ListController) MarkBoughtDirectly(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.guard(id, domainsvcs.ActionMarkBought); err != nil {
		return nil, err
	}
	return c.store.MarkBought(ctx, id)
}

// Reactivate moves a bought item back to the active list keeping its
// quantity. If an active item with the same name exists, the bought one is
// deleted and the active one is returned.
func (c *ListController) Reactivate(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.guard(id, domainsvcs.ActionReactivate)
	if err != nil {
		return nil, err
	}
	return c.reactivateLocked(ctx, item)
}

func (c *ListController) reactivateLocked(ctx context.Context, item *models.Item) (*models.Item, error) {
	if !item.Bought {
		return item, nil
	}
	if twin, ok := c.store.FindActiveByNormalizedName(item.Name.String()); ok && twin.ID != item.ID {
		_, err := c.store.Delete(ctx, item.ID)
		if err != nil && !errors.Is(err, itemdomain.ErrPersistence) {
			return nil, err
		}
		c.log.InfoContext(ctx, "bought duplicate dropped on reactivation", "item_id", item.ID, "kept_id", twin.ID)
		return twin, err
	}
	return c.store.MarkActive(ctx, item.ID)
}

// guard loads item id and checks that action is allowed in its state.
func (c *ListController) guard(id uuid.UUID, action domainsvcs.Action) (*models.Item, error) {
	item, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	if _, err := domainsvcs.NextState(action, item.State()); err != nil {
		return nil, fmt.Errorf("item %s: %w", id, err)
	}
	return item, nil
}

func copyInput(in InputState) InputState {
	out := InputState{Text: in.Text, Suggestions: make([]string, len(in.Suggestions))}
	copy(out.Suggestions, in.Suggestions)
	return out
}
