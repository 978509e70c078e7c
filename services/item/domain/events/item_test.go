package events_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/shoppinglist/services/item/domain/events"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
)

func TestChangeKind_Topic(t *testing.T) {
	tests := map[events.ChangeKind]string{
		events.ChangeCreated: events.TopicItemCreated,
		events.ChangeUpdated: events.TopicItemUpdated,
		events.ChangeDeleted: events.TopicItemDeleted,
	}
	for kind, want := range tests {
		if got := kind.Topic(); got != want {
			t.Errorf("%s.Topic() = %q, want %q", kind, got, want)
		}
	}
	if len(events.Topics()) != 3 {
		t.Errorf("expected 3 topics, got %d", len(events.Topics()))
	}
}

func TestNewItemChangedEvent(t *testing.T) {
	created := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)

	item := &models.Item{
		ID:        uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Name:      "Oat milk",
		Quantity:  2,
		CreatedAt: created,
	}

	t.Run("active item omits bought_at", func(t *testing.T) {
		ev := events.NewItemChangedEvent(events.ChangeCreated, item, now)
		if ev.EventID == uuid.Nil || ev.Version != events.ItemChangedEventVersion {
			t.Fatalf("unexpected envelope: %+v", ev)
		}
		if ev.ItemID != item.ID || ev.Name != "Oat milk" || ev.Quantity != 2 || ev.Bought {
			t.Fatalf("unexpected snapshot: %+v", ev)
		}
		data, err := json.Marshal(ev)
		if err != nil {
			t.Fatalf("json.Marshal failed: %v", err)
		}
		if strings.Contains(string(data), "bought_at") {
			t.Errorf("bought_at must be omitted for never-bought items: %s", data)
		}
		if !strings.Contains(string(data), `"kind":"created"`) {
			t.Errorf("expected kind in payload: %s", data)
		}
	})

	t.Run("bought item carries stamp", func(t *testing.T) {
		bought := item.Clone()
		bought.Bought = true
		bought.BoughtSeq = 4
		bought.BoughtAt = now

		ev := events.NewItemChangedEvent(events.ChangeUpdated, bought, now)
		if ev.BoughtAt == nil || !ev.BoughtAt.Equal(now) || ev.BoughtSeq != 4 {
			t.Fatalf("unexpected bought stamp: %+v", ev)
		}

		var decoded events.ItemChangedEvent
		data, _ := json.Marshal(ev)
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("json.Unmarshal failed: %v", err)
		}
		if decoded.BoughtAt == nil || !decoded.BoughtAt.Equal(now) {
			t.Errorf("bought_at lost in transit: %+v", decoded)
		}
	})
}
