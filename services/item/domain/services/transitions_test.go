package services

import (
	"errors"
	"testing"

	itemdomain "github.com/ghuser/shoppinglist/services/item/domain"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
)

func TestNextState(t *testing.T) {
	tests := []struct {
		action  Action
		from    models.ItemState
		want    models.ItemState
		wantErr bool
	}{
		{ActionIncrement, models.StateActive, models.StateActive, false},
		{ActionIncrement, models.StateBought, "", true},
		{ActionDecrement, models.StateActive, models.StateActive, false},
		{ActionDecrement, models.StateBought, "", true},
		{ActionMarkBought, models.StateActive, models.StateBought, false},
		{ActionMarkBought, models.StateBought, models.StateBought, false},
		{ActionReactivate, models.StateBought, models.StateActive, false},
		{ActionReactivate, models.StateActive, models.StateActive, false},
		{Action("archive"), models.StateActive, "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.action)+"/"+string(tt.from), func(t *testing.T) {
			got, err := NextState(tt.action, tt.from)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NextState error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, itemdomain.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if got != tt.want {
				t.Errorf("NextState = %q, want %q", got, tt.want)
			}
			if CanTransition(tt.action, tt.from) == tt.wantErr {
				t.Errorf("CanTransition disagrees with NextState")
			}
		})
	}
}

func TestValidateQuantity(t *testing.T) {
	for _, q := range []int{1, 2, 99} {
		if err := ValidateQuantity(q); err != nil {
			t.Errorf("ValidateQuantity(%d) unexpected error: %v", q, err)
		}
	}
	for _, q := range []int{0, -1} {
		if err := ValidateQuantity(q); !errors.Is(err, itemdomain.ErrInvalidInput) {
			t.Errorf("ValidateQuantity(%d) = %v, want ErrInvalidInput", q, err)
		}
	}
}
