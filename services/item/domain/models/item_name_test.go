package models

import (
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"milk", "milk"},
		{"  milk  ", "milk"},
		{"oat   milk", "oat milk"},
		{"\toat\n milk ", "oat milk"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewItemName(t *testing.T) {
	t.Run("normalizes whitespace", func(t *testing.T) {
		n, err := NewItemName("  Oat   Milk ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "Oat Milk" {
			t.Fatalf("expected %q, got %q", "Oat Milk", n.String())
		}
	})

	t.Run("valid 255 characters", func(t *testing.T) {
		s := strings.Repeat("ж", 255)
		if _, err := NewItemName(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("whitespace only returns error", func(t *testing.T) {
		if _, err := NewItemName(" \t "); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("256 characters returns error", func(t *testing.T) {
		if _, err := NewItemName(strings.Repeat("x", 256)); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("control character returns error", func(t *testing.T) {
		if _, err := NewItemName("Milk\x00"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestItemName_Key(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"Milk", "milk", true},
		{"MILK", " milk ", true},
		{"ÉCLAIR", "éclair", true},
		{"Oat  Milk", "oat milk", true},
		{"Milk", "Milkshake", false},
	}
	for _, tt := range tests {
		if got := NameKey(tt.a) == NameKey(tt.b); got != tt.same {
			t.Errorf("NameKey(%q) == NameKey(%q): got %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
	if ItemName("Milk").Key() != NameKey("milk") {
		t.Error("ItemName.Key must agree with NameKey")
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"milk", "Milk"},
		{"Milk", "Milk"},
		{"oat milk", "Oat milk"},
		{"éclair", "Éclair"},
		{"1kg rice", "1kg rice"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Capitalize(tt.in); got != tt.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
