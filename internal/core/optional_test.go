package core

import (
	"encoding/json"
	"testing"
)

func TestOptionalOmittedVsProvided(t *testing.T) {
	var payload struct {
		Name   Optional[string]  `json:"name"`
		Amount Optional[float64] `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"name":"Cash"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Name.IsSet() {
		t.Fatalf("expected name to be set")
	}
	if got := payload.Name.Value(); got != "Cash" {
		t.Fatalf("expected Cash, got %q", got)
	}
	if payload.Amount.IsSet() {
		t.Fatalf("expected amount to be unset")
	}
}

func TestOptionalExplicitNull(t *testing.T) {
	var payload struct {
		EmojiIcon Optional[*string] `json:"emoji_icon"`
	}
	if err := json.Unmarshal([]byte(`{"emoji_icon":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.EmojiIcon.IsSet() {
		t.Fatalf("expected emoji_icon to be set")
	}
	if payload.EmojiIcon.Value() != nil {
		t.Fatalf("expected nil value for explicit null")
	}
}

func TestOptionalNullOnNonPointerField(t *testing.T) {
	var payload struct {
		Name   Optional[string]  `json:"name"`
		Amount Optional[float64] `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"name":null,"amount":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Name.IsSet() || !payload.Name.IsNull() {
		t.Fatalf("expected name to be set and null, got set=%v null=%v", payload.Name.IsSet(), payload.Name.IsNull())
	}
	if !payload.Amount.IsNull() {
		t.Fatalf("expected amount to be null")
	}

	// A provided value is not null.
	if err := json.Unmarshal([]byte(`{"amount":0}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Amount.IsNull() {
		t.Fatalf("expected provided zero to not be null")
	}
}

func TestOptionalZeroValueProvided(t *testing.T) {
	var payload struct {
		Amount Optional[float64] `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"amount":0}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	v, ok := payload.Amount.Get()
	if !ok || v != 0 {
		t.Fatalf("expected provided zero, got %v (set=%v)", v, ok)
	}
}
