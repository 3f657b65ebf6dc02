package repository

import (
	"testing"

	"github.com/aviaunion/portal/common/apperr"
)

func TestMergeContact_AddAndReplace(t *testing.T) {
	current := map[string]any{
		"phone": "+31 20 123",
		"city":  "Amsterdam",
	}

	patched, err := mergeContact(current, []byte(`{"phone":"+31 20 456","telegram":"@alice"}`))
	if err != nil {
		t.Fatalf("mergeContact failed: %v", err)
	}

	if patched["phone"] != "+31 20 456" {
		t.Errorf("expected phone replaced, got %v", patched["phone"])
	}
	if patched["telegram"] != "@alice" {
		t.Errorf("expected telegram added, got %v", patched["telegram"])
	}
	if patched["city"] != "Amsterdam" {
		t.Errorf("expected untouched key preserved, got %v", patched["city"])
	}
}

func TestMergeContact_NullDeletesKey(t *testing.T) {
	current := map[string]any{
		"phone": "+31 20 123",
		"city":  "Amsterdam",
	}

	patched, err := mergeContact(current, []byte(`{"phone":null}`))
	if err != nil {
		t.Fatalf("mergeContact failed: %v", err)
	}

	if _, ok := patched["phone"]; ok {
		t.Error("expected null-valued key removed")
	}
	if patched["city"] != "Amsterdam" {
		t.Errorf("expected other keys preserved, got %v", patched["city"])
	}
}

func TestMergeContact_NilCurrent(t *testing.T) {
	patched, err := mergeContact(nil, []byte(`{"phone":"+31 20 123"}`))
	if err != nil {
		t.Fatalf("mergeContact failed: %v", err)
	}
	if patched["phone"] != "+31 20 123" {
		t.Errorf("expected key added to empty document, got %v", patched["phone"])
	}
}

func TestMergeContact_InvalidPatch(t *testing.T) {
	current := map[string]any{"phone": "+31 20 123"}

	if _, err := mergeContact(current, []byte(`{not json`)); !apperr.Is(err, apperr.Validation) {
		t.Errorf("expected validation error for malformed patch, got %v", err)
	}

	// A non-object patch replaces the whole document per RFC 7386; a
	// contact document must stay an object
	if _, err := mergeContact(current, []byte(`[1,2,3]`)); !apperr.Is(err, apperr.Validation) {
		t.Errorf("expected validation error for non-object patch, got %v", err)
	}
}
