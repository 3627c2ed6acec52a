package errors

import "testing"

func TestNewCodeValidation(t *testing.T) {
	valid := []string{"catalog.not_found", "store.condition_failed", "config.invalid_input"}
	for _, s := range valid {
		if _, err := NewCode(s); err != nil {
			t.Errorf("expected '%s' to be valid: %v", s, err)
		}
	}

	invalid := []string{
		"",
		"nodot",
		"Upper.case",
		"catalog.",
		".not_found",
		"catalog.not-found",
		"catalog.some_error", // 'error' is reserved out of code names
	}
	for _, s := range invalid {
		if _, err := NewCode(s); err == nil {
			t.Errorf("expected '%s' to be rejected", s)
		}
	}
}

func TestCodeParts(t *testing.T) {
	c := MustNewCode("store.condition_failed")
	if c.Package() != "store" {
		t.Errorf("expected package 'store', got '%s'", c.Package())
	}
	if c.Name() != "condition_failed" {
		t.Errorf("expected name 'condition_failed', got '%s'", c.Name())
	}
	if !c.Equals(MustNewCode("store.condition_failed")) {
		t.Error("expected identical codes to be equal")
	}
	if c.Equals(MustNewCode("store.not_found")) {
		t.Error("different codes must not be equal")
	}
}

func TestMustNewCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected MustNewCode to panic on invalid input")
		}
	}()
	MustNewCode("not a code")
}
