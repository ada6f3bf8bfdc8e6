package entity

import "testing"

func TestParseStatus_KnownValues(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted} {
		if got := ParseStatus(string(s)); got != s {
			t.Errorf("ParseStatus(%q) = %q", s, got)
		}
	}
}

func TestParseStatus_UnknownFallsBackToPending(t *testing.T) {
	for _, raw := range []string{"", "archived", "PENDING", "cancelado"} {
		if got := ParseStatus(raw); got != StatusPending {
			t.Errorf("ParseStatus(%q) = %q, want pending", raw, got)
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus("confirmed") {
		t.Error("confirmed should be valid")
	}
	if ValidStatus("archived") {
		t.Error("archived should not be valid")
	}
	if ValidStatus("") {
		t.Error("empty string should not be valid")
	}
}
