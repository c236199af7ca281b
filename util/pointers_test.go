package util

import "testing"

func TestPtr(t *testing.T) {
	n := Ptr(8192)
	if *n != 8192 {
		t.Errorf("expected *n=8192, got %d", *n)
	}

	s := Ptr("earliest")
	if *s != "earliest" {
		t.Errorf("expected *s=earliest, got %s", *s)
	}
}

func TestDeref(t *testing.T) {
	n := 8192
	if Deref(&n) != 8192 {
		t.Error("expected Deref to return 8192")
	}

	var np *int
	if Deref(np) != 0 {
		t.Error("expected Deref of nil to return zero value")
	}

	s := "earliest"
	if Deref(&s) != "earliest" {
		t.Error("expected Deref to return earliest")
	}

	var sp *string
	if Deref(sp) != "" {
		t.Error("expected Deref of nil string pointer to return empty string")
	}
}
