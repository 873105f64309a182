package firestore

import (
	"context"
	"testing"
)

func TestNewRequiresProjectID(t *testing.T) {
	if _, err := New(context.Background(), Options{}); err == nil {
		t.Fatal("expected error without a project id")
	}
}

func TestNewRejectsUnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Options{ProjectID: "p", CredentialsFile: "/nonexistent/creds.json"})
	if err == nil {
		t.Fatal("expected error for a missing credentials file")
	}
}

func TestWithoutIDDropsIDAndCopies(t *testing.T) {
	in := map[string]any{"id": "x", "name": "Apollo"}
	out := withoutID(in)
	if _, ok := out["id"]; ok {
		t.Fatalf("id must not be written as a field: %v", out)
	}
	if in["id"] != "x" {
		t.Fatalf("input map was modified: %v", in)
	}
}
