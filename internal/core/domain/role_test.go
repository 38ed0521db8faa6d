package domain

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func mustPermission(t *testing.T, s string) Permission {
	t.Helper()
	p, err := NewPermission(s)
	if err != nil {
		t.Fatalf("NewPermission(%q): %v", s, err)
	}
	return p
}

func mustRole(t *testing.T, name string, perms ...string) *Role {
	t.Helper()
	rn, err := NewRoleName(name)
	if err != nil {
		t.Fatalf("NewRoleName(%q): %v", name, err)
	}
	ps := make([]Permission, len(perms))
	for i, p := range perms {
		ps[i] = mustPermission(t, p)
	}
	r, err := NewRole(rn, ps)
	if err != nil {
		t.Fatalf("NewRole(%q): %v", name, err)
	}
	return r
}

func TestNewRole_EmptyPermissions(t *testing.T) {
	rn, _ := NewRoleName("ROLE_EMPTY")
	if _, err := NewRole(rn, nil); !errors.Is(err, ErrEmptyRole) {
		t.Fatalf("expected ErrEmptyRole, got %v", err)
	}
}

func TestNewRole_NoCreationEvents(t *testing.T) {
	r := mustRole(t, "ROLE_READER", "doc.read")
	if got := r.PullEvents(); len(got) != 0 {
		t.Fatalf("creation must not record events, got %d", len(got))
	}
}

func TestRole_AddPermission_Idempotent(t *testing.T) {
	r := mustRole(t, "ROLE_READER", "doc.read")
	p := mustPermission(t, "doc.read")

	if err := r.AddPermission(p, testNow); err != nil {
		t.Fatalf("AddPermission returned error: %v", err)
	}
	if len(r.Permissions()) != 1 {
		t.Fatalf("duplicate add changed the set: %v", r.Permissions())
	}
	if got := r.PullEvents(); len(got) != 0 {
		t.Fatalf("duplicate add must not record an event, got %d", len(got))
	}

	w := mustPermission(t, "doc.write")
	if err := r.AddPermission(w, testNow); err != nil {
		t.Fatalf("AddPermission returned error: %v", err)
	}
	events := r.PullEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	added, ok := events[0].(PermissionAdded)
	if !ok || added.Permission != w || !added.OccurredAt().Equal(testNow) {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestRole_RemovePermission_LastFails(t *testing.T) {
	r := mustRole(t, "ROLE_EDITOR", "doc.read", "doc.write")

	if err := r.RemovePermission(mustPermission(t, "doc.write"), testNow); err != nil {
		t.Fatalf("first removal failed: %v", err)
	}
	if err := r.RemovePermission(mustPermission(t, "doc.read"), testNow); !errors.Is(err, ErrEmptyRole) {
		t.Fatalf("expected ErrEmptyRole on last permission, got %v", err)
	}
	if len(r.Permissions()) != 1 {
		t.Fatalf("failed removal must not mutate the set")
	}
}

func TestRole_RemovePermission_NotFound(t *testing.T) {
	r := mustRole(t, "ROLE_EDITOR", "doc.read", "doc.write")
	if err := r.RemovePermission(mustPermission(t, "doc.delete"), testNow); !errors.Is(err, ErrPermissionNotFound) {
		t.Fatalf("expected ErrPermissionNotFound, got %v", err)
	}
}

func TestRole_RemovePermissions_AllOrNothing(t *testing.T) {
	r := mustRole(t, "ROLE_EDITOR", "doc.read", "doc.write", "doc.share")

	// One of the targets is missing: nothing must change.
	err := r.RemovePermissions([]Permission{
		mustPermission(t, "doc.write"),
		mustPermission(t, "doc.delete"),
	}, testNow)
	if !errors.Is(err, ErrPermissionNotFound) {
		t.Fatalf("expected ErrPermissionNotFound, got %v", err)
	}
	if len(r.Permissions()) != 3 {
		t.Fatalf("failed bulk removal mutated the set: %v", r.Permissions())
	}
	if got := r.PullEvents(); len(got) != 0 {
		t.Fatalf("failed bulk removal recorded events: %d", len(got))
	}

	// Removing everything must fail before any mutation.
	err = r.RemovePermissions([]Permission{
		mustPermission(t, "doc.read"),
		mustPermission(t, "doc.write"),
		mustPermission(t, "doc.share"),
	}, testNow)
	if !errors.Is(err, ErrEmptyRole) {
		t.Fatalf("expected ErrEmptyRole, got %v", err)
	}
	if len(r.Permissions()) != 3 {
		t.Fatalf("failed bulk removal mutated the set")
	}

	// Valid bulk removal records one event per permission.
	err = r.RemovePermissions([]Permission{
		mustPermission(t, "doc.write"),
		mustPermission(t, "doc.share"),
	}, testNow)
	if err != nil {
		t.Fatalf("bulk removal failed: %v", err)
	}
	if len(r.Permissions()) != 1 || !r.HasPermission(mustPermission(t, "doc.read")) {
		t.Fatalf("unexpected permissions after bulk removal: %v", r.Permissions())
	}
	if got := r.PullEvents(); len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}

func TestRole_AddPermissions_SkipsDuplicates(t *testing.T) {
	r := mustRole(t, "ROLE_READER", "doc.read")
	err := r.AddPermissions([]Permission{
		mustPermission(t, "doc.read"),
		mustPermission(t, "doc.write"),
	}, testNow)
	if err != nil {
		t.Fatalf("AddPermissions failed: %v", err)
	}
	if len(r.Permissions()) != 2 {
		t.Fatalf("unexpected set: %v", r.Permissions())
	}
	if got := r.PullEvents(); len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
}
