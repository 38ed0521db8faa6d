package domain

import "time"

// Event is an immutable fact recorded by an aggregate during a mutation.
// Timestamps are supplied by the caller, never read from the wall clock, so
// replays and tests stay deterministic.
type Event interface {
	// Name is a stable dotted identifier, e.g. "user.registered".
	Name() string
	// AggregateID identifies the aggregate the event belongs to.
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder is the in-memory event buffer each aggregate embeds.
// Events are drained exactly once via PullEvents by the orchestrating
// service after a successful mutation.
type EventRecorder struct {
	events []Event
}

// Record appends an event to the buffer.
func (r *EventRecorder) Record(e Event) {
	r.events = append(r.events, e)
}

// PullEvents returns all recorded events and clears the buffer.
func (r *EventRecorder) PullEvents() []Event {
	pulled := r.events
	r.events = nil
	return pulled
}

// UserRegistered signals that a new account was created.
type UserRegistered struct {
	UserID UserID
	Email  Email
	At     time.Time
}

func (e UserRegistered) Name() string          { return "user.registered" }
func (e UserRegistered) AggregateID() string   { return e.UserID.String() }
func (e UserRegistered) OccurredAt() time.Time { return e.At }

// PasswordChanged signals that a user's password hash was replaced, whether
// by the user (change) or administratively (reset).
type PasswordChanged struct {
	UserID UserID
	At     time.Time
}

func (e PasswordChanged) Name() string          { return "user.password_changed" }
func (e PasswordChanged) AggregateID() string   { return e.UserID.String() }
func (e PasswordChanged) OccurredAt() time.Time { return e.At }

// RoleAssigned signals that a role was added to a user.
type RoleAssigned struct {
	UserID UserID
	RoleID RoleID
	At     time.Time
}

func (e RoleAssigned) Name() string          { return "user.role_assigned" }
func (e RoleAssigned) AggregateID() string   { return e.UserID.String() }
func (e RoleAssigned) OccurredAt() time.Time { return e.At }

// RoleRemoved signals that a role was taken away from a user.
type RoleRemoved struct {
	UserID UserID
	RoleID RoleID
	At     time.Time
}

func (e RoleRemoved) Name() string          { return "user.role_removed" }
func (e RoleRemoved) AggregateID() string   { return e.UserID.String() }
func (e RoleRemoved) OccurredAt() time.Time { return e.At }

// UserActivationChanged signals an activate/deactivate toggle. It is
// recorded on every call, even when the flag did not change.
type UserActivationChanged struct {
	UserID UserID
	Active bool
	At     time.Time
}

func (e UserActivationChanged) Name() string          { return "user.activation_changed" }
func (e UserActivationChanged) AggregateID() string   { return e.UserID.String() }
func (e UserActivationChanged) OccurredAt() time.Time { return e.At }

// PermissionAdded signals that a permission was granted to a role.
type PermissionAdded struct {
	RoleID     RoleID
	Permission Permission
	At         time.Time
}

func (e PermissionAdded) Name() string          { return "role.permission_added" }
func (e PermissionAdded) AggregateID() string   { return e.RoleID.String() }
func (e PermissionAdded) OccurredAt() time.Time { return e.At }

// PermissionRemoved signals that a permission was revoked from a role.
type PermissionRemoved struct {
	RoleID     RoleID
	Permission Permission
	At         time.Time
}

func (e PermissionRemoved) Name() string          { return "role.permission_removed" }
func (e PermissionRemoved) AggregateID() string   { return e.RoleID.String() }
func (e PermissionRemoved) OccurredAt() time.Time { return e.At }
