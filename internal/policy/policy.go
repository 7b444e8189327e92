// Package policy holds the side-effect-free authorization predicates.
package policy

import (
	"time"

	"docmanager/internal/model"
)

// IsWithinAccessWindow reports whether now falls inside the document's
// [AccessStart, AccessEnd] window. Absent bounds impose no restriction.
// An inverted window (start after end) is never open.
func IsWithinAccessWindow(doc model.Document, now time.Time) bool {
	if doc.AccessStart != nil && doc.AccessEnd != nil && doc.AccessStart.After(*doc.AccessEnd) {
		return false
	}
	if doc.AccessStart != nil && now.Before(*doc.AccessStart) {
		return false
	}
	if doc.AccessEnd != nil && now.After(*doc.AccessEnd) {
		return false
	}
	return true
}

// CanView is used by search: admins and owners always, everyone else only
// for public documents inside their window.
func CanView(actor model.Actor, doc model.Document, now time.Time) bool {
	if !actor.Authenticated() {
		return false
	}
	return actor.IsAdmin() || doc.OwnerID == actor.ID || (doc.IsPublic && IsWithinAccessWindow(doc, now))
}

// CanViewDirect is used by fetch-by-id and ignores the access window.
func CanViewDirect(actor model.Actor, doc model.Document) bool {
	if !actor.Authenticated() {
		return false
	}
	return actor.IsAdmin() || doc.OwnerID == actor.ID || doc.IsPublic
}

// CanList decides whether doc appears in the actor's listing.
// Owners see their own documents unconditionally. Foreign documents are
// listed for admins, or for anyone when public, and are windowed unless
// includeExpired is set.
func CanList(actor model.Actor, doc model.Document, now time.Time, includeExpired bool) bool {
	if !actor.Authenticated() {
		return false
	}
	if doc.OwnerID == actor.ID {
		return true
	}
	if !actor.IsAdmin() && !doc.IsPublic {
		return false
	}
	return includeExpired || IsWithinAccessWindow(doc, now)
}

// CanMutate guards update and delete.
func CanMutate(actor model.Actor, doc model.Document) bool {
	if !actor.Authenticated() {
		return false
	}
	return actor.IsAdmin() || doc.OwnerID == actor.ID
}

// CanManageUsers guards the user administration operations.
func CanManageUsers(actor model.Actor) bool {
	return actor.Authenticated() && actor.IsAdmin()
}

// CanDeleteUser forbids self-deletion on top of CanManageUsers.
func CanDeleteUser(actor model.Actor, targetID string) bool {
	return CanManageUsers(actor) && targetID != actor.ID
}
