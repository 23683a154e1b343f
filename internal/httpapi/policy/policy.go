// Package policy contains the authorization predicates. Each one is a pure
// function of (actor, method, owner); handlers evaluate the coarse predicate
// before touching any state and the object predicate once the target row is
// loaded, so an inadmissible request never reaches mutation logic.
package policy

import (
	"net/http"

	"reviewhub/internal/httpapi/models"
)

// IsSafeMethod reports whether the request is read-only.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AdminOrReadOnly: safe methods always pass, everything else needs an
// authenticated admin. Guards categories, genres and titles.
func AdminOrReadOnly(actor *models.User, method string) bool {
	if IsSafeMethod(method) {
		return true
	}
	return actor != nil && actor.IsAdmin()
}

// AuthorOrElevated is the coarse half of the review/comment policy: safe
// methods are open, unsafe ones need any authenticated actor. The object
// check happens in AuthorOrElevatedObject after the row is loaded.
func AuthorOrElevated(actor *models.User, method string) bool {
	if IsSafeMethod(method) {
		return true
	}
	return actor != nil
}

// AuthorOrElevatedObject: unsafe methods on an existing review/comment need
// the author, a moderator, or an admin.
func AuthorOrElevatedObject(actor *models.User, method string, authorID string) bool {
	if IsSafeMethod(method) {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.ID == authorID || actor.IsModerator() || actor.IsAdmin()
}

// AdminOnly guards the user-management surface: every method, reads
// included, needs an admin or superuser.
func AdminOnly(actor *models.User) bool {
	return actor != nil && (actor.IsSuperuser || actor.IsAdmin())
}
