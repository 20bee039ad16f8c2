package core

import (
	"context"

	"recipecost/internal/recordstore"
	"recipecost/pkg/domain"
)

// Credentials stores registered users back to back without a marker.
type Credentials struct {
	collection
}

// NewCredentials returns a credentials collection.
func NewCredentials(store *recordstore.Store, opts ...Option) *Credentials {
	return &Credentials{collection: newCollection(store, opts)}
}

// Register appends user to fileName. It reports whether the user was stored.
func (c *Credentials) Register(ctx context.Context, user domain.User, fileName string) bool {
	users, err := recordstore.Load[domain.User](ctx, c.store, fileName, "")
	if err != nil {
		c.loadFailed("credentials", err)
	}
	users = append(users, user)
	if err := recordstore.Save(ctx, c.store, fileName, "", users); err != nil {
		c.saveFailed("credentials", err)
		return false
	}
	c.log.Info("registered user %q", user.Username)
	return true
}

// Authenticate reports whether any stored user matches both fields exactly.
func (c *Credentials) Authenticate(ctx context.Context, username, password, fileName string) bool {
	users, err := recordstore.Load[domain.User](ctx, c.store, fileName, "")
	if err != nil {
		c.loadFailed("credentials", err)
	}
	for _, u := range users {
		if u.Matches(username, password) {
			return true
		}
	}
	c.log.Warn("failed login for %q", username)
	return false
}
