package demo

import (
	"sort"
	"sync"

	"github.com/vango-dev/flxrouter/pkg/appctx"
)

// User is a directory entry.
type User struct {
	ID   string
	Name string
	Role string
}

// Directory is an in-memory user list.
type Directory struct {
	mu    sync.RWMutex
	users map[string]User
}

// UsersKey addresses the Directory in an app context.
var UsersKey = appctx.NewKey[*Directory]("demo.users")

// NewDirectory creates a directory holding users.
func NewDirectory(users ...User) *Directory {
	d := &Directory{users: make(map[string]User, len(users))}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

// DefaultDirectory returns the sample users.
func DefaultDirectory() *Directory {
	return NewDirectory(
		User{ID: "1", Name: "Ada Lovelace", Role: "admin"},
		User{ID: "2", Name: "Alan Turing", Role: "editor"},
		User{ID: "3", Name: "Grace Hopper", Role: "viewer"},
	)
}

// Get returns the user with id.
func (d *Directory) Get(id string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	return u, ok
}

// List returns the users ordered by id.
func (d *Directory) List() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]User, 0, len(d.users))
	for _, u := range d.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// Provide returns a function registering dir in app contexts.
func Provide(dir *Directory) func(*appctx.Context) {
	return func(c *appctx.Context) {
		appctx.Provide(c, UsersKey, dir)
	}
}

// directoryOf finds the directory through the context of outlet's view.
func directoryOf(ctx *appctx.Context) *Directory {
	if ctx == nil {
		return DefaultDirectory()
	}
	if d, ok := appctx.Lookup(ctx, UsersKey); ok && d != nil {
		return d
	}
	return DefaultDirectory()
}
