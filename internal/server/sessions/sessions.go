// Package sessions holds the denormalized record of each signed-in user and
// fans out "user updated" notifications to interested components. It replaces
// the ambient browser-storage session of the original flow with an explicit,
// injected context object.
package sessions

import (
	"sync"

	"messagewall/internal/server/records"
)

// Listener receives the updated record after every Set. Listeners are invoked
// synchronously, in registration order, while the update lock is NOT held, so
// a listener may call back into the context.
type Listener func(rec *records.Record)

// Context caches the current record per user id and broadcasts profile
// changes. There is no delivery guarantee beyond "currently subscribed
// listeners are invoked once per Set".
type Context struct {
	mu        sync.RWMutex
	current   map[string]*records.Record
	listeners []Listener
}

func NewContext() *Context {
	return &Context{current: make(map[string]*records.Record)}
}

// OnUpdate registers a listener for subsequent Set calls.
func (c *Context) OnUpdate(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Set stores the record as the user's current session state and notifies
// listeners. The stored value is a copy; callers may keep mutating rec.
func (c *Context) Set(rec *records.Record) {
	if rec == nil {
		return
	}
	cp := *rec

	c.mu.Lock()
	c.current[cp.ID] = &cp
	ls := make([]Listener, len(c.listeners))
	copy(ls, c.listeners)
	c.mu.Unlock()

	for _, fn := range ls {
		fn(&cp)
	}
}

// Get returns the cached record for the user, or nil when the user has no
// session state (never logged in, or cleared).
func (c *Context) Get(userID string) *records.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.current[userID]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

// Clear drops the user's session state. Listeners are not notified; a cleared
// session simply stops resolving.
func (c *Context) Clear(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.current, userID)
}
