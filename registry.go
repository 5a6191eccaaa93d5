package pubadmin

import (
	"sync"
	"time"

	"github.com/eringen/pubadmin/listing"
	"github.com/eringen/pubadmin/notify"
)

// sessionPage is the blog list state of one signed-in session. Handlers
// hold mu for the whole request.
type sessionPage struct {
	mu     sync.Mutex
	page   *listing.Page
	toasts *notify.Recorder
	seen   time.Time
}

// pageRegistry keeps a listing.Page per session id. Entries idle for
// longer than ttl are closed on the next acquire.
type pageRegistry struct {
	mu      sync.Mutex
	entries map[string]*sessionPage
	ttl     time.Duration
	mount   func(toasts notify.Notifier) *listing.Page
	now     func() time.Time
}

func newPageRegistry(ttl time.Duration, mount func(notify.Notifier) *listing.Page) *pageRegistry {
	return &pageRegistry{
		entries: make(map[string]*sessionPage),
		ttl:     ttl,
		mount:   mount,
		now:     time.Now,
	}
}

// acquire returns the locked entry for sid, mounting a page on first use.
// The caller must unlock it.
func (r *pageRegistry) acquire(sid string) *sessionPage {
	r.mu.Lock()
	now := r.now()
	for id, e := range r.entries {
		if id != sid && now.Sub(e.seen) > r.ttl {
			delete(r.entries, id)
			e.page.Close()
		}
	}
	e, ok := r.entries[sid]
	if !ok {
		rec := &notify.Recorder{}
		e = &sessionPage{page: r.mount(rec), toasts: rec}
		r.entries[sid] = e
	}
	e.seen = now
	r.mu.Unlock()

	e.mu.Lock()
	return e
}

// drop closes and forgets the entry for sid.
func (r *pageRegistry) drop(sid string) {
	r.mu.Lock()
	e, ok := r.entries[sid]
	delete(r.entries, sid)
	r.mu.Unlock()
	if ok {
		e.page.Close()
	}
}

func (r *pageRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *pageRegistry) closeAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*sessionPage)
	r.mu.Unlock()
	for _, e := range entries {
		e.page.Close()
	}
}
