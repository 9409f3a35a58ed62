package toc

import "sync"

// Record is the latest known visibility of one rendered heading.
type Record struct {
	ID           string `json:"id"`
	Intersecting bool   `json:"intersecting"`
}

// Observer receives batches of visibility changes.
type Observer interface {
	Observe(batch []Record)
}

// Watcher delivers visibility changes for registered heading ids.
type Watcher interface {
	Register(id string, o Observer)
	Unregister(id string)
}

// Tracker selects the active heading from visibility changes. When several
// headings are visible the earliest in document order wins; when none are,
// the previous selection is kept.
type Tracker struct {
	// mountMu serializes Mount and Unmount, including their watcher calls.
	// mu guards the fields below and is never held while calling the watcher.
	mountMu sync.Mutex
	mu      sync.Mutex
	watcher Watcher
	order   []string
	rank    map[string]int
	records map[string]bool
	active  string
}

// NewTracker returns an unmounted tracker with no active heading.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Mount starts tracking ids, given in document order, through w. Any previous
// mount is torn down first and its visibility records are discarded.
func (t *Tracker) Mount(w Watcher, ids []string) {
	t.mountMu.Lock()
	defer t.mountMu.Unlock()

	order := append([]string(nil), ids...)
	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}

	t.mu.Lock()
	prev, prevIDs := t.watcher, t.order
	t.watcher = w
	t.order = order
	t.rank = rank
	t.records = make(map[string]bool, len(order))
	t.mu.Unlock()

	// Watcher calls happen outside mu: a watcher may be dispatching to us.
	if prev != nil {
		for _, id := range prevIDs {
			prev.Unregister(id)
		}
	}
	for _, id := range order {
		w.Register(id, t)
	}
}

// Unmount stops tracking. It is safe to call more than once.
func (t *Tracker) Unmount() {
	t.mountMu.Lock()
	defer t.mountMu.Unlock()

	t.mu.Lock()
	w, ids := t.watcher, t.order
	t.watcher = nil
	t.order = nil
	t.rank = nil
	t.records = nil
	t.mu.Unlock()

	if w == nil {
		return
	}
	for _, id := range ids {
		w.Unregister(id)
	}
}

// Observe merges batch into the visibility records and updates the active heading.
func (t *Tracker) Observe(batch []Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.records == nil {
		return
	}
	for _, r := range batch {
		t.records[r.ID] = r.Intersecting
	}

	best, bestRank := "", -1
	for id, visible := range t.records {
		if !visible {
			continue
		}
		r, known := t.rank[id]
		if !known {
			r = len(t.order)
		}
		if bestRank < 0 || r < bestRank || (r == bestRank && id < best) {
			best, bestRank = id, r
		}
	}
	if bestRank >= 0 {
		t.active = best
	}
}

// Active returns the id of the active heading, or "" before any heading was seen.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Order returns the document order the tracker was mounted with.
func (t *Tracker) Order() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}

// Feed is an in-process Watcher. Visibility batches reported by a client are
// handed to Dispatch, which routes each record to the observer registered for
// its id.
type Feed struct {
	mu        sync.Mutex
	dispatch  sync.Mutex
	observers map[string]Observer
}

// NewFeed returns an empty Feed.
func NewFeed() *Feed {
	return &Feed{observers: make(map[string]Observer)}
}

// Register implements Watcher.
func (f *Feed) Register(id string, o Observer) {
	f.mu.Lock()
	f.observers[id] = o
	f.mu.Unlock()
}

// Unregister implements Watcher.
func (f *Feed) Unregister(id string) {
	f.mu.Lock()
	delete(f.observers, id)
	f.mu.Unlock()
}

// Len returns the number of registered ids.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.observers)
}

// Dispatch delivers batch to the registered observers, one call per observer,
// keeping the batch order. Records for unregistered ids are dropped and the
// number of delivered records is returned. Dispatches never overlap.
func (f *Feed) Dispatch(batch []Record) int {
	f.dispatch.Lock()
	defer f.dispatch.Unlock()

	f.mu.Lock()
	var order []Observer
	grouped := make(map[Observer][]Record)
	delivered := 0
	for _, r := range batch {
		o, ok := f.observers[r.ID]
		if !ok {
			continue
		}
		if _, seen := grouped[o]; !seen {
			order = append(order, o)
		}
		grouped[o] = append(grouped[o], r)
		delivered++
	}
	f.mu.Unlock()

	for _, o := range order {
		o.Observe(grouped[o])
	}
	return delivered
}
