package postline

import (
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eringen/postline/toc"
)

type readerKey struct {
	reader string
	slug   string
}

// readerTOC is the TOC state of one reader on one post. mu serializes
// mounting and dispatching for the entry; lastSeen is guarded by Readers.mu.
type readerTOC struct {
	mu       sync.Mutex
	mounted  bool
	tracker  *toc.Tracker
	feed     *toc.Feed
	order    []string
	lastSeen time.Time
}

// Readers keeps one heading tracker per reader and post. Visibility batches
// reported by the reader's browser are fed to the tracker; idle trackers are
// unmounted after ttl.
type Readers struct {
	mu       sync.Mutex
	entries  map[readerKey]*readerTOC
	ttl      time.Duration
	log      *logrus.Entry
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewReaders creates a registry and starts its cleanup loop.
func NewReaders(ttl time.Duration, log *logrus.Entry) *Readers {
	r := &Readers{
		entries: make(map[readerKey]*readerTOC),
		ttl:     ttl,
		log:     log,
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	go r.cleanup()
	return r
}

// Report applies a visibility batch for reader on slug and returns the
// active heading id. order is the document order of the post's tracked
// headings; a different order than last time means the content changed and
// the tracker is remounted.
func (r *Readers) Report(reader, slug string, order []string, batch []toc.Record) string {
	key := readerKey{reader: reader, slug: slug}

	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = &readerTOC{tracker: toc.NewTracker(), feed: toc.NewFeed()}
		r.entries[key] = e
	}
	e.lastSeen = r.now()
	r.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mounted || !slices.Equal(e.order, order) {
		e.tracker.Mount(e.feed, order)
		e.order = slices.Clone(order)
		e.mounted = true
		r.log.WithFields(logrus.Fields{"slug": slug, "headings": len(order)}).Debug("toc tracker mounted")
	}
	if n := e.feed.Dispatch(batch); n < len(batch) {
		r.log.WithFields(logrus.Fields{"slug": slug, "dropped": len(batch) - n}).Debug("visibility records for unknown headings")
	}
	return e.tracker.Active()
}

// Active returns the active heading of reader on slug, or "".
func (r *Readers) Active(reader, slug string) string {
	r.mu.Lock()
	e, ok := r.entries[readerKey{reader: reader, slug: slug}]
	r.mu.Unlock()
	if !ok {
		return ""
	}
	return e.tracker.Active()
}

// Len returns the number of live trackers.
func (r *Readers) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Readers) cleanup() {
	ticker := time.NewTicker(r.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep unmounts trackers idle for longer than ttl.
func (r *Readers) sweep() int {
	cutoff := r.now().Add(-r.ttl)
	var idle []*readerTOC
	r.mu.Lock()
	for key, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e)
			delete(r.entries, key)
		}
	}
	r.mu.Unlock()

	for _, e := range idle {
		e.unmount()
	}
	if len(idle) > 0 {
		r.log.WithField("evicted", len(idle)).Debug("idle toc trackers unmounted")
	}
	return len(idle)
}

// Close stops the cleanup loop and unmounts every tracker.
func (r *Readers) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[readerKey]*readerTOC)
	r.mu.Unlock()
	for _, e := range entries {
		e.unmount()
	}
}

func (e *readerTOC) unmount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracker.Unmount()
	e.mounted = false
}
