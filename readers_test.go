package postline

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/eringen/postline/toc"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestReadersReportSelectsEarliestVisible(t *testing.T) {
	r := NewReaders(time.Hour, quietLogger())
	defer r.Close()
	order := []string{"Intro", "Setup", "Usage"}

	active := r.Report("reader-1", "post", order, []toc.Record{
		{ID: "Usage", Intersecting: true},
		{ID: "Setup", Intersecting: true},
	})
	assert.Equal(t, "Setup", active)
	assert.Equal(t, "Setup", r.Active("reader-1", "post"))
	assert.Equal(t, "", r.Active("reader-2", "post"))
}

func TestReadersKeepActiveWhenNothingVisible(t *testing.T) {
	r := NewReaders(time.Hour, quietLogger())
	defer r.Close()
	order := []string{"a", "b"}

	r.Report("reader", "post", order, []toc.Record{{ID: "b", Intersecting: true}})
	active := r.Report("reader", "post", order, []toc.Record{{ID: "b", Intersecting: false}})
	assert.Equal(t, "b", active)
}

func TestReadersRemountOnContentChange(t *testing.T) {
	r := NewReaders(time.Hour, quietLogger())
	defer r.Close()

	r.Report("reader", "post", []string{"a", "b"}, []toc.Record{{ID: "a", Intersecting: true}})
	active := r.Report("reader", "post", []string{"b", "c"}, []toc.Record{
		{ID: "a", Intersecting: true},
		{ID: "c", Intersecting: true},
	})
	assert.Equal(t, "c", active, "records for removed headings are dropped")
	assert.Equal(t, 1, r.Len())
}

func TestReadersSweepEvictsIdle(t *testing.T) {
	r := NewReaders(time.Hour, quietLogger())
	defer r.Close()
	now := time.Now()
	r.now = func() time.Time { return now }

	r.Report("old", "post", []string{"a"}, nil)
	now = now.Add(2 * time.Hour)
	r.Report("fresh", "post", []string{"a"}, nil)

	assert.Equal(t, 1, r.sweep())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "", r.Active("old", "post"))
}

func TestReadersConcurrentFirstReports(t *testing.T) {
	r := NewReaders(time.Hour, quietLogger())
	defer r.Close()
	order := []string{"a", "b"}

	var wg sync.WaitGroup
	results := make([]string, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Report("reader", "post", order, []toc.Record{{ID: "a", Intersecting: true}})
		}(i)
	}
	wg.Wait()

	for i, active := range results {
		assert.Equal(t, "a", active, "report %d lost its batch", i)
	}
}

func TestReadersSweepDuringReports(t *testing.T) {
	r := NewReaders(time.Hour, quietLogger())
	defer r.Close()
	var mu sync.Mutex
	now := time.Now()
	r.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Report("reader", "post", []string{"a"}, []toc.Record{{ID: "a", Intersecting: true}})
		}()
		go func() {
			defer wg.Done()
			mu.Lock()
			now = now.Add(2 * time.Hour)
			mu.Unlock()
			r.sweep()
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, r.Len(), 1)
}
