package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	feedDomain "github.com/adhikareeprayush/TechCrunch-News-Bot/internal/modules/feed/domain"
	"github.com/adhikareeprayush/TechCrunch-News-Bot/internal/modules/watch/domain"
	"github.com/adhikareeprayush/TechCrunch-News-Bot/internal/shared/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

type stubLoader struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, call int) ([]feedDomain.Entry, error)
}

func (l *stubLoader) Load(ctx context.Context) ([]feedDomain.Entry, error) {
	l.mu.Lock()
	l.calls++
	call := l.calls
	fn := l.fn
	l.mu.Unlock()
	return fn(ctx, call)
}

func (l *stubLoader) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func fixedLoader(entries ...feedDomain.Entry) *stubLoader {
	return &stubLoader{fn: func(context.Context, int) ([]feedDomain.Entry, error) {
		return entries, nil
	}}
}

// stubSender records every attempted send, including the failing ones.
type stubSender struct {
	mu       sync.Mutex
	attempts []string
	failWith map[string]error
}

func (s *stubSender) Send(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = append(s.attempts, text)
	if err := s.failWith[text]; err != nil {
		return err
	}
	return nil
}

func (s *stubSender) links() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.attempts...)
}

func entry(link string, published time.Time, categories ...string) feedDomain.Entry {
	return feedDomain.Entry{
		Title:       link,
		Link:        link,
		Categories:  categories,
		PublishedAt: published,
	}
}

func newTestWatcher(loader EntryLoader, sender Sender, allowed []string) *Service {
	cfg := &config.Config{
		AllowedCategories: allowed,
		PollInterval:      300,
		RetryInterval:     60,
		SendDelay:         60,
	}

	w := New(cfg, loader, sender)
	w.pollInterval = 10 * time.Millisecond
	w.retryInterval = 5 * time.Millisecond
	w.sendDelay = 0
	return w
}

func TestCycleSendsOnlyMatchingEntry(t *testing.T) {
	// Document order is newest first
	loader := fixedLoader(
		entry("https://techcrunch.com/b", base, "security"),
		entry("https://techcrunch.com/a", base.Add(-time.Hour), "ai"),
	)
	sender := &stubSender{}
	w := newTestWatcher(loader, sender, []string{"ai"})

	wait := w.cycle(context.Background())

	assert.Equal(t, []string{"https://techcrunch.com/a"}, sender.links())
	assert.Equal(t, w.pollInterval, wait)
	assert.True(t, w.lastSent.Equal(base.Add(-time.Hour)))
}

func TestCycleLoadFailureSendsNothing(t *testing.T) {
	loader := &stubLoader{fn: func(context.Context, int) ([]feedDomain.Entry, error) {
		return nil, errors.New("boom")
	}}
	sender := &stubSender{}
	w := newTestWatcher(loader, sender, []string{"ai"})

	wait := w.cycle(context.Background())

	assert.Empty(t, sender.links())
	assert.Equal(t, w.retryInterval, wait)
}

func TestCycleSendFailureContinuesWithNextEntry(t *testing.T) {
	loader := fixedLoader(
		entry("https://techcrunch.com/b", base, "ai"),
		entry("https://techcrunch.com/a", base.Add(-time.Hour), "ai"),
	)
	sender := &stubSender{failWith: map[string]error{
		"https://techcrunch.com/a": errors.New("telegram: forbidden"),
	}}
	w := newTestWatcher(loader, sender, []string{"ai"})

	w.cycle(context.Background())

	assert.Equal(t, []string{"https://techcrunch.com/a", "https://techcrunch.com/b"}, sender.links())
	// The cursor only advances past entries that were actually delivered
	assert.True(t, w.lastSent.Equal(base))
}

func TestCycleCursorSkipsAlreadySentEntries(t *testing.T) {
	loader := fixedLoader(
		entry("https://techcrunch.com/b", base, "ai"),
		entry("https://techcrunch.com/a", base.Add(-time.Hour), "ai"),
	)
	sender := &stubSender{}
	w := newTestWatcher(loader, sender, []string{"ai"})

	w.cycle(context.Background())
	require.Equal(t, []string{"https://techcrunch.com/a", "https://techcrunch.com/b"}, sender.links())

	// Same document again: nothing is newer than the cursor
	w.cycle(context.Background())
	assert.Equal(t, []string{"https://techcrunch.com/a", "https://techcrunch.com/b"}, sender.links())

	// A new entry at the top of the feed is the only one that goes out
	w.loader = fixedLoader(
		entry("https://techcrunch.com/c", base.Add(time.Hour), "ai"),
		entry("https://techcrunch.com/b", base, "ai"),
		entry("https://techcrunch.com/a", base.Add(-time.Hour), "ai"),
	)
	w.cycle(context.Background())
	assert.Equal(t, []string{
		"https://techcrunch.com/a",
		"https://techcrunch.com/b",
		"https://techcrunch.com/c",
	}, sender.links())
}

func TestCycleFallbackWhenNothingEverMatched(t *testing.T) {
	loader := fixedLoader(
		entry("https://techcrunch.com/b", base, "gaming"),
		entry("https://techcrunch.com/a", base.Add(-time.Hour), "sports"),
	)
	sender := &stubSender{}
	w := newTestWatcher(loader, sender, []string{"ai"})

	w.cycle(context.Background())

	// The oldest entry goes out so the chat sees signs of life
	assert.Equal(t, []string{"https://techcrunch.com/a"}, sender.links())
	assert.True(t, w.lastSent.Equal(base.Add(-time.Hour)))

	// Once the cursor is set the fallback never fires again
	w.cycle(context.Background())
	assert.Equal(t, []string{"https://techcrunch.com/a"}, sender.links())
}

func TestCycleEmptyFeed(t *testing.T) {
	loader := fixedLoader()
	sender := &stubSender{}
	w := newTestWatcher(loader, sender, []string{"ai"})

	wait := w.cycle(context.Background())

	assert.Empty(t, sender.links())
	assert.Equal(t, w.pollInterval, wait)
}

func TestStartIsIdempotent(t *testing.T) {
	loader := fixedLoader()
	sender := &stubSender{}
	w := newTestWatcher(loader, sender, nil)

	assert.Equal(t, domain.LoopStateIdle, w.State())

	assert.True(t, w.Start())
	defer w.Stop()

	assert.Equal(t, domain.LoopStateRunning, w.State())
	assert.False(t, w.Start())
	assert.Equal(t, domain.LoopStateRunning, w.State())
}

func TestStopReturnsToIdle(t *testing.T) {
	loader := fixedLoader()
	sender := &stubSender{}
	w := newTestWatcher(loader, sender, nil)

	require.True(t, w.Start())
	w.Stop()
	assert.Equal(t, domain.LoopStateIdle, w.State())

	// The loop can be started again after a stop
	assert.True(t, w.Start())
	w.Stop()
	assert.Equal(t, domain.LoopStateIdle, w.State())
}

func TestLoopRetriesAfterFailedCycle(t *testing.T) {
	loader := &stubLoader{fn: func(_ context.Context, call int) ([]feedDomain.Entry, error) {
		if call == 1 {
			return nil, errors.New("boom")
		}
		return []feedDomain.Entry{entry("https://techcrunch.com/a", base, "ai")}, nil
	}}
	sender := &stubSender{}
	w := newTestWatcher(loader, sender, []string{"ai"})

	require.True(t, w.Start())
	defer w.Stop()

	require.Eventually(t, func() bool {
		return len(sender.links()) >= 1
	}, time.Second, 5*time.Millisecond)

	assert.GreaterOrEqual(t, loader.callCount(), 2)
	assert.Equal(t, "https://techcrunch.com/a", sender.links()[0])
}

func TestStopInterruptsSendDelay(t *testing.T) {
	loader := fixedLoader(entry("https://techcrunch.com/a", base, "ai"))
	sender := &stubSender{}
	w := newTestWatcher(loader, sender, []string{"ai"})
	w.sendDelay = time.Hour

	require.True(t, w.Start())

	require.Eventually(t, func() bool {
		return len(sender.links()) == 1
	}, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return while the loop was sleeping")
	}

	assert.Equal(t, domain.LoopStateIdle, w.State())
}
