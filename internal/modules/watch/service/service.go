package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	feedDomain "github.com/adhikareeprayush/TechCrunch-News-Bot/internal/modules/feed/domain"
	"github.com/adhikareeprayush/TechCrunch-News-Bot/internal/modules/watch/domain"
	"github.com/adhikareeprayush/TechCrunch-News-Bot/internal/shared/config"
)

// EntryLoader loads the current feed entries in document order.
type EntryLoader interface {
	Load(ctx context.Context) ([]feedDomain.Entry, error)
}

// Sender delivers a single notification text.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Service runs the poll loop: fetch the feed, filter entries by category,
// forward matching links to the notifier
type Service struct {
	cfg    *config.Config
	loader EntryLoader
	sender Sender

	pollInterval  time.Duration
	retryInterval time.Duration
	sendDelay     time.Duration

	mu     sync.Mutex
	state  domain.LoopState
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// lastSent is owned by the loop goroutine. Zero until the first
	// successful send; not persisted across restarts.
	lastSent time.Time
}

// New creates a new watch service
func New(cfg *config.Config, loader EntryLoader, sender Sender) *Service {
	return &Service{
		cfg:           cfg,
		loader:        loader,
		sender:        sender,
		pollInterval:  time.Duration(cfg.PollInterval) * time.Second,
		retryInterval: time.Duration(cfg.RetryInterval) * time.Second,
		sendDelay:     time.Duration(cfg.SendDelay) * time.Second,
		state:         domain.LoopStateIdle,
	}
}

// Start launches the poll loop goroutine. It returns false without side
// effects when the loop is already running.
func (s *Service) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.LoopStateRunning {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = domain.LoopStateRunning

	s.wg.Add(1)
	go s.run(ctx)

	slog.Info("Poll loop started")
	return true
}

// Stop cancels the loop and waits for it to exit. Safe to call when idle.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.LoopStateRunning {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.state = domain.LoopStateIdle

	slog.Info("Poll loop stopped")
}

// State reports the current loop state.
func (s *Service) State() domain.LoopState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) run(ctx context.Context) {
	defer s.wg.Done()

	// Initial cycle, then the timer owns the cadence
	timer := time.NewTimer(s.cycle(ctx))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			timer.Reset(s.cycle(ctx))
		}
	}
}

// cycle performs one fetch-filter-notify pass and reports how long to wait
// before the next one. Every failure class is recovered here; nothing is
// fatal to the loop.
func (s *Service) cycle(ctx context.Context) time.Duration {
	entries, err := s.loader.Load(ctx)
	if err != nil {
		slog.Error("Poll cycle failed", "error", err)
		return s.retryInterval
	}

	if len(entries) == 0 {
		slog.Warn("Feed contained no entries")
		return s.pollInterval
	}

	found := false

	// Feeds list newest first; walk backwards to process oldest to newest
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]

		if !s.lastSent.IsZero() && !entry.PublishedAt.After(s.lastSent) {
			continue
		}

		if !entry.Matches(s.cfg.AllowedCategories) {
			continue
		}

		found = true
		s.notify(ctx, entry)
	}

	if !found && s.lastSent.IsZero() {
		// Nothing matched and nothing was ever sent; deliver one entry so
		// the chat sees the bot is alive
		entry := entries[len(entries)-1]
		slog.Info("No matching entries, sending fallback", "link", entry.Link)
		s.notify(ctx, entry)
	}

	return s.pollInterval
}

// notify sends one entry link, advancing the cursor only on success. A send
// failure never stops the remaining entries of the cycle.
func (s *Service) notify(ctx context.Context, entry feedDomain.Entry) {
	if err := s.sender.Send(ctx, entry.Link); err != nil {
		slog.Error("Failed to send entry", "link", entry.Link, "error", err)
	} else {
		slog.Info("Sent feed link", "link", entry.Link)
		s.lastSent = entry.PublishedAt
	}

	// Pause between sends to stay under Telegram rate limits
	s.sleep(ctx, s.sendDelay)
}

func (s *Service) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
