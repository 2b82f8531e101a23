package di

import (
	"context"
	"net/http"
	"time"

	feedService "github.com/adhikareeprayush/TechCrunch-News-Bot/internal/modules/feed/service"
	notifyService "github.com/adhikareeprayush/TechCrunch-News-Bot/internal/modules/notify/service"
	watchService "github.com/adhikareeprayush/TechCrunch-News-Bot/internal/modules/watch/service"
	"github.com/adhikareeprayush/TechCrunch-News-Bot/internal/shared/config"
	httpServer "github.com/adhikareeprayush/TechCrunch-News-Bot/internal/transport/http"
	"github.com/go-telegram/bot"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Service names for dependency injection
const (
	ServiceConfig     = "config"
	ServiceFeed       = "feed-service"
	ServiceNotify     = "notify-service"
	ServiceWatcher    = "watch-service"
	ServiceHTTPServer = "http-server"
	ServiceBot        = "bot"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedService.New(cfg), nil
	})

	// Register Bot
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)

		timeout := time.Duration(cfg.HTTPTimeout) * time.Second

		// The bot only sends; skip the getMe round trip at startup and
		// bound every API call with the configured timeout
		opts := []bot.Option{
			bot.WithSkipGetMe(),
			bot.WithServerURL(cfg.TelegramAPIURL),
			bot.WithHTTPClient(timeout, &http.Client{Timeout: timeout}),
		}

		b, err := bot.New(cfg.BotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		return b, nil
	})

	// Register Notify Service
	do.Provide(injector, func(i do.Injector) (*notifyService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		b := do.MustInvoke[*bot.Bot](i)
		return notifyService.New(cfg, b), nil
	})

	// Register Watch Service
	do.Provide(injector, func(i do.Injector) (*watchService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feed := do.MustInvoke[*feedService.Service](i)
		notify := do.MustInvoke[*notifyService.Service](i)
		return watchService.New(cfg, feed, notify), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		watcher := do.MustInvoke[*watchService.Service](i)
		return httpServer.New(cfg, watcher), nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// Stop the poll loop before closing the bot it sends through
	if watcher, err := do.Invoke[*watchService.Service](injector); err == nil && watcher != nil {
		watcher.Stop()
	}

	// Close the bot if it was created
	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	return nil
}
