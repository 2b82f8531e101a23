package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/adhikareeprayush/TechCrunch-News-Bot/internal/shared/config"
	errs "github.com/adhikareeprayush/TechCrunch-News-Bot/internal/shared/errors"
	"github.com/go-telegram/bot"
	"github.com/samber/oops"
)

// Service delivers messages to the configured Telegram chat
type Service struct {
	cfg *config.Config
	bot *bot.Bot
}

// New creates a new notify service
func New(cfg *config.Config, b *bot.Bot) *Service {
	return &Service{
		cfg: cfg,
		bot: b,
	}
}

// Send delivers a single text message. Each send is independent; the caller
// decides whether a failure stops anything.
func (s *Service) Send(ctx context.Context, text string) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.cfg.ChatID,
		Text:   text,
	})
	if err != nil {
		return oops.With("chat_id", s.cfg.ChatID).Wrap(errors.Join(errs.ErrNotify, err))
	}

	slog.Debug("Message sent", "chat_id", s.cfg.ChatID)
	return nil
}
