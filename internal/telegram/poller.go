package telegram

import (
	"context"
	"fmt"

	"sweetshop-bot/internal/bot"
	"sweetshop-bot/internal/logger"
	"sweetshop-bot/internal/metrics"
	"sweetshop-bot/internal/ratelimit"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tgbotapi "gopkg.in/telegram-bot-api.v4"
)

const pollTimeout = 60 // seconds

// Poller drives the Telegram long-polling loop: one goroutine pulls updates
// and hands each to the router. Per-owner exclusion lives in the router, so
// the loop itself stays sequential and simple.
type Poller struct {
	api     *tgbotapi.BotAPI
	router  *bot.Router
	limiter *ratelimit.PerUser
	stats   metrics.BotStats
}

func NewPoller(token string, router *bot.Router, limiter *ratelimit.PerUser) (*Poller, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	return &Poller{api: api, router: router, limiter: limiter}, nil
}

// Run blocks until ctx is cancelled or the update channel closes.
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout

	updates, err := p.api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("telegram updates: %w", err)
	}

	logger.L().Info("authorized on telegram", zap.String("account", p.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			p.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			p.handleUpdate(ctx, update)
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	p.stats.Received.Inc()

	// A panicking handler loses its own update only; the loop keeps polling.
	defer func() {
		if rec := recover(); rec != nil {
			p.stats.Errors.Inc()
			logger.L().Error("handler panic",
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", rec),
			)
		}
	}()

	in, chatID, callbackID, ok := toIncoming(update)
	if !ok {
		return
	}

	ctx = logger.WithRequestID(ctx, uuid.NewString())
	ctx = logger.WithOwnerID(ctx, in.UserID)
	log := logger.FromCtx(ctx)

	if callbackID != "" {
		defer p.ackCallback(log, callbackID)
	}

	if !p.limiter.Allow(in.UserID) {
		p.stats.Dropped.Inc()
		log.Warn("rate limited, dropping update", zap.Int("update_id", update.UpdateID))
		return
	}

	timer := metrics.StartTimer()
	reply, err := p.router.Handle(ctx, in)
	if err != nil {
		// The failing request's user gets no reply; the bot stays up.
		p.stats.Errors.Inc()
		log.Error("update handling failed", zap.Error(err))
		return
	}
	p.stats.Handled.Inc()
	log.Debug("update handled", zap.Duration("took", timer.Duration()))

	if _, err := p.api.Send(buildMessage(chatID, reply)); err != nil {
		log.Error("failed to send reply", zap.Error(err))
	}
}

// ackCallback stops the client's loading spinner on the pressed button.
func (p *Poller) ackCallback(log *zap.Logger, callbackID string) {
	if _, err := p.api.AnswerCallbackQuery(tgbotapi.NewCallback(callbackID, "")); err != nil {
		log.Warn("failed to answer callback query", zap.Error(err))
	}
}
