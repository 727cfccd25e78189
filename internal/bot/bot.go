package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/DanMarqz/Cryptocat/internal/bot/handlers"
	"github.com/DanMarqz/Cryptocat/internal/bot/keyboard"
	"github.com/DanMarqz/Cryptocat/internal/dedup"
	apperrors "github.com/DanMarqz/Cryptocat/internal/errors"
	"github.com/DanMarqz/Cryptocat/internal/quote"
	"github.com/DanMarqz/Cryptocat/pkg/config"
)

// Bot wraps telebot.Bot with the application wiring: router, handlers, and
// the dual-lane update pump. The underlying telebot handle is safe for
// concurrent use by both lanes.
type Bot struct {
	tb     *telebot.Bot
	log    *slog.Logger
	cfg    config.Config
	router *Router
}

// New builds a Telegram bot instance configured according to the
// application settings.
func New(
	cfg config.Config,
	log *slog.Logger,
	fetcher quote.Fetcher,
	dedupStore dedup.Store,
	errHandler *apperrors.Handler,
) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token: cfg.Bot.Token,
		Poller: &telebot.LongPoller{
			Timeout:        cfg.Bot.PollTimeout,
			AllowedUpdates: []string{"message", "callback_query"},
		},
		// handler execution belongs to the lane goroutines, not to telebot
		Synchronous: true,
		OnError: func(err error, _ telebot.Context) {
			log.Error("telebot error", slog.Any("error", apperrors.NewPollError(err)))
		},
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	router := NewRouter(log)
	router.Use(RecoveryMiddleware(log, errHandler))
	router.Use(DedupMiddleware(dedupStore, cfg.Bot.DedupTTL, log))
	router.Use(ErrorHandlingMiddleware(errHandler, log))
	router.Use(LoggingMiddleware(log))
	router.Use(MetricsMiddleware)

	router.RegisterCommand(CommandInfo, handlers.NewInfoHandler(cfg.App))
	router.RegisterCommand(CommandHelp, handlers.NewHelpHandler(HelpText()))
	router.RegisterCommand(CommandGetPrice, handlers.NewPriceHandler(fetcher, errHandler, log))
	router.RegisterCallback(keyboard.RefreshAction, handlers.NewRefreshHandler(fetcher, errHandler, log))

	b := &Bot{
		tb:     tb,
		log:    log,
		cfg:    cfg,
		router: router,
	}

	tb.Handle(telebot.OnText, router.Route)
	tb.Handle(telebot.OnCallback, router.Route)

	return b, nil
}

// Start runs the update pump and both handler lanes, blocking until ctx is
// canceled and the lanes have drained.
func (b *Bot) Start(ctx context.Context) {
	if b.cfg.Bot.DropPending {
		if err := b.dropPendingUpdates(); err != nil {
			b.log.Warn("failed to drop pending updates", slog.Any("error", err))
		}
	}

	updates := make(chan telebot.Update, b.cfg.Bot.UpdateBuffer)
	stop := make(chan struct{})

	var pollWG sync.WaitGroup
	pollWG.Add(1)
	go func() {
		defer pollWG.Done()
		b.tb.Poller.Poll(b.tb, updates, stop)
	}()

	p := newPump(b.cfg.Bot.UpdateBuffer, b.log)

	var laneWG sync.WaitGroup
	laneWG.Add(2)
	go consume(&laneWG, p.commands, b.process)
	go consume(&laneWG, p.interactions, b.process)

	b.log.Info("bot started",
		slog.Duration("poll_timeout", b.cfg.Bot.PollTimeout),
		slog.Bool("drop_pending", b.cfg.Bot.DropPending),
	)

	p.run(ctx, updates)

	close(stop)
	drainUpdates(updates, &pollWG)
	laneWG.Wait()

	b.log.Info("bot stopped")
}

// Telebot exposes the underlying telebot.Bot instance for integrations such
// as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.tb
}

func (b *Bot) process(u telebot.Update) {
	b.tb.ProcessUpdate(u)
}

// drainUpdates discards the remaining backlog until the poller goroutine
// exits, then closes the channel. The long poller checks its stop channel
// only between batches and delivers each update with a plain blocking send,
// so with a full buffer it stays parked on that send until someone keeps
// receiving.
func drainUpdates(updates chan telebot.Update, pollWG *sync.WaitGroup) {
	go func() {
		pollWG.Wait()
		close(updates)
	}()

	for range updates {
	}
}

// dropPendingUpdates discards the backlog accumulated while the bot was
// down, so a restart never replays stale button presses. It asks Telegram
// for the most recent update only and advances the poller offset past it.
func (b *Bot) dropPendingUpdates() error {
	lp, ok := b.tb.Poller.(*telebot.LongPoller)
	if !ok {
		return nil
	}

	payload := map[string]string{
		"offset":  "-1",
		"limit":   "1",
		"timeout": "0",
	}

	data, err := b.tb.Raw("getUpdates", payload)
	if err != nil {
		return fmt.Errorf("request latest update: %w", err)
	}

	var resp struct {
		Result []telebot.Update `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode getUpdates response: %w", err)
	}

	if n := len(resp.Result); n > 0 {
		lp.LastUpdateID = resp.Result[n-1].ID
		b.log.Info("dropped pending updates", slog.Int("last_update_id", lp.LastUpdateID))
	}

	return nil
}
