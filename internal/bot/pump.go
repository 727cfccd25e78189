package bot

import (
	"context"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/DanMarqz/Cryptocat/pkg/metrics"
)

// pump fans updates from one long-poll session out to per-kind lanes:
// messages feed the command lane, callback queries feed the interaction
// lane. The lanes are consumed by independent goroutines, so a slow price
// refresh never delays a command reply. Within one lane updates are handled
// in arrival order; across lanes no ordering is guaranteed or needed.
type pump struct {
	commands     chan telebot.Update
	interactions chan telebot.Update
	log          *slog.Logger
}

func newPump(buffer int, log *slog.Logger) *pump {
	if buffer <= 0 {
		buffer = 100
	}
	if log == nil {
		log = slog.Default()
	}

	return &pump{
		commands:     make(chan telebot.Update, buffer),
		interactions: make(chan telebot.Update, buffer),
		log:          log,
	}
}

// run classifies updates until ctx is canceled or the source closes, then
// closes both lanes so consumers drain and exit.
func (p *pump) run(ctx context.Context, updates <-chan telebot.Update) {
	defer close(p.commands)
	defer close(p.interactions)

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if !p.route(u) {
				metrics.RecordDiscardedUpdate()
				p.log.Debug("discarding update of unhandled kind", slog.Int("update_id", u.ID))
			}
		}
	}
}

// route places one update on its lane. Reports false when no lane consumes
// the update's kind.
func (p *pump) route(u telebot.Update) bool {
	switch {
	case u.Callback != nil:
		p.interactions <- u
		return true
	case u.Message != nil:
		p.commands <- u
		return true
	default:
		return false
	}
}

// consume drains one lane, invoking process for each update. It returns once
// the lane is closed and empty.
func consume(wg *sync.WaitGroup, lane <-chan telebot.Update, process func(telebot.Update)) {
	defer wg.Done()

	for u := range lane {
		process(u)
	}
}
