package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	telebot "gopkg.in/telebot.v3"

	"github.com/DanMarqz/Cryptocat/internal/bot/handlers"
	"github.com/DanMarqz/Cryptocat/internal/dedup"
	apperrors "github.com/DanMarqz/Cryptocat/internal/errors"
	"github.com/DanMarqz/Cryptocat/pkg/metrics"
)

// RecoveryMiddleware catches panics, reports them via the centralized
// handler, and notifies the user without letting the lane die.
func RecoveryMiddleware(log *slog.Logger, errHandler *apperrors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)

					userMsg := "Something went wrong. Please try again later."
					if errHandler != nil {
						appErr := apperrors.NewInternalError(fmt.Errorf("panic recovered: %v", r))
						if msg, _ := errHandler.Handle(context.Background(), appErr); msg != "" {
							userMsg = msg
						}
					}

					notifyUser(c, userMsg, log)
					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware converts handler errors into user-visible text.
// Errors never propagate past this boundary, so one failed update cannot
// terminate the owning lane.
func ErrorHandlingMiddleware(errHandler *apperrors.Handler, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			userMsg := "Something went wrong. Please try again later."
			if errHandler != nil {
				if msg, _ := errHandler.Handle(context.Background(), err); msg != "" {
					userMsg = msg
				}
			} else {
				log.Error("handler failed", slog.Any("error", err))
			}

			notifyUser(c, userMsg, log)
			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates, tagging
// each with a fresh correlation id.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			correlationID := uuid.NewString()

			userID := int64(0)
			if c != nil && c.Sender() != nil {
				userID = c.Sender().ID
			}

			log.Info("handling update",
				slog.String("correlation_id", correlationID),
				slog.Int64("user_id", userID),
				slog.String("action", updateAction(c)),
			)

			err := next(c)

			log.Info("handled update",
				slog.String("correlation_id", correlationID),
				slog.Int64("user_id", userID),
				slog.String("action", updateAction(c)),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// MetricsMiddleware reports handling time and status to Prometheus, split by
// update kind.
func MetricsMiddleware(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		if c != nil && c.Callback() != nil {
			metrics.RecordCallback(updateAction(c), status, time.Since(start))
		} else {
			metrics.RecordCommand(updateAction(c), status, time.Since(start))
		}

		return err
	}
}

// DedupMiddleware enforces at-most-one handler invocation per update. Store
// failures fail open: a price refresh handled twice is cheaper than one
// dropped on a Redis hiccup.
func DedupMiddleware(store dedup.Store, ttl time.Duration, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			key := updateKey(c)
			if store == nil || key == "" {
				return next(c)
			}

			claimed, err := store.Claim(context.Background(), key, ttl)
			if err != nil {
				log.Warn("dedup store unavailable", slog.String("key", key), slog.Any("error", err))
				return next(c)
			}

			if !claimed {
				metrics.RecordDuplicateUpdate()
				log.Info("skipping redelivered update", slog.String("key", key))
				return nil
			}

			return next(c)
		}
	}
}

// updateKey derives a stable identity for an update: the callback query id
// for button presses, chat and message ids for messages.
func updateKey(c telebot.Context) string {
	if c == nil {
		return ""
	}

	if cb := c.Callback(); cb != nil {
		if cb.ID != "" {
			return "cb:" + cb.ID
		}
		return ""
	}

	if msg := c.Message(); msg != nil && msg.ID != 0 {
		chatID := int64(0)
		if msg.Chat != nil {
			chatID = msg.Chat.ID
		}
		return fmt.Sprintf("msg:%d:%d", chatID, msg.ID)
	}

	return ""
}

func updateAction(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil && cb.Data != "" {
		return strings.TrimPrefix(cb.Data, "\f")
	}

	if text := c.Text(); text != "" {
		return strings.Fields(text)[0]
	}

	return "unknown"
}

// notifyUser sends failure text over the channel matching the update kind: a
// transient callback notice for button presses, a chat reply otherwise.
func notifyUser(c telebot.Context, text string, log *slog.Logger) {
	if c == nil {
		return
	}

	if c.Callback() != nil {
		if err := c.Respond(&telebot.CallbackResponse{Text: text}); err != nil {
			log.Error("failed to respond to callback", slog.Any("error", apperrors.NewAckError(err)))
		}
		return
	}

	if err := c.Send(text); err != nil {
		log.Error("failed to notify user", slog.Any("error", apperrors.NewDispatchError(err)))
	}
}
