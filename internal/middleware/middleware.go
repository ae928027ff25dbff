package middleware

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// RequireSender drops updates that carry no user, such as channel posts
func RequireSender(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil {
				logger.Debug("Ignoring update without sender", zap.Int("update_id", c.Update().ID))
				return nil
			}
			return next(c)
		}
	}
}

// Logger logs every handled update. Message text is never logged.
func Logger(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			fields := []zap.Field{
				zap.Int("update_id", c.Update().ID),
				zap.String("kind", updateKind(c)),
			}
			if sender := c.Sender(); sender != nil {
				fields = append(fields, zap.Int64("user_id", sender.ID))
			}

			err := next(c)

			fields = append(fields, zap.Duration("duration", time.Since(start)))
			if err != nil {
				logger.Error("Failed to handle update", append(fields, zap.Error(err))...)
				return err
			}
			logger.Info("Update handled", fields...)
			return nil
		}
	}
}

func updateKind(c tele.Context) string {
	switch {
	case c.Callback() != nil:
		return "callback"
	case c.Message() != nil:
		return "message"
	default:
		return "other"
	}
}
