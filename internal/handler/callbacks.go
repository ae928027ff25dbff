package handler

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// callbackKey names the button behind a callback. Telebot fills Unique only
// for registered buttons, so raw data such as "\fcancel|payload" or a bare
// "cancel" is reduced to the same key here.
func callbackKey(callback *tele.Callback) string {
	if callback.Unique != "" {
		return callback.Unique
	}
	data := strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(callback.Data))
	key, _, _ := strings.Cut(data, "|")
	return key
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Message was already edited by an earlier tap on the same button
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles callback queries not matched by a registered button
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	key := callbackKey(callback)
	if key == btnCancel.Unique {
		return h.handleCancel(c)
	}

	h.logger.Warn("Unhandled callback",
		zap.String("key", key),
		zap.Int64("user_id", c.Sender().ID),
	)
	return c.Respond()
}

// handleCancel abandons the credential dialogue and removes the Cancel button
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID

	replies, err := h.router.Cancel(context.Background(), userID)
	if err != nil {
		h.logger.Error("Failed to cancel dialogue", zap.Int64("user_id", userID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: errorText})
	}
	if len(replies) == 0 {
		return c.Respond()
	}

	if err := c.Edit(replies[0].Text, tele.ModeHTML); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return h.sendReplies(c, replies)
	}
	if err := c.Respond(); err != nil {
		return err
	}
	return h.sendReplies(c, replies[1:])
}
