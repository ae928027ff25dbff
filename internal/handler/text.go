package handler

import (
	"context"

	"gradebot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages, commands included
func (h *Handler) handleText(c tele.Context) error {
	sender := c.Sender()

	in := domain.Inbound{
		SenderID:   sender.ID,
		SenderName: sender.FirstName,
		Text:       c.Text(),
	}
	if chat := c.Chat(); chat != nil {
		in.ChatID = chat.ID
	}

	replies, err := h.router.Route(context.Background(), in)
	if err != nil {
		h.logger.Error("Failed to route message", zap.Int64("user_id", sender.ID), zap.Error(err))
		return c.Send(errorText)
	}

	return h.sendReplies(c, replies)
}
