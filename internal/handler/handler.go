package handler

import (
	"gradebot/internal/domain"
	"gradebot/internal/middleware"
	"gradebot/internal/router"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const errorText = "⚠️ Something went wrong. Please try again later."

// Handler connects the Telegram bot to the router
type Handler struct {
	bot    *tele.Bot
	router *router.Router
	logger *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, r *router.Router, logger *zap.Logger) *Handler {
	return &Handler{
		bot:    bot,
		router: r,
		logger: logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(middleware.RequireSender(h.logger), middleware.Logger(h.logger))

	// Commands and button labels go through the router as plain text,
	// so a pending credential always wins over command handling
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnCancel, h.handleCancel)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// Inline keyboard buttons
var (
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(router.LabelGrades), menu.Text(router.LabelHelp)),
	)
	return menu
}

// cancelMarkup returns the inline keyboard attached to credential prompts
func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}

// replyOptions maps a reply to telebot send options
func replyOptions(reply domain.Reply) []interface{} {
	opts := []interface{}{tele.ModeHTML}
	switch {
	case reply.Cancelable:
		opts = append(opts, cancelMarkup())
	case reply.Menu:
		opts = append(opts, mainMenuMarkup())
	}
	return opts
}

func (h *Handler) sendReplies(c tele.Context, replies []domain.Reply) error {
	for _, reply := range replies {
		if err := c.Send(reply.Text, replyOptions(reply)...); err != nil {
			return err
		}
	}
	return nil
}
