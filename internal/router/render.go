package router

import (
	"fmt"
	"html"
	"strings"

	"gradebot/internal/domain"
)

const (
	helpText = "❓ <b>Help</b>\n\n" +
		"Tap " + LabelGrades + " and I will log in to the student portal and bring your grades here.\n\n" +
		"The first time I will ask for your portal username and password. " +
		"They are kept in memory only until the bot restarts.\n\n" +
		"/grades - show grades\n" +
		"/logout - forget stored portal credentials\n" +
		"/help - this message"

	usernamePrompt = "👤 Enter your portal username:"
	passwordPrompt = "🔑 Enter your portal password:"

	cancelText = "❌ Cancelled."
	logoutText = "🚪 Stored portal credentials removed. You will be asked for them on the next request."

	authFailedText = "⚠️ The portal did not accept the login. " +
		"Check your username and password, or try again later if the portal is down.\n\n" +
		"Use /logout to enter new credentials."
	missingCredentialsText = "⚠️ Portal credentials are missing. Tap " + LabelGrades + " to enter them."
	portalErrorText        = "⚠️ Could not reach the student portal. Please try again later."
	portalPageErrorText    = "⚠️ The student portal sent a page I could not read. Please try again later."

	noTableText = "📭 No grades found. The portal page did not contain a grades table."
	emptyText   = "📭 No grades found. No grades have been published yet."
)

func welcomeReply(firstName string) domain.Reply {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return domain.Reply{
		Text: fmt.Sprintf("👋 Hi, %s!\n\nI fetch your grades from the student portal.\nTap %s to begin.",
			html.EscapeString(name), LabelGrades),
		Menu: true,
	}
}

func mainMenuReply() domain.Reply {
	return domain.Reply{Text: "🏠 Main menu\n\nChoose an action:", Menu: true}
}

func reportReply(report domain.GradeReport) domain.Reply {
	switch report.Status {
	case domain.ReportNoTable:
		return domain.Reply{Text: noTableText, Menu: true}
	case domain.ReportEmpty:
		return domain.Reply{Text: emptyText, Menu: true}
	}

	var b strings.Builder
	b.WriteString("📊 <b>Your grades</b>\n")
	for _, record := range report.Records {
		b.WriteString("\n<b>")
		b.WriteString(html.EscapeString(record.Course))
		b.WriteString("</b>: ")
		b.WriteString(html.EscapeString(record.Grade))
		if record.Semester != "" {
			b.WriteString(" (")
			b.WriteString(html.EscapeString(record.Semester))
			b.WriteString(")")
		}
	}
	return domain.Reply{Text: b.String(), Menu: true}
}
