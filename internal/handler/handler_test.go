package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"

	"gradebot/internal/domain"
	"gradebot/internal/repository/memory"
	"gradebot/internal/router"
	"gradebot/internal/service"
	"gradebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type apiCall struct {
	method string
	params map[string]any
}

// fakeAPI records Bot API calls and answers each with a plain message
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (a *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&params)

	a.mu.Lock()
	a.calls = append(a.calls, apiCall{method: path.Base(r.URL.Path), params: params})
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":123,"type":"private"}}}`))
}

func (a *fakeAPI) takeCalls() []apiCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	calls := a.calls
	a.calls = nil
	return calls
}

type fixture struct {
	bot     *tele.Bot
	api     *fakeAPI
	stages  *memory.StageRepo
	users   *memory.UserRepo
	fetcher *testutil.MockGradeFetcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	bot, err := tele.NewBot(tele.Settings{
		URL:         srv.URL,
		Token:       "test-token",
		Offline:     true,
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			t.Errorf("handler error: %v", err)
		},
	})
	require.NoError(t, err)

	logger := testutil.NewTestLogger()
	users := memory.NewUserRepo()
	stages := memory.NewStageRepo()
	fetcher := new(testutil.MockGradeFetcher)

	conv := service.NewConversationService(users, stages, logger)
	grades := service.NewGradeService(users, fetcher, memory.NewFetchLogRepo(), logger)
	r := router.NewRouter(users, conv, grades, logger)

	NewHandler(bot, r, logger).RegisterHandlers()

	return &fixture{bot: bot, api: api, stages: stages, users: users, fetcher: fetcher}
}

func textUpdate(id int, text string) tele.Update {
	return tele.Update{
		ID: id,
		Message: &tele.Message{
			ID:     id,
			Sender: &tele.User{ID: 123, FirstName: "Alice"},
			Chat:   &tele.Chat{ID: 123, Type: tele.ChatPrivate},
			Text:   text,
		},
	}
}

func cancelUpdate(id int) tele.Update {
	return tele.Update{
		ID: id,
		Callback: &tele.Callback{
			ID:     "cb1",
			Sender: &tele.User{ID: 123, FirstName: "Alice"},
			Message: &tele.Message{
				ID:   5,
				Chat: &tele.Chat{ID: 123, Type: tele.ChatPrivate},
				Text: "👤 Enter your portal username:",
			},
			Data: "\fcancel",
		},
	}
}

func TestHandler_Start(t *testing.T) {
	f := newFixture(t)

	f.bot.ProcessUpdate(textUpdate(1, "/start"))

	calls := f.api.takeCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "sendMessage", calls[0].method)
	assert.Equal(t, "123", calls[0].params["chat_id"])
	assert.Equal(t, "HTML", calls[0].params["parse_mode"])
	assert.Contains(t, calls[0].params["text"], "Alice")

	markup, ok := calls[0].params["reply_markup"].(string)
	require.True(t, ok)
	assert.Contains(t, markup, router.LabelGrades)
	assert.Contains(t, markup, router.LabelHelp)

	_, found, err := f.users.Get(123)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestHandler_CredentialFlow(t *testing.T) {
	f := newFixture(t)
	report := testutil.NewTestReport(domain.GradeRecord{Course: "CS101", Grade: "A", Semester: "Sem1"})
	f.fetcher.On("FetchGrades", mock.Anything, "alice", "secret").Return(report, nil).Once()

	f.bot.ProcessUpdate(textUpdate(1, router.LabelGrades))
	calls := f.api.takeCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].params["reply_markup"], "inline_keyboard")

	f.bot.ProcessUpdate(textUpdate(2, "alice"))
	f.bot.ProcessUpdate(textUpdate(3, "secret"))

	calls = f.api.takeCalls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].params["text"], "CS101")
	f.fetcher.AssertExpectations(t)
}

func TestHandler_Cancel(t *testing.T) {
	f := newFixture(t)

	f.bot.ProcessUpdate(textUpdate(1, router.LabelGrades))
	f.api.takeCalls()

	f.bot.ProcessUpdate(cancelUpdate(2))

	calls := f.api.takeCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "editMessageText", calls[0].method)
	assert.Equal(t, "answerCallbackQuery", calls[1].method)

	stage, err := f.stages.GetStage(123)
	require.NoError(t, err)
	assert.Equal(t, domain.StageNone, stage)
}

func TestReplyOptions(t *testing.T) {
	tests := []struct {
		name           string
		reply          domain.Reply
		expectedInline bool
		expectedReply  bool
	}{
		{name: "plain", reply: domain.Reply{Text: "hi"}},
		{name: "menu", reply: domain.Reply{Text: "hi", Menu: true}, expectedReply: true},
		{name: "cancelable", reply: domain.Reply{Text: "hi", Cancelable: true}, expectedInline: true},
		{name: "cancelable wins", reply: domain.Reply{Text: "hi", Menu: true, Cancelable: true}, expectedInline: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := replyOptions(tt.reply)

			require.NotEmpty(t, opts)
			assert.Equal(t, tele.ModeHTML, opts[0])

			var markup *tele.ReplyMarkup
			for _, opt := range opts[1:] {
				if m, ok := opt.(*tele.ReplyMarkup); ok {
					markup = m
				}
			}
			if !tt.expectedInline && !tt.expectedReply {
				assert.Nil(t, markup)
				return
			}
			require.NotNil(t, markup)
			assert.Equal(t, tt.expectedInline, len(markup.InlineKeyboard) > 0)
			assert.Equal(t, tt.expectedReply, len(markup.ReplyKeyboard) > 0)
		})
	}
}

func TestMainMenuMarkup(t *testing.T) {
	markup := mainMenuMarkup()

	require.Len(t, markup.ReplyKeyboard, 1)
	require.Len(t, markup.ReplyKeyboard[0], 2)
	assert.Equal(t, router.LabelGrades, markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, router.LabelHelp, markup.ReplyKeyboard[0][1].Text)
	assert.True(t, markup.ResizeKeyboard)
}
