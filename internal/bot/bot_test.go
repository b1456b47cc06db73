package bot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"confession/internal/models"
	"confession/internal/status"
	"confession/internal/storage/stubs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminID = int64(1)
	userID  = int64(123)
	chatID  = int64(456)
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

// fakeSender records everything the bot sends to Telegram
type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error // returned by Send
	editErr  error // returned by Request for message edits
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	if _, ok := c.(tgbotapi.EditMessageTextConfig); ok && f.editErr != nil {
		return nil, f.editErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	require.NotEmpty(t, f.sent, "expected a sent message")
	msg, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	return msg
}

func (f *fakeSender) edits() []tgbotapi.EditMessageTextConfig {
	var out []tgbotapi.EditMessageTextConfig
	for _, r := range f.requests {
		if e, ok := r.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeSender) callbackAnswers() []tgbotapi.CallbackConfig {
	var out []tgbotapi.CallbackConfig
	for _, r := range f.requests {
		if c, ok := r.(tgbotapi.CallbackConfig); ok {
			out = append(out, c)
		}
	}
	return out
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *stubs.MockDB) {
	t.Helper()
	sender := &fakeSender{}
	db := stubs.NewMockDB()
	b := New(sender, db, status.New(), []int64{adminID}, zap.NewNop())
	b.now = func() time.Time { return now }
	return b, sender, db
}

var lastUpdateID atomic.Int64

// nextUpdateID hands out distinct ids the way Telegram does
func nextUpdateID() int {
	return int(lastUpdateID.Add(1))
}

func commandUpdate(from int64, text string) tgbotapi.Update {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return tgbotapi.Update{
		UpdateID: nextUpdateID(),
		Message: &tgbotapi.Message{
			From:     &tgbotapi.User{ID: from},
			Chat:     &tgbotapi.Chat{ID: chatID},
			Text:     text,
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
		},
	}
}

func callbackUpdate(from int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: nextUpdateID(),
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{ID: from},
			Message: &tgbotapi.Message{MessageID: 9, Chat: &tgbotapi.Chat{ID: chatID}},
			Data:    data,
		},
	}
}

func TestBot_Start(t *testing.T) {
	b, sender, db := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, b.HandleUpdate(ctx, commandUpdate(userID, "/start")))

	msg := sender.lastMessage(t)
	assert.Equal(t, chatID, msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, msg.ParseMode)
	assert.Contains(t, msg.Text, "Welcome to the Confession Bot")
	assert.NotNil(t, msg.ReplyMarkup)

	_, err := db.GetUserRanking(ctx, userID)
	assert.NoError(t, err, "start registers the user")
	assert.NotNil(t, b.status.Snapshot().LastActivity, "handled updates touch the status")
}

func TestBot_CheckIn(t *testing.T) {
	b, sender, db := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, b.HandleUpdate(ctx, commandUpdate(userID, "/checkin")))
	msg := sender.lastMessage(t)
	assert.Contains(t, msg.Text, "Daily check\\-in complete")
	assert.Contains(t, msg.Text, "First Steps")

	r, err := db.GetUserRanking(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(5+25), r.TotalPoints, "daily login plus first check-in achievement")
	assert.Equal(t, 1, r.ConsecutiveDays)
	assert.Equal(t, 1, r.CheckIns)

	require.NoError(t, b.HandleUpdate(ctx, commandUpdate(userID, "/checkin")))
	assert.Contains(t, sender.lastMessage(t).Text, "Already checked in today")

	r, err = db.GetUserRanking(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), r.TotalPoints, "second check-in on the same day awards nothing")

	// Three consecutive days earn the streak bonus and the streak achievement
	for day := 1; day <= 2; day++ {
		next := now.AddDate(0, 0, day)
		b.now = func() time.Time { return next }
		require.NoError(t, b.HandleUpdate(ctx, commandUpdate(userID, "/checkin")))
	}
	r, err = db.GetUserRanking(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, r.ConsecutiveDays)

	list, err := db.ListAchievements(ctx, userID, 0)
	require.NoError(t, err)
	keys := make([]string, 0, len(list))
	for _, a := range list {
		keys = append(keys, a.Key)
	}
	assert.ElementsMatch(t, []string{"first_checkin", "streak_3"}, keys)
}

func TestBot_Grant(t *testing.T) {
	b, sender, db := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, b.HandleUpdate(ctx, commandUpdate(userID, "/grant 77 1000")))
	assert.Contains(t, sender.lastMessage(t).Text, "admins only")
	_, err := db.GetUserRanking(ctx, 77)
	assert.Error(t, err)

	for _, bad := range []string{"/grant", "/grant 77", "/grant x 10", "/grant 77 0", "/grant 77 ten"} {
		require.NoError(t, b.HandleUpdate(ctx, commandUpdate(adminID, bad)))
		assert.Contains(t, sender.lastMessage(t).Text, "Usage: /grant", bad)
	}

	require.NoError(t, b.HandleUpdate(ctx, commandUpdate(adminID, "/grant 77 1000")))
	msg := sender.lastMessage(t)
	assert.Contains(t, msg.Text, "Granted *1,000* points")
	assert.Contains(t, msg.Text, "Point Collector")

	r, err := db.GetUserRanking(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, int64(1000+10+50), r.TotalPoints, "grant plus both point achievements")
}

func TestBot_Rank(t *testing.T) {
	b, sender, db := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, db.AddPoints(ctx, userID, 200, "admin_grant", now))
	require.NoError(t, b.HandleUpdate(ctx, commandUpdate(userID, "/rank")))

	msg := sender.lastMessage(t)
	assert.Contains(t, msg.Text, "*Sophomore*")
	assert.Contains(t, msg.Text, "Next: 100 points to go until Junior")
}

func TestBot_LeaderboardCommand(t *testing.T) {
	b, sender, db := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, b.HandleUpdate(ctx, commandUpdate(userID, "/leaderboard")))
	assert.Contains(t, sender.lastMessage(t).Text, "COMMUNITY LEADERBOARDS")

	require.NoError(t, db.AddPoints(ctx, userID, 40, "daily_login", now))
	require.NoError(t, b.HandleUpdate(ctx, commandUpdate(userID, "/leaderboard weekly")))
	text := sender.lastMessage(t).Text
	assert.Contains(t, text, "Weekly Leaderboard")
	assert.Contains(t, text, "🥇")
	assert.Contains(t, text, "*40* points")
}

func TestBot_Callbacks(t *testing.T) {
	b, sender, _ := newTestBot(t)
	ctx := context.Background()

	testCases := []struct {
		data string
		want string
	}{
		{"main_menu", "Welcome to the Confession Bot"},
		{"enhanced_rank_menu", "YOUR RANKING STATUS"},
		{"enhanced_achievements", "No achievements unlocked yet"},
		{"enhanced_stats", "DETAILED STATS"},
		{"enhanced_progress", "MY PROGRESS"},
		{"enhanced_point_guide", "POINT EARNING GUIDE"},
		{"achievement_guide", "ACHIEVEMENT GUIDE"},
		{"missing_achievements", "MISSING ACHIEVEMENTS"},
		{"enhanced_leaderboard", "COMMUNITY LEADERBOARDS"},
		{"leaderboard_stats", "LEADERBOARD STATS"},
		{"leaderboard_monthly", "Monthly Leaderboard"},
		{"enhanced_leaderboard_alltime", "All Time Leaderboard"},
	}

	for _, tc := range testCases {
		t.Run(tc.data, func(t *testing.T) {
			before := len(sender.edits())
			require.NoError(t, b.HandleUpdate(ctx, callbackUpdate(userID, tc.data)))

			edits := sender.edits()
			require.Len(t, edits, before+1)
			edit := edits[len(edits)-1]
			assert.Contains(t, edit.Text, tc.want)
			assert.Equal(t, 9, edit.MessageID)
			assert.Equal(t, tgbotapi.ModeMarkdownV2, edit.ParseMode)

			answers := sender.callbackAnswers()
			assert.Equal(t, "cb-1", answers[len(answers)-1].CallbackQueryID)
		})
	}
}

func TestBot_CallbackAnswersWithoutEdit(t *testing.T) {
	testCases := []struct {
		data string
		want string
	}{
		{"seasonal_competitions", "🚧 Coming soon!"},
		{"ranking_analytics", "🚧 Coming soon!"},
		{"leaderboard_seasonal", "🚧 Coming soon!"},
		{"leaderboard_daily", "❓ Unknown option"},
		{"bogus", "❓ Unknown option"},
	}

	for _, tc := range testCases {
		t.Run(tc.data, func(t *testing.T) {
			b, sender, _ := newTestBot(t)
			require.NoError(t, b.HandleUpdate(context.Background(), callbackUpdate(userID, tc.data)))

			assert.Empty(t, sender.edits())
			answers := sender.callbackAnswers()
			require.Len(t, answers, 1)
			assert.Equal(t, tc.want, answers[0].Text)
		})
	}
}

type failingDB struct {
	*stubs.MockDB
	panics bool
}

func (f *failingDB) GetUserRanking(ctx context.Context, userID int64) (*models.UserRanking, error) {
	if f.panics {
		panic("storage exploded")
	}
	return nil, errors.New("connection reset")
}

func TestBot_StorageErrorSendsGenericFailure(t *testing.T) {
	sender := &fakeSender{}
	b := New(sender, &failingDB{MockDB: stubs.NewMockDB()}, status.New(), nil, zap.NewNop())

	err := b.HandleUpdate(context.Background(), commandUpdate(userID, "/rank"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	msg := sender.lastMessage(t)
	assert.Equal(t, genericFailure, msg.Text)
	assert.NotContains(t, msg.Text, "connection reset")

	err = b.HandleUpdate(context.Background(), callbackUpdate(userID, "enhanced_stats"))
	require.Error(t, err)
	answers := sender.callbackAnswers()
	require.Len(t, answers, 1)
	assert.Equal(t, "❌ Something went wrong", answers[0].Text)
}

func TestBot_PanicIsRecovered(t *testing.T) {
	sender := &fakeSender{}
	b := New(sender, &failingDB{MockDB: stubs.NewMockDB(), panics: true}, status.New(), nil, zap.NewNop())

	var err error
	assert.NotPanics(t, func() {
		err = b.HandleUpdate(context.Background(), commandUpdate(userID, "/rank"))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage exploded")
}

func TestBot_IgnoresPlainText(t *testing.T) {
	b, sender, _ := newTestBot(t)

	update := tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: "hello there",
	}}
	require.NoError(t, b.HandleUpdate(context.Background(), update))
	require.NoError(t, b.HandleUpdate(context.Background(), tgbotapi.Update{}))
	assert.Empty(t, sender.sent)
}

func TestBot_StartWithoutClient(t *testing.T) {
	b, _, _ := newTestBot(t)
	assert.ErrorIs(t, b.Start(context.Background()), errNotConnected)
	assert.ErrorIs(t, b.StartWebhook("https://example.com", "secret"), errNotConnected)
}

func TestBot_RedeliveredUpdateIsSkipped(t *testing.T) {
	b, sender, db := newTestBot(t)
	sender.sendErr = errors.New("telegram: bad gateway")
	ctx := context.Background()

	update := commandUpdate(adminID, "/grant 77 1000")
	require.Error(t, b.HandleUpdate(ctx, update), "the reply failed after the grant was stored")

	r, err := db.GetUserRanking(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, int64(1060), r.TotalPoints)

	sent := len(sender.sent)
	require.NoError(t, b.HandleUpdate(ctx, update))
	assert.Len(t, sender.sent, sent, "a skipped update sends nothing")

	r, err = db.GetUserRanking(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, int64(1060), r.TotalPoints, "redelivery does not grant twice")
}

// flakyLedger fails every claim, like an unreachable Redis
type flakyLedger struct{ calls int }

func (f *flakyLedger) Claim(ctx context.Context, updateID int) (bool, error) {
	f.calls++
	return false, errors.New("redis: connection refused")
}

func TestBot_UpdateLedgerFallsBackToMemory(t *testing.T) {
	b, _, db := newTestBot(t)
	ledger := &flakyLedger{}
	b.UseUpdateLedger(ledger)
	ctx := context.Background()

	update := commandUpdate(adminID, "/grant 77 1000")
	require.NoError(t, b.HandleUpdate(ctx, update))
	require.NoError(t, b.HandleUpdate(ctx, update))
	assert.Equal(t, 2, ledger.calls)

	r, err := db.GetUserRanking(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, int64(1060), r.TotalPoints)
}

func TestRecentUpdates_EvictsOldest(t *testing.T) {
	r := newRecentUpdates(2)
	ctx := context.Background()

	for _, id := range []int{1, 2, 3} {
		fresh, err := r.Claim(ctx, id)
		require.NoError(t, err)
		assert.True(t, fresh)
	}
	fresh, _ := r.Claim(ctx, 3)
	assert.False(t, fresh)
	fresh, _ = r.Claim(ctx, 1)
	assert.True(t, fresh, "id 1 was evicted")
}

// slowDB widens the gap between reading a ranking and writing the check-in,
// the way a network round trip to ClickHouse does
type slowDB struct {
	*stubs.MockDB
}

func (s *slowDB) GetUserRanking(ctx context.Context, userID int64) (*models.UserRanking, error) {
	time.Sleep(5 * time.Millisecond)
	return s.MockDB.GetUserRanking(ctx, userID)
}

func TestBot_ConcurrentCheckInsCountOnce(t *testing.T) {
	sender := &fakeSender{}
	db := stubs.NewMockDB()
	b := New(sender, &slowDB{MockDB: db}, status.New(), []int64{adminID}, zap.NewNop())
	b.now = func() time.Time { return now }
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, b.HandleUpdate(ctx, commandUpdate(userID, "/checkin")))
		}()
	}
	wg.Wait()

	r, err := db.GetUserRanking(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, r.CheckIns)
	assert.Equal(t, int64(30), r.TotalPoints, "one daily login plus one first check-in achievement")

	list, err := db.ListAchievements(ctx, userID, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Zero(t, b.locks.size(), "released locks are dropped")
}

func TestBot_UnchangedEditIsNotAFailure(t *testing.T) {
	b, sender, _ := newTestBot(t)
	sender.editErr = &tgbotapi.Error{
		Code:    400,
		Message: "Bad Request: message is not modified: specified new message content and reply markup are exactly the same",
	}

	require.NoError(t, b.HandleUpdate(context.Background(), callbackUpdate(userID, "enhanced_point_guide")))
	answers := sender.callbackAnswers()
	require.Len(t, answers, 1)
	assert.Empty(t, answers[0].Text)

	sender.editErr = &tgbotapi.Error{Code: 400, Message: "Bad Request: message to edit not found"}
	require.Error(t, b.HandleUpdate(context.Background(), callbackUpdate(userID, "enhanced_point_guide")))
	answers = sender.callbackAnswers()
	assert.Equal(t, "❌ Something went wrong", answers[len(answers)-1].Text)
}

func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
