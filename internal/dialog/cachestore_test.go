package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/recruitbot/internal/i18n"
)

func TestNewExpiringStoreWithoutTTLIsMemoryStore(t *testing.T) {
	_, ok := NewExpiringStore(0).(*memoryStore)
	assert.True(t, ok)
}

func TestExpiringStoreKeepsSessionsWithinTTL(t *testing.T) {
	s := NewExpiringStore(time.Hour)
	s.Update(3, func(sess Session) Session {
		sess.Step = AskName
		sess.Language = i18n.Spanish
		sess.Answers.Vacancy = "Conductor"
		return sess.withPrevious(ChooseVacancy)
	})

	got := s.GetOrCreate(3)
	assert.Equal(t, AskName, got.Step)
	assert.Equal(t, "Conductor", got.Answers.Vacancy)
	prev, ok := got.Previous()
	require.True(t, ok)
	assert.Equal(t, ChooseVacancy, prev)
	assert.Equal(t, 1, s.Len())

	reset := s.Reset(3, i18n.Spanish)
	assert.Equal(t, Session{UserID: 3, Step: MainMenu, Language: i18n.Spanish}, reset)
	assert.Equal(t, NewSession(3), s.Restart(3))
}

func TestExpiringStoreForgetsIdleSessions(t *testing.T) {
	s := NewExpiringStore(20 * time.Millisecond)
	s.Update(8, func(sess Session) Session {
		sess.Step = Confirm
		sess.Language = i18n.English
		return sess
	})
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, NewSession(8), s.GetOrCreate(8))
}
