package dialog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m3rciful/recruitbot/internal/i18n"
)

func TestMemoryStoreGetOrCreate(t *testing.T) {
	s := NewMemoryStore()
	sess := s.GetOrCreate(5)
	assert.Equal(t, NewSession(5), sess)
	assert.Equal(t, 1, s.Len())

	s.GetOrCreate(5)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreUpdatePinsUserID(t *testing.T) {
	s := NewMemoryStore()
	got := s.Update(9, func(sess Session) Session {
		sess.UserID = 100
		sess.Step = MainMenu
		sess.Language = i18n.English
		return sess
	})
	assert.Equal(t, int64(9), got.UserID)
	assert.Equal(t, got, s.GetOrCreate(9))
}

func TestMemoryStoreResetAndRestart(t *testing.T) {
	s := NewMemoryStore()
	s.Update(1, func(sess Session) Session {
		sess.Step = AskDriver
		sess.Language = i18n.Russian
		sess.Answers.Name = "Ivan"
		return sess.withPrevious(AskCityZip)
	})

	reset := s.Reset(1, i18n.Russian)
	assert.Equal(t, Session{UserID: 1, Step: MainMenu, Language: i18n.Russian}, reset)

	restarted := s.Restart(1)
	assert.Equal(t, NewSession(1), restarted)
	assert.Equal(t, restarted, s.GetOrCreate(1))
}

func TestMemoryStoreConcurrentUpdates(t *testing.T) {
	s := NewMemoryStore()
	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s.Update(1, func(sess Session) Session {
					sess.Answers.Name += "x"
					return sess
				})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, s.GetOrCreate(1).Answers.Name, workers*perWorker)
}
