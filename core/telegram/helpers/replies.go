package helpers

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const repliesKey = "replies"

// Replies counts the replies requested while one update is handled. Sends
// are asynchronous, so this counts requests, not deliveries.
type Replies struct {
	n  atomic.Int32
	kb atomic.Bool
}

// TrackReplies installs a fresh counter on c.
func TrackReplies(c tele.Context) *Replies {
	r := &Replies{}
	c.Set(repliesKey, r)
	return r
}

// RepliesFrom returns the counter installed on c, or nil.
func RepliesFrom(c tele.Context) *Replies {
	r, _ := c.Get(repliesKey).(*Replies)
	return r
}

func (r *Replies) note(keyboard bool) {
	if r == nil {
		return
	}
	r.n.Add(1)
	if keyboard {
		r.kb.Store(true)
	}
}

// Count returns the number of replies and whether any carried a keyboard.
func (r *Replies) Count() (int, bool) {
	if r == nil {
		return 0, false
	}
	return int(r.n.Load()), r.kb.Load()
}
