// Package keyboard builds Telegram reply markups.
package keyboard

import tele "gopkg.in/telebot.v4"

// RemoveKeyboard returns a markup that hides the keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// ReplyButtons builds a resizable reply keyboard from rows of labels.
// Empty rows are skipped.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	keyboard := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		buttons := make([]tele.Btn, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, markup.Text(label))
		}
		keyboard = append(keyboard, markup.Row(buttons...))
	}
	markup.Reply(keyboard...)
	return markup
}

// OneTimeReplyButtons is ReplyButtons with the keyboard hidden after one press.
func OneTimeReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	markup := ReplyButtons(rows...)
	markup.OneTimeKeyboard = true
	return markup
}
