// Package commands describes slash commands registered with the bot.
package commands

import (
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Command is a slash command and its metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// AdminOnly commands are rejected for everyone but the configured admin.
	AdminOnly bool
	// Hidden commands are left out of the Telegram command menu.
	Hidden  bool
	Aliases []string
}

// Public reports whether the command belongs in the command menu.
func (c Command) Public() bool {
	return !c.Hidden && !c.AdminOnly
}

// Validate checks that name and c can be registered.
func (c Command) Validate(name string) error {
	switch {
	case !strings.HasPrefix(name, "/") || len(name) < 2:
		return errors.New("no_slash_prefix")
	case c.Handler == nil:
		return errors.New("nil_handler")
	case strings.TrimSpace(c.Description) == "":
		return errors.New("no_description")
	}
	return nil
}
