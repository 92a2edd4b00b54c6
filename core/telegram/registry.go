package telegram

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/logger"
	"github.com/m3rciful/recruitbot/core/telegram/commands"
)

// Registry holds bot commands and the text fallback.
type Registry struct {
	mu           sync.RWMutex
	commands     map[string]commands.Command
	textFallback tele.HandlerFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]commands.Command)}
}

// RegisterCommand adds a new command. Invalid or duplicate registrations are logged and skipped.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	if err := cmd.Validate(name); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("cause", err.Error()),
		)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.commands[name] = cmd
}

// ListCommands returns commands sorted by name, optionally without hidden and admin-only ones.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []tele.Command
	for cmd, meta := range r.commands {
		if visibleOnly && !meta.Public() {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(cmd, "/"), Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand finds a command by name or alias and returns its canonical key.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name || "/"+alias == name {
				return key, cmd, true
			}
		}
	}
	return "", commands.Command{}, false
}

// Commands returns a copy of all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]commands.Command, len(r.commands))
	for k, v := range r.commands {
		out[k] = v
	}
	return out
}

// SetTextFallback sets a global fallback handler for unknown text messages.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	r.textFallback = h
	r.mu.Unlock()
}

// TextFallback returns the current text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.textFallback
}

// InitBotCommands publishes the visible commands to the Telegram command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if len(list) == 0 {
		return
	}
	if err := bot.SetCommands(list); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			logger.ErrAttr(err),
		)
		return
	}
	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "register.commands.set",
		slog.Int("commands", len(list)),
	)
}
