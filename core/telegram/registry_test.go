package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/recruitbot/core/telegram/commands"
)

func TestRegistryCommands(t *testing.T) {
	noop := func(tele.Context) error { return nil }

	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start", Aliases: []string{"begin"}})
	reg.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "Stats", AdminOnly: true, Hidden: true})

	if got := len(reg.Commands()); got != 2 {
		t.Fatalf("expected 2 commands, got %d", got)
	}
	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "start" {
		t.Fatalf("unexpected visible commands: %+v", visible)
	}
	key, _, ok := reg.LookupCommand("begin")
	if !ok || key != "/start" {
		t.Fatalf("alias lookup failed: key=%q ok=%v", key, ok)
	}
	if _, _, ok := reg.LookupCommand("/unknown"); ok {
		t.Fatalf("unexpected lookup hit")
	}
}

func TestRegistrySkipsBadRegistrationsBeforeLoggerInit(t *testing.T) {
	noop := func(tele.Context) error { return nil }

	reg := NewRegistry()
	reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "Start"})
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start"})
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Again"})

	cmds := reg.Commands()
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmds))
	}
	if cmds["/start"].Description != "Start" {
		t.Fatalf("duplicate replaced the first registration: %+v", cmds["/start"])
	}
}
