// Command recruitbot runs the recruiting Telegram bot.
package main

import (
	"log"

	"github.com/m3rciful/recruitbot/core/cmd"
	"github.com/m3rciful/recruitbot/internal/app"
)

func main() {
	if err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        app.Load,
		Bootstrap:         app.Bootstrap,
	}); err != nil {
		log.Fatal(err)
	}
}
