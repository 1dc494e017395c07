package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Run opens the gateway connection, starts background tasks and blocks until
// the process is asked to stop.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("open gateway connection: %w", err)
	}

	b.scheduler.Start()

	b.Logger.Info("bot is now running, press CTRL-C to exit",
		zap.Strings("prefixes", b.GetConfig().CommandPrefixes))
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}
