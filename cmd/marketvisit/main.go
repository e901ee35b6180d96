package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/smnshzh/MarketVisit/internal/logger"
	"github.com/smnshzh/MarketVisit/pkg/api"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer logger.Close()

	c := newCLI(os.Stdout)
	err := newRootCmd(c).ExecuteContext(ctx)
	return errors.Join(err, c.close())
}

// errorText renders err for the terminal. Backend failures carry a message
// meant for the user and are printed as-is.
func errorText(err error) string {
	if apiErr, ok := api.AsError(err); ok {
		return apiErr.Message
	}
	return fmt.Sprintf("marketvisit: %v", err)
}
