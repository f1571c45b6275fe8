// Command callbridge fetches URLs through the callbridge dispatcher.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, errFetchFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return 1
}
