package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"page_objects/infrastructure/browser"
	"page_objects/presentation/terminal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := terminal.NewRootCommand(browser.Open, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
