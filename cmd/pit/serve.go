package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rybkr/pit/internal/pitcore"
	"github.com/rybkr/pit/internal/server"
)

const defaultServeAddr = "127.0.0.1:7420"

func runServe(repo *pitcore.Repository, args []string) int {
	addr := defaultServeAddr
	for i := 0; i < len(args); i++ {
		if args[i] == "--addr" && i+1 < len(args) {
			addr = args[i+1]
			i++
		}
	}

	srv := server.New(repo, addr)

	// Serve until interrupted, then drain connections.
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil {
			return fatal(err)
		}
		return 0
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fatal(err)
		}
		fmt.Println("Shut down.")
		return 0
	}
}
