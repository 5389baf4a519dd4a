package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var addr = flag.String("addr", ":8080", "listen address")

// replyDelay is the cosmetic pause between the player's commit and the
// opponent's reply, so the board renders the player's move first.
var replyDelay = flag.Duration("reply-delay", 300*time.Millisecond, "pause before the opponent reply")

var sigint chan os.Signal

func waitShutdown(e *echo.Echo, idleConnsClosed chan<- interface{}) {
	defer close(idleConnsClosed)

	sigint = make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)
	defer signal.Stop(sigint)

	<-sigint
	log.Info("received shutdown signal")

	idleError("HTTP server shutdown:", e.Shutdown(context.Background()))
}

func listenAndServe(addr string, idleConnsClosed chan<- interface{}) {
	e := apiHandler()
	go waitShutdown(e, idleConnsClosed)

	e.Use(middleware.Logger())

	idleError("HTTP server end:", e.Start(addr))
}

// Open open.
func Open(addr string) {
	idleConnsClosed := make(chan interface{})
	go listenAndServe(addr, idleConnsClosed)
	<-idleConnsClosed
}

func idle() {
	idleError("game idle complete:", gameIdle())
	time.Sleep(time.Second)
}

// Close close.
func Close() error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func main() {
	flag.Parse()
	if err := dbConnect(); err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer func() {
		idleError("close server:", Close())
	}()
	go func() {
		for {
			idle()
		}
	}()
	Open(*addr)
}
