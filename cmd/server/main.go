package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/twitblob/twitblob/blobs"
	blobsredisrepo "github.com/twitblob/twitblob/blobs/redisrepo"
	"github.com/twitblob/twitblob/internal/config"
	"github.com/twitblob/twitblob/server"
	"github.com/twitblob/twitblob/token"
	tokenredisrepo "github.com/twitblob/twitblob/token/redisrepo"
	"github.com/twitblob/twitblob/twitter"
	"github.com/twitblob/twitblob/twitter/requesttokenrepo"
)

const (
	redisDialTimeout  = 5 * time.Second
	redisReadTimeout  = 3 * time.Second
	redisWriteTimeout = 3 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	displayAppname(cfg.AppName)

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           cfg.RedisDB,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisReadTimeout,
		WriteTimeout: redisWriteTimeout,
	})
	defer client.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}

	tokens := token.NewStore(tokenredisrepo.New(client),
		token.WithLifetime(cfg.TokenLifetime),
	)
	blobService := blobs.NewService(blobsredisrepo.New(client))
	provider := twitter.NewClient(cfg.ConsumerKey, cfg.ConsumerSecret)

	var options []server.Option
	if cfg.FeedbackEnabled {
		options = append(options, server.WithFeedbackSink(server.NewRedisFeedbackSink(client)))
	}

	srv := &http.Server{
		Addr: cfg.ListenAddr(),
		Handler: server.New(cfg, tokens, blobService, provider,
			requesttokenrepo.NewRedisRepo(client), options...),
	}
	go listenAndServe(srv)
	waitForStopSignal()
	return shutdown(srv)
}

func listenAndServe(srv *http.Server) {
	log.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
