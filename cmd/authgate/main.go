package main

import (
	"context"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/remitwise/authgate/adapters/codec"
	"github.com/remitwise/authgate/adapters/events"
	"github.com/remitwise/authgate/adapters/ratelimit"
	"github.com/remitwise/authgate/adapters/store"
	"github.com/remitwise/authgate/adapters/verifier"
	"github.com/remitwise/authgate/config"
	"github.com/remitwise/authgate/ports"
	"github.com/remitwise/authgate/service"
	transport "github.com/remitwise/authgate/transport/http"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "authgate").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	sessionCodec, err := codec.NewAESCodec(cfg.SessionPassword)
	if err != nil {
		// A weak session password is a refusal to start, never a
		// silent fallback.
		log.Fatal().Err(err).Msg("invalid SESSION_PASSWORD")
	}

	wmLogger := watermill.NewStdLogger(false, false)

	var nonceStore ports.NonceStore
	var publisher message.Publisher

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse REDIS_URL")
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}

		nonceStore = store.NewRedisStore(redisClient)

		publisher, err = redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			wmLogger,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create redis publisher")
		}
		log.Info().Msg("using redis nonce store and event stream")
	} else {
		memStore := store.NewMemoryStore()
		defer memStore.Close()
		transport.RegisterNonceGauge(func() float64 { return float64(memStore.Len()) })
		nonceStore = memStore

		publisher = gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
		log.Warn().Msg("using in-memory nonce store; valid for a single instance only")
	}

	authService := service.NewAuthService(
		nonceStore,
		sessionCodec,
		verifier.NewEthVerifier(),
		events.NewWatermillPublisher(publisher),
		log,
		cfg.NonceTTL,
		cfg.SessionTTL,
	)

	limiter := ratelimit.NewFixedWindowLimiter(ratelimit.DefaultWindow)

	router := transport.SetupRouter(cfg, authService, limiter, log)

	log.Info().Str("addr", cfg.ListenAddr).Bool("production", cfg.Production).Msg("starting authgate")
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
