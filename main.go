package main

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
	"github.com/wasin-t/tablevoice/agent/enrich"
	llmx "github.com/wasin-t/tablevoice/agent/llm"
	runtimex "github.com/wasin-t/tablevoice/agent/runtime"
	configx "github.com/wasin-t/tablevoice/pkg/config"
	_ "github.com/wasin-t/tablevoice/pkg/logger/autoload"
	restaurantx "github.com/wasin-t/tablevoice/store/restaurant"
)

type AppConfig struct {
	DefaultVoiceID     string `envconfig:"DEFAULT_VOICE_ID" split_words:"true"`
	RestaurantPhone    string `envconfig:"RESTAURANT_PHONE" split_words:"true"`
	MaxConcurrentCalls int    `envconfig:"MAX_CONCURRENT_CALLS" split_words:"true" default:"5"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("OPENAI")
	storeCfg := configx.MustNew[restaurantx.Config]("STORE")

	backends, err := llmx.NewBackendSet(*llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("reasoning backend init failed")
	}

	store, err := restaurantx.NewPGStore(*storeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer store.Close()

	// The menu cache must be warm before the worker accepts calls.
	menu := restaurantx.NewMenuCache(store)
	if err := menu.Warm(ctx); err != nil {
		log.Fatal().Err(err).Msg("menu cache warm-up failed")
	}

	load := runtimex.NewLoadTracker(appCfg.MaxConcurrentCalls)
	worker, err := runtimex.NewWorker(
		backends.Base(),
		store,
		menu,
		enrich.New(store),
		load,
		runtimex.WithVariantBackends(backends.For),
		runtimex.WithRestaurantPhone(appCfg.RestaurantPhone),
		runtimex.WithAgentObserver(func(callID string, agent contractx.AgentName) {
			log.Info().Str("call_id", callID).Str("agent", string(agent)).Msg("active agent changed")
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("worker init failed")
	}

	log.Info().
		Str("model", llmCfg.Model).
		Str("voice", appCfg.DefaultVoiceID).
		Int("menu_items", menu.Len()).
		Float64("load", worker.Load()).
		Msg("restaurant assistant ready")
}
