package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
)

type Config struct {
	BaseURL             string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey              string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model               string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionTokens int           `envconfig:"MAX_COMPLETION_TOKENS" split_words:"true" default:"2000"`
	Temperature         float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout             time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`

	// Per-variant overrides. Empty model or negative temperature falls back
	// to the base values above.
	IntentModel            string  `envconfig:"INTENT_MODEL" split_words:"true"`
	OrderModel             string  `envconfig:"ORDER_MODEL" split_words:"true"`
	ReservationModel       string  `envconfig:"RESERVATION_MODEL" split_words:"true"`
	ConfirmerModel         string  `envconfig:"CONFIRMER_MODEL" split_words:"true"`
	IntentTemperature      float64 `envconfig:"INTENT_TEMPERATURE" split_words:"true" default:"-1"`
	OrderTemperature       float64 `envconfig:"ORDER_TEMPERATURE" split_words:"true" default:"-1"`
	ReservationTemperature float64 `envconfig:"RESERVATION_TEMPERATURE" split_words:"true" default:"-1"`
	ConfirmerTemperature   float64 `envconfig:"CONFIRMER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: reasoning backend api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: reasoning backend model is required", contractx.ErrValidation)
	}
	return nil
}

// ForAgent resolves the model and temperature for one agent variant. An
// unset override (empty model, negative temperature) yields the base value.
func (c Config) ForAgent(name contractx.AgentName) (string, float64) {
	model := strings.TrimSpace(c.Model)
	temp := c.Temperature

	var overrideModel string
	overrideTemp := -1.0
	switch name {
	case contractx.AgentIntentClassifier:
		overrideModel, overrideTemp = c.IntentModel, c.IntentTemperature
	case contractx.AgentOrderTaker:
		overrideModel, overrideTemp = c.OrderModel, c.OrderTemperature
	case contractx.AgentReservationTaker:
		overrideModel, overrideTemp = c.ReservationModel, c.ReservationTemperature
	case contractx.AgentConfirmer:
		overrideModel, overrideTemp = c.ConfirmerModel, c.ConfirmerTemperature
	}

	if v := strings.TrimSpace(overrideModel); v != "" {
		model = v
	}
	if overrideTemp >= 0 {
		temp = overrideTemp
	}
	return model, temp
}
