package internal

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Config struct {
	BufferSize      int           `env:"BUFFER_SIZE,default=256" validate:"min=1"`
	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"min=1ms"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"min=1ms"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=5s" validate:"min=1s"`

	LogLevel       string `env:"LOG_LEVEL,default=INFO" validate:"required"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true" validate:"required"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true" validate:"required"`
	DebugPort      int    `env:"DEBUG_PORT,default=8099" validate:"min=1,max=65535"`

	// Board limits. The defaults are the contract; overriding them is for
	// lab configurations only.
	CooldownTicks   uint64 `env:"COOLDOWN_TICKS,default=30" validate:"min=1"`
	MaxContentBytes int    `env:"MAX_CONTENT_BYTES,default=280" validate:"min=1"`

	LimitRecords *int `env:"LIMIT_RECORDS"`
	SearchLimit  int  `env:"SEARCH_LIMIT,default=10" validate:"min=1"`
}

// Validate enforces the structural constraints the env layer cannot
// express on its own.
func (c Config) Validate() error {
	return validate.Struct(c)
}
