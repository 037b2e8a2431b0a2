package bfaultapp

import (
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	logLevel() zapcore.Level
	mediaTypes() []string
	errorDetails() bool
	bufferLimit() int
	otelExporter() string
}

// BaseEnvironment contains the environment variables every app reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port        int           `env:"BF_PORT" envDefault:"8080"`
	ServiceName string        `env:"BF_SERVICE_NAME" envDefault:"bfault"`
	LogLevel    zapcore.Level `env:"BF_LOG_LEVEL" envDefault:"info"`
	// MediaTypes lists the builtin content handlers in order of priority. The first one is
	// used when the client's Accept header matches none of them.
	MediaTypes   []string `env:"BF_MEDIA_TYPES" envDefault:"application/json,text/html,text/plain" envSeparator:","`
	ErrorDetails bool     `env:"BF_ERROR_DETAILS" envDefault:"false"`
	BufferLimit  int      `env:"BF_BUFFER_LIMIT" envDefault:"-1"`
	OtelExporter string   `env:"BF_OTEL_EXPORTER" envDefault:"stdout"`
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) mediaTypes() []string {
	return e.MediaTypes
}

func (e BaseEnvironment) errorDetails() bool {
	return e.ErrorDetails
}

func (e BaseEnvironment) bufferLimit() int {
	return e.BufferLimit
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
