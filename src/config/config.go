package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
)

const (
	NumElevators = 3
	NumFloors    = 10

	TravelDuration = 1 * time.Second
	StopDuration   = 2 * time.Second

	// Scoring constants, on the same scale as floor distances.
	DirectionPenalty = 1000
	QueuePenalty     = 10

	RequestBufSize = 8
	StatusBufSize  = 16
	FailureBufSize = 16
)

// Config carries the tunable fleet parameters. The scoring constants are
// deliberately configurable rather than hard-coded.
type Config struct {
	NumElevators     int           `yaml:"NumElevators"`
	NumFloors        int           `yaml:"NumFloors"`
	TravelDuration   time.Duration `yaml:"TravelDuration"`
	StopDuration     time.Duration `yaml:"StopDuration"`
	DirectionPenalty int           `yaml:"DirectionPenalty"`
	QueuePenalty     int           `yaml:"QueuePenalty"`
}

func Default() Config {
	return Config{
		NumElevators:     NumElevators,
		NumFloors:        NumFloors,
		TravelDuration:   TravelDuration,
		StopDuration:     StopDuration,
		DirectionPenalty: DirectionPenalty,
		QueuePenalty:     QueuePenalty,
	}
}

// Load reads a YAML config file. Fields absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
