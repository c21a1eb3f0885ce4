package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables recognized by ApplyEnv. Only the scalar knobs
// that vary per cluster job are overridable; architecture fields must
// come from the document.
const (
	EnvNumWorkers  = "BM_NUM_WORKERS"
	EnvEpochs      = "BM_EPOCHS"
	EnvMaxBatches  = "BM_MAX_BATCHES"
	EnvBatchSize   = "BM_BATCH_SIZE"
	EnvOffsetMEGMs = "BM_OFFSET_MEG_MS"
)

// ApplyEnv overrides cfg from BM_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := envInt(EnvNumWorkers, &cfg.NumWorkers); err != nil {
		return err
	}
	if err := envInt(EnvEpochs, &cfg.Optim.Epochs); err != nil {
		return err
	}
	if err := envInt(EnvMaxBatches, &cfg.Optim.MaxBatches); err != nil {
		return err
	}
	if err := envInt(EnvBatchSize, &cfg.Optim.BatchSize); err != nil {
		return err
	}
	return envInt(EnvOffsetMEGMs, &cfg.Task.OffsetMEGMs)
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}
