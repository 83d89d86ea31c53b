// Package config reads runtime settings from the environment and an
// optional .env file.
package config

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process settings. Zero values are filled in by Load.
type Config struct {
	SaveDir          string        `env:"TOWERCORE_SAVE_DIR"`
	DBPath           string        `env:"TOWERCORE_DB_PATH"`
	Seed             int64         `env:"TOWERCORE_SEED" envDefault:"0"`
	AutoPlayInterval time.Duration `env:"TOWERCORE_AUTOPLAY_INTERVAL" envDefault:"1s"`
	ContentDir       string        `env:"TOWERCORE_CONTENT_DIR"`
	Username         string        `env:"TOWERCORE_USERNAME"`
}

// Load reads .env from the working directory if present, then the
// environment. Variables already set win over the file.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path.
func LoadFile(dotenv string) (Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.SaveDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve save dir: %w", err)
		}
		cfg.SaveDir = filepath.Join(home, ".towercore", "saves")
	}
	if cfg.AutoPlayInterval <= 0 {
		return Config{}, fmt.Errorf("TOWERCORE_AUTOPLAY_INTERVAL must be positive, got %s", cfg.AutoPlayInterval)
	}
	if cfg.Seed == 0 {
		seed, err := RandomSeed()
		if err != nil {
			return Config{}, err
		}
		cfg.Seed = seed
	}
	return cfg, nil
}

// RandomSeed draws a non-zero seed from crypto/rand.
func RandomSeed() (int64, error) {
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("draw seed: %w", err)
		}
		if seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1); seed != 0 {
			return seed, nil
		}
	}
}
