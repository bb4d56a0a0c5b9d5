// Package config loads the process environment per spec §6: a local .env
// file (if present) is read into the process environment, then the named
// variables are parsed into a typed Config. Unset variables take their
// defaults (or stay empty where there is none); invalid values are
// configuration errors, per spec §7.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the full set of environment-driven settings the bus reads at
// process start.
type Config struct {
	EventsAddr string
	EventsPort int
	CmdAddr    string
	CmdPort    int

	McastIfAddr string // optional

	DedupEnabled  bool
	DedupWindowMS int

	MDSourceHost string
	MDSourcePort int
	MDSourcePath string

	ScrappyFile string

	InstanceMapFile string
}

const (
	defaultEventsAddr = "239.255.0.1"
	defaultEventsPort = 30001
	defaultCmdAddr    = "239.255.0.2"
	defaultCmdPort    = 30002

	defaultDedupWindowMS = 100
	minDedupWindowMS     = 1
	maxDedupWindowMS     = 9999
)

// Load reads a local .env file if one exists (errors from a missing file
// are ignored, matching the out-of-scope loader's "plain key/value read of
// a local config file" contract - absence is not a configuration error),
// then parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := &Config{
		EventsAddr:      getString("EVENTS_ADDR", defaultEventsAddr),
		CmdAddr:         getString("CMD_ADDR", defaultCmdAddr),
		McastIfAddr:     os.Getenv("MCAST_IF_ADDR"),
		MDSourceHost:    os.Getenv("MD_SOURCE_HOST"),
		MDSourcePath:    os.Getenv("MD_SOURCE_PATH"),
		ScrappyFile:     os.Getenv("SCRAPPY_FILE"),
		InstanceMapFile: os.Getenv("INSTANCE_MAP_FILE"),
	}

	var err error
	if cfg.EventsPort, err = getInt("EVENTS_PORT", defaultEventsPort); err != nil {
		return nil, err
	}
	if cfg.CmdPort, err = getInt("CMD_PORT", defaultCmdPort); err != nil {
		return nil, err
	}
	if cfg.MDSourcePort, err = getInt("MD_SOURCE_PORT", 0); err != nil {
		return nil, err
	}

	cfg.DedupEnabled = getBool("MCAST_DEDUP", true)

	if cfg.DedupWindowMS, err = getInt("MCAST_DEDUP_MS", defaultDedupWindowMS); err != nil {
		return nil, err
	}
	if cfg.DedupWindowMS < minDedupWindowMS || cfg.DedupWindowMS > maxDedupWindowMS {
		return nil, fmt.Errorf("config: MCAST_DEDUP_MS=%d out of range [%d,%d]", cfg.DedupWindowMS, minDedupWindowMS, maxDedupWindowMS)
	}

	return cfg, nil
}

func getString(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func getInt(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", name, v, err)
	}
	return n, nil
}

func getBool(name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	return v == "1"
}
