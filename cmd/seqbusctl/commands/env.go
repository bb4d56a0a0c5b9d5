package commands

import (
	"fmt"
	"net"
	"strconv"

	"github.com/burgrp-go/seqbus/internal/config"
	"github.com/burgrp-go/seqbus/internal/identity"
	"github.com/burgrp-go/seqbus/internal/transport"
)

// Environment is the fully resolved process configuration shared by every
// seqbusctl subcommand: the multicast addressing, the instance-id registry,
// and the local interface to join on.
type Environment struct {
	Config   *config.Config
	Registry *identity.Registry
	Iface    *net.Interface
}

// GetEnvironment loads configuration and identity the same way the long-
// running participants (seqd, ping, pong, mdfeed, scrappy) do, so a
// misconfigured .env or INSTANCE_MAP_FILE fails the same way for the CLI as
// it would for the daemons.
func GetEnvironment() (*Environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	registry, err := identity.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("identity configuration error: %w", err)
	}

	iface, err := transport.InterfaceForAddr(cfg.McastIfAddr)
	if err != nil {
		return nil, fmt.Errorf("interface configuration error: %w", err)
	}

	return &Environment{Config: cfg, Registry: registry, Iface: iface}, nil
}

// resolveInstance accepts either a registered participant name (e.g. "PONG")
// or a bare numeric instance id, so scripts can address either way.
func resolveInstance(registry *identity.Registry, arg string) (uint32, error) {
	if id, err := registry.Lookup(arg); err == nil {
		return id, nil
	}
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a known instance name nor a numeric instance id", arg)
	}
	return uint32(n), nil
}
