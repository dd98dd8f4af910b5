package broker

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"

	goSSO "github.com/MrEthical07/goSSO"
)

// registryFile mirrors the on-disk TOML layout:
//
//	[brokers.demo]
//	secret  = "abc123"
//	domains = ["app.demo.test"]
type registryFile struct {
	Brokers map[string]registryEntry `toml:"brokers"`
}

type registryEntry struct {
	Secret  string   `toml:"secret"`
	Domains []string `toml:"domains"`
}

// Registry is a broker registry backed by a TOML file. The file is re-read
// on every Lookup, so edits and secret rotation take effect on the next
// request without a restart.
type Registry struct {
	path string
}

// NewRegistry returns a registry reading the TOML file at path. The file
// is loaded once up front to fail fast on malformed configuration; later
// edits are picked up per lookup.
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{path: path}
	if _, err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Lookup implements goSSO.BrokerProvider.
func (r *Registry) Lookup(_ context.Context, brokerID string) (goSSO.BrokerInfo, bool, error) {
	file, err := r.load()
	if err != nil {
		return goSSO.BrokerInfo{}, false, err
	}

	entry, ok := file.Brokers[brokerID]
	if !ok {
		return goSSO.BrokerInfo{}, false, nil
	}

	return goSSO.BrokerInfo{
		Secret:  entry.Secret,
		Domains: append([]string(nil), entry.Domains...),
	}, true, nil
}

func (r *Registry) load() (*registryFile, error) {
	var file registryFile
	if _, err := toml.DecodeFile(r.path, &file); err != nil {
		return nil, fmt.Errorf("reading broker registry %s: %w", r.path, err)
	}
	for id, entry := range file.Brokers {
		if entry.Secret == "" {
			return nil, fmt.Errorf("broker registry %s: broker %q has no secret", r.path, id)
		}
	}
	return &file, nil
}
