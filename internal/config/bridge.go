package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OracleBackend selects which concrete oracle.Oracle implementation a
// bridge process wires up.
type OracleBackend string

const (
	BackendProtoDesc OracleBackend = "protodesc"
	BackendGoSource  OracleBackend = "gosource"
)

// CacheScope names a lifetime for internal/projection.Cache: per round or
// per process. Validate checks it; nothing else reads it, and cmd/bridge
// builds one cache for the whole process whatever its value.
type CacheScope string

const (
	CacheScopeRound   CacheScope = "round"
	CacheScopeProcess CacheScope = "process"
)

// BridgeConfig is the bridge process's top-level configuration, loaded
// from a YAML file the way lib/yaml decodes Funxy config values.
type BridgeConfig struct {
	// ListenAddr is the address the gRPC TypeBridge service binds to.
	ListenAddr string `yaml:"listenAddr"`

	// Backend selects the oracle implementation: "protodesc" for a
	// protobuf FileDescriptorSet-backed graph, "gosource" for a
	// golang.org/x/tools/go/packages-backed one.
	Backend OracleBackend `yaml:"backend"`

	// ProtoDescriptorSetPath is the path to a serialized
	// descriptorpb.FileDescriptorSet, required when Backend is
	// "protodesc".
	ProtoDescriptorSetPath string `yaml:"protoDescriptorSetPath,omitempty"`

	// GoSourcePatterns are the go/packages load patterns to analyze,
	// required when Backend is "gosource".
	GoSourcePatterns []string `yaml:"goSourcePatterns,omitempty"`

	// CacheScope is "round" or "process"; see the CacheScope type.
	CacheScope CacheScope `yaml:"cacheScope"`

	// RoundStorePath is the sqlite database file backing internal/roundstore.
	RoundStorePath string `yaml:"roundStorePath"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"logLevel"`
}

// Default returns a BridgeConfig with the bridge's out-of-the-box
// defaults, overridden by whatever the loaded file specifies.
func Default() BridgeConfig {
	return BridgeConfig{
		ListenAddr:     "127.0.0.1:7711",
		Backend:        BackendProtoDesc,
		CacheScope:     CacheScopeRound,
		RoundStorePath: "bridge-rounds.db",
		LogLevel:       "info",
	}
}

// Load reads and parses a BridgeConfig from path, starting from Default()
// so a partial file only needs to override what it changes.
func Load(path string) (BridgeConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading bridge config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing bridge config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports whether cfg is internally consistent.
func (c BridgeConfig) Validate() error {
	switch c.Backend {
	case BackendProtoDesc:
		if c.ProtoDescriptorSetPath == "" {
			return fmt.Errorf("backend %q requires protoDescriptorSetPath", c.Backend)
		}
	case BackendGoSource:
		if len(c.GoSourcePatterns) == 0 {
			return fmt.Errorf("backend %q requires at least one goSourcePatterns entry", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.CacheScope {
	case CacheScopeRound, CacheScopeProcess:
	default:
		return fmt.Errorf("unknown cacheScope %q", c.CacheScope)
	}
	return nil
}
