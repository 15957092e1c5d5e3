package config

import (
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	getopt "github.com/pborman/getopt/v2"
)

// Wrapper around time.Duration, so that we can define our own
// UnmarshalText method.
type Duration struct {
	time.Duration
}

// Implements encoding.TextUnmarshaler interface, so that config
// files can say "90s" or "24h".
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = duration
	return nil
}

// Log is one statically configured log to monitor.
type Log struct {
	URL       string `toml:"url"`
	PublicKey string `toml:"public-key"`
}

// Anchor configures the anchor pipeline backend.
type Anchor struct {
	Backend    string `toml:"backend"`
	RpcServer  string `toml:"rpc-server"`
	TreeIDFile string `toml:"tree-id-file"`
}

// LogList configures log discovery for when no static [[logs]] are
// given.
type LogList struct {
	URL             string   `toml:"url"`
	Operators       []string `toml:"operators"`
	RefreshInterval Duration `toml:"refresh-interval"`
}

type Config struct {
	Interval          Duration `toml:"interval"`
	Timeout           Duration `toml:"timeout"`
	MaxRange          int      `toml:"max-range"`
	StateBackend      string   `toml:"state-backend"`
	StatePath         string   `toml:"state-path"`
	KeyFile           string   `toml:"key-file"`
	LogFile           string   `toml:"log-file"`
	LogLevel          string   `toml:"log-level"`
	MetricsEndpoint   string   `toml:"metrics-endpoint"`
	AnchorCheckpoints bool     `toml:"anchor-checkpoints"`
	MaxAttempts       int      `toml:"max-attempts"`
	BackoffBase       Duration `toml:"backoff-base"`
	BackoffMax        Duration `toml:"backoff-max"`

	Anchor  `toml:"anchor"`
	LogList `toml:"log-list"`
	Logs    []Log `toml:"logs"`
}

func NewConfig() *Config {
	// Initialize default configuration
	return &Config{
		Interval:          Duration{time.Second * 60},
		Timeout:           Duration{time.Second * 10},
		MaxRange:          256,
		StateBackend:      "file",
		StatePath:         "/var/lib/ct-anchor-relay/state",
		KeyFile:           "",
		LogFile:           "",
		LogLevel:          "info",
		MetricsEndpoint:   "localhost:8083",
		AnchorCheckpoints: true,
		MaxAttempts:       10,
		BackoffBase:       Duration{time.Second},
		BackoffMax:        Duration{time.Minute * 10},
		Anchor: Anchor{
			Backend:    "trillian",
			RpcServer:  "localhost:8090",
			TreeIDFile: "/var/lib/ct-anchor-relay/tree-id",
		},
		LogList: LogList{
			URL:             "",
			Operators:       nil,
			RefreshInterval: Duration{time.Hour * 24},
		},
	}
}

func LoadConfig(f io.Reader) (*Config, error) {
	conf := NewConfig()
	if _, err := toml.NewDecoder(f).Decode(&conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func OpenConfigFile() (io.Reader, error) {
	var f io.Reader
	var err error
	if conf, b := os.LookupEnv("CT_ANCHOR_RELAY_CONFIG"); b {
		if f, err = os.Open(conf); err == nil {
			return f, nil
		} else {
			return f, err
		}
	}
	default_config := "/etc/ct-anchor-relay/config.toml"
	if f, err = os.Open(default_config); err == nil {
		return f, nil
	} else {
		return f, err
	}
}

func (c *Config) ServerFlags(set *getopt.Set) {
	set.FlagLong(&c.Interval.Duration, "interval", 0, "How often to poll each monitored log.", "duration")
	set.FlagLong(&c.Timeout.Duration, "timeout", 0, "Timeout for log and backend requests.", "duration")
	set.FlagLong(&c.MaxRange, "max-range", 0, "Maximum number of entries fetched in a single request.", "count")
	set.FlagLong(&c.StateBackend, "state-backend", 0, "Cursor state backend, one of \"file\" (default), \"sqlite\", or \"ephemeral\".", "backend")
	set.FlagLong(&c.StatePath, "state-path", 0, "Cursor state directory (file backend) or database (sqlite backend).", "path")
	set.FlagLong(&c.KeyFile, "key-file", 0, "Key file (openssh format), either unencrypted private key, or a public key (accessed via ssh-agent).", "file")
	set.FlagLong(&c.LogFile, "log-file", 0, "File to write logs to (Default: stderr).", "file")
	set.FlagLong(&c.LogLevel, "log-level", 0, "Log level (Available options: debug, info, warning, error. Default: info).", "level")
	set.FlagLong(&c.MetricsEndpoint, "metrics-endpoint", 0, "host:port to serve prometheus metrics on.", "addr")
	set.FlagLong(&c.Anchor.Backend, "anchor-backend", 0, "Anchor backend, one of \"trillian\" (default) or \"ephemeral\".", "backend")
	set.FlagLong(&c.Anchor.RpcServer, "anchor-rpc-server", 0, "host:port specification of where Trillian serves the anchor tree.", "addr")
	set.FlagLong(&c.Anchor.TreeIDFile, "anchor-tree-id-file", 0, "File with the tree identifier of the anchor tree.", "file")
}
