package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type DiscordConfig struct {
	Token          string            `yaml:"token" validate:"required"`
	RequestTimeout time.Duration     `yaml:"requestTimeout" validate:"required|min:1"`
	Commands       map[string]string `yaml:"commands"`
}

type TierConfig struct {
	NewbieLabel  string   `yaml:"newbieLabel" validate:"required"`
	NewbieBelow  int      `yaml:"newbieBelow" validate:"required|min:1"`
	ReportLabels []string `yaml:"reportLabels"`
}

type AttributionConfig struct {
	HistorySize     int           `yaml:"historySize"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
}

// MaxCacheSizeMB bounds cache.size, which is given in megabytes.
const MaxCacheSizeMB = 1024

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size" validate:"max:1024"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Discord     DiscordConfig     `yaml:"discord"`
	Tier        TierConfig        `yaml:"tier"`
	Attribution AttributionConfig `yaml:"attribution"`
	WebServer   Server            `yaml:"webServer"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// Command names recognised in discord.commands.
const (
	CommandCheckInvites    = "check_invites"
	CommandGrantPermission = "grant_permission"
)

// CommandPrefixes returns the configured command prefixes, falling back to
// the "$name" form for any command missing from the config.
func (c *Config) CommandPrefixes() map[string]string {
	prefixes := map[string]string{
		CommandCheckInvites:    "$check_invites",
		CommandGrantPermission: "$grant_permission",
	}
	for name, prefix := range c.Discord.Commands {
		if _, ok := prefixes[name]; ok && prefix != "" {
			prefixes[name] = prefix
		}
	}
	return prefixes
}
