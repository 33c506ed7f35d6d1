package providers

import (
	"fmt"
	"invitebot/internal/structures"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("discord.requestTimeout", 10*time.Second)
	v.SetDefault("tier.newbieLabel", "newbie")
	v.SetDefault("tier.newbieBelow", 5)
	v.SetDefault("tier.reportLabels", []string{"average", "veteran"})
	v.SetDefault("attribution.historySize", 100)

	_ = v.BindEnv("discord.token", "INVITEBOT_TOKEN", "TOKEN")
	_ = v.BindEnv("logger.level", "INVITEBOT_LOG_LEVEL")
	_ = v.BindEnv("attribution.refreshInterval", "INVITEBOT_REFRESH_INTERVAL")
	_ = v.BindEnv("cache.enabled", "INVITEBOT_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "INVITEBOT_CACHE_SIZE")
	_ = v.BindEnv("metrics.enabled", "INVITEBOT_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "InviteBot"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
