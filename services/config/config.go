package config

import (
	"context"

	"cwkeyer-go/bus"
	"cwkeyer-go/keyer"
	"cwkeyer-go/types"
	"cwkeyer-go/x/mathx"
)

const (
	serviceName  = "config"
	configPrefix = "config"

	minHeartbeatS = 1
	maxHeartbeatS = 3600
)

var (
	TopicKeyer     = bus.T(configPrefix, "keyer")
	TopicHeartbeat = bus.T(configPrefix, "heartbeat")
)

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

// ConfigService publishes the board setup's boot settings as retained
// messages. Later publishes on the same topics (console) replace them.
type ConfigService struct {
	Name  string
	setup types.KeyerSetup
}

func NewConfigService(setup types.KeyerSetup) *ConfigService {
	return &ConfigService{Name: serviceName, setup: setup}
}

// Boot returns the validated keyer settings and config. Invalid settings are
// logged and replaced by the defaults.
func (s *ConfigService) Boot() (types.KeyerSettings, keyer.Config) {
	set := s.setup.Settings
	cfg, err := set.Config()
	if err != nil {
		println("[config] invalid settings for", s.setup.Name, ":", err.Error(), "- using defaults")
		set = types.DefaultKeyerSettings()
		cfg = keyer.DefaultConfig()
	}
	set.Lookahead = mathx.Clamp(set.Lookahead, 0, cfg.QueueCapacity)
	return set, cfg
}

func (s *ConfigService) Heartbeat() types.HeartbeatConfig {
	return types.HeartbeatConfig{
		IntervalS: mathx.Clamp(s.setup.HeartbeatIntervalS, minHeartbeatS, maxHeartbeatS),
	}
}

func (s *ConfigService) publishConfig(conn *bus.Connection) {
	set, _ := s.Boot()
	conn.Publish(conn.NewMessage(TopicKeyer, set, true))
	conn.Publish(conn.NewMessage(TopicHeartbeat, s.Heartbeat(), true))
	println("[config] published settings for", s.setup.Name)
}

// Start publishes the retained configuration.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go s.publishConfig(conn)
}
