package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          string `envconfig:"PORT" default:"5000"`
	MongoURI      string `envconfig:"MONGODB_URI" required:"true"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"sprint_poker"`

	InviteSecret string        `envconfig:"INVITE_SECRET" required:"true"`
	InviteTTL    time.Duration `envconfig:"INVITE_TTL" default:"24h"`

	GracePeriod   time.Duration `envconfig:"DISCONNECT_GRACE_PERIOD" default:"30s"`
	IdleTimeout   time.Duration `envconfig:"ROOM_IDLE_TIMEOUT" default:"30m"`
	SweepInterval time.Duration `envconfig:"ROOM_SWEEP_INTERVAL" default:"1m"`

	JiraBaseURL          string `envconfig:"JIRA_BASE_URL"`
	JiraEmail            string `envconfig:"JIRA_EMAIL"`
	JiraAPIToken         string `envconfig:"JIRA_API_TOKEN"`
	JiraStoryPointsField string `envconfig:"JIRA_STORY_POINTS_FIELD" default:"customfield_10016"`
}

// Load reads .env if present, then the environment.
func Load() (Config, error) {
	godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// JiraConfigured reports whether tracker write-back is enabled for this
// deployment.
func (c Config) JiraConfigured() bool {
	return c.JiraBaseURL != ""
}
