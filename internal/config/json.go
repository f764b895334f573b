package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/equilibri/internal/flagx"
	"github.com/dmitrijs2005/equilibri/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointers distinguish
// absent keys from empty values.
type JsonConfig struct {
	DatabaseDSN      *string         `json:"database_dsn"`
	LocalDBPath      *string         `json:"local_db_path"`
	SessionSecret    *string         `json:"session_secret"`
	SessionValidity  *timex.Duration `json:"session_validity"`
	AssistantMode    *string         `json:"assistant_mode"`
	AssistantBaseURL *string         `json:"assistant_base_url"`
	AssistantAPIKey  *string         `json:"assistant_api_key"`
	AssistantModel   *string         `json:"assistant_model"`
	AssistantTimeout *timex.Duration `json:"assistant_timeout"`
	LogLevel         *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.LocalDBPath, jc.LocalDBPath)
	setString(&cfg.SessionSecret, jc.SessionSecret)
	setString(&cfg.AssistantMode, jc.AssistantMode)
	setString(&cfg.AssistantBaseURL, jc.AssistantBaseURL)
	setString(&cfg.AssistantAPIKey, jc.AssistantAPIKey)
	setString(&cfg.AssistantModel, jc.AssistantModel)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.SessionValidity != nil {
		cfg.SessionValidity = jc.SessionValidity.Duration
	}
	if jc.AssistantTimeout != nil {
		if jc.AssistantTimeout.Duration <= 0 {
			return fmt.Errorf("parse config %s: assistant_timeout must be positive, got %s", path, jc.AssistantTimeout.Duration)
		}
		cfg.AssistantTimeout = jc.AssistantTimeout.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
