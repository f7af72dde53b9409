package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const DefaultOctoCliPath = "octo"
// DefaultCacheDuration disables the name lookup cache, so renamed or new resources are seen immediately
const DefaultCacheDuration = time.Duration(0)
const DefaultTaskPollInterval = 5 * time.Second

// AppConfig holds the settings that are not specific to an Octopus server
type AppConfig struct {
	OctoCliPath      string
	CacheDuration    time.Duration
	TaskPollInterval time.Duration
}

func LoadAppConfig() (*AppConfig, error) {
	appConfig := AppConfig{
		OctoCliPath:      DefaultOctoCliPath,
		CacheDuration:    DefaultCacheDuration,
		TaskPollInterval: DefaultTaskPollInterval,
	}

	if os.Getenv("OCTO_CLI_PATH") != "" {
		appConfig.OctoCliPath = os.Getenv("OCTO_CLI_PATH")
	}

	if os.Getenv("OCTOPUS_CACHE_SECONDS") != "" {
		seconds, err := strconv.Atoi(os.Getenv("OCTOPUS_CACHE_SECONDS"))

		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("octobuildstep-init-configerror - OCTOPUS_CACHE_SECONDS must be a whole number of seconds, was %q", os.Getenv("OCTOPUS_CACHE_SECONDS"))
		}

		appConfig.CacheDuration = time.Duration(seconds) * time.Second
	}

	if os.Getenv("OCTOPUS_TASK_POLL_SECONDS") != "" {
		seconds, err := strconv.Atoi(os.Getenv("OCTOPUS_TASK_POLL_SECONDS"))

		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("octobuildstep-init-configerror - OCTOPUS_TASK_POLL_SECONDS must be a positive whole number of seconds, was %q", os.Getenv("OCTOPUS_TASK_POLL_SECONDS"))
		}

		appConfig.TaskPollInterval = time.Duration(seconds) * time.Second
	}

	return &appConfig, nil
}
