package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"downsweep/internal/config"
)

// commandContext resolves configuration once per invocation, layering CLI
// flag overrides on top of the loaded file.
type commandContext struct {
	configFlag    *string
	pathFlag      *string
	targetFlag    *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, pathFlag, targetFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		pathFlag:      pathFlag,
		targetFlag:    targetFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyFlagOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) applyFlagOverrides(cfg *config.Config) error {
	source := flagValue(c.pathFlag)
	target := flagValue(c.targetFlag)

	if source != "" {
		expanded, err := config.ExpandPath(source)
		if err != nil {
			return fmt.Errorf("--path: %w", err)
		}
		cfg.Paths.SourceDir = expanded
		if target == "" {
			cfg.Paths.TargetDir = filepath.Join(expanded, "Cleaned")
		}
	}
	if target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return fmt.Errorf("--target: %w", err)
		}
		cfg.Paths.TargetDir = expanded
	}
	if format := flagValue(c.logFormatFlag); format != "" {
		cfg.Logging.Format = format
	}
	return cfg.Validate()
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}
