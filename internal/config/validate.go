package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. It runs once at load time;
// the server refuses to start on any failure here.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Bind == "" {
		return errors.New("server.bind must be set")
	}
	if c.Server.LogDir == "" {
		return errors.New("server.log_dir must be set")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.BlockMaxWords <= 0 {
		return fmt.Errorf("pipeline.block_max_words must be positive, got %d", c.Pipeline.BlockMaxWords)
	}
	if c.Pipeline.SoftLimitRatio <= 0 || c.Pipeline.SoftLimitRatio > 1 {
		return fmt.Errorf("pipeline.soft_limit_ratio must be in (0, 1], got %g", c.Pipeline.SoftLimitRatio)
	}
	if c.Pipeline.MaxWorkers <= 0 {
		return fmt.Errorf("pipeline.max_workers must be positive, got %d", c.Pipeline.MaxWorkers)
	}
	if c.Pipeline.DefaultNumConcepts <= 0 {
		return fmt.Errorf("pipeline.default_num_concepts must be positive, got %d", c.Pipeline.DefaultNumConcepts)
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.TimeoutSeconds < 0 {
		return errors.New("llm.timeout_seconds must not be negative")
	}
	return nil
}
