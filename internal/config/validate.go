package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535] (got %d)", c.Server.Port)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be > 0 (got %v)", c.AI.Timeout)
	}
	if c.AI.MaxContentChars <= 0 {
		return fmt.Errorf("ai.max_content_chars must be > 0 (got %d)", c.AI.MaxContentChars)
	}
	if c.Summary.TTL <= 0 {
		return fmt.Errorf("summary_cache.ttl must be > 0 (got %v)", c.Summary.TTL)
	}
	if c.Summary.MaxEntries < 10 {
		return fmt.Errorf("summary_cache.max_entries must be >= 10 (got %d)", c.Summary.MaxEntries)
	}
	if (c.Push.Endpoint == "") != (c.Push.ServerKey == "") {
		return fmt.Errorf("push.endpoint and push.server_key must be set together")
	}
	return nil
}
