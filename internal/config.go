// Kernel configuration, loaded from a YAML document shaped like:
//
//	artx_config:
//	  tick_config:
//	    ...
//	  monitor_config:
//	    ...
//	  sync_config:
//	    ...
//	  log_config:
//	    ...
//	tasks:
//	  heartbeat:
//	    ...
//
// The "artx_config" section maps onto Config below. The "tasks" section is
// demo/importer specific and is decoded into whatever the caller supplies.

package artx_internal

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ARTX_CONFIG_SECTION_NAME = "artx_config"
	TASKS_SECTION_NAME       = "tasks"
)

type Config struct {
	TickConfig    *TickConfig    `yaml:"tick_config"`
	MonitorConfig *MonitorConfig `yaml:"monitor_config"`
	SyncConfig    *SyncConfig    `yaml:"sync_config"`
	LoggerConfig  *LoggerConfig  `yaml:"log_config"`
}

func DefaultConfig() *Config {
	return &Config{
		TickConfig:    DefaultTickConfig(),
		MonitorConfig: DefaultMonitorConfig(),
		SyncConfig:    DefaultSyncConfig(),
		LoggerConfig:  DefaultLoggerConfig(),
	}
}

// LoadConfig loads the artx_config section into a *Config and, if tasksConfig
// is non-nil, decodes the tasks section into it. buf overrides reading from
// cfgFile, used by tests.
func LoadConfig(cfgFile string, tasksConfig any, buf []byte) (*Config, error) {
	if buf == nil {
		f, err := os.Open(cfgFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err = io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("file %q: %w", cfgFile, err)
		}
	}

	docNode := yaml.Node{}
	if err := yaml.Unmarshal(buf, &docNode); err != nil {
		return nil, fmt.Errorf("file %q: %w", cfgFile, err)
	}

	cfg := DefaultConfig()
	if docNode.Kind == yaml.DocumentNode && len(docNode.Content) > 0 {
		rootNode := docNode.Content[0]
		if rootNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("file %q: invalid YAML root node %q", cfgFile, rootNode.Tag)
		}
		var toCfg any
		for _, n := range rootNode.Content {
			if n.Kind == yaml.ScalarNode {
				switch n.Value {
				case ARTX_CONFIG_SECTION_NAME:
					toCfg = cfg
				case TASKS_SECTION_NAME:
					toCfg = tasksConfig
				default:
					toCfg = nil
				}
				continue
			}
			if n.Kind == yaml.MappingNode && toCfg != nil {
				if err := n.Decode(toCfg); err != nil {
					return nil, fmt.Errorf("file %q: %w", cfgFile, err)
				}
			}
			toCfg = nil
		}
	}
	return cfg, nil
}
