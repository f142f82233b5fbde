package config

// mergeConfigs merges override configuration into base
func mergeConfigs(base, override *Config) *Config {
	result := *base

	// Merge version
	if override.Version != "" {
		result.Version = override.Version
	}

	// Merge watch settings
	result.Watch = mergeWatch(result.Watch, override.Watch)

	// Merge daemon settings
	if override.Daemon != nil {
		if result.Daemon == nil {
			result.Daemon = &DaemonConfig{}
		}
		merged := *result.Daemon
		if override.Daemon.SocketPath != "" {
			merged.SocketPath = override.Daemon.SocketPath
		}
		if override.Daemon.PidPath != "" {
			merged.PidPath = override.Daemon.PidPath
		}
		result.Daemon = &merged
	}

	if override.TUI != nil {
		result.TUI = override.TUI
	}

	// Merge extensions
	if override.Extensions != nil {
		if result.Extensions == nil {
			result.Extensions = make(map[string]interface{})
		}
		for key, value := range override.Extensions {
			// If both base and override have the same extension key, merge them
			if baseValue, exists := result.Extensions[key]; exists {
				if baseMap, baseOk := baseValue.(map[string]interface{}); baseOk {
					if overrideMap, overrideOk := value.(map[string]interface{}); overrideOk {
						// Merge the maps
						mergedMap := make(map[string]interface{})
						for k, v := range baseMap {
							mergedMap[k] = v
						}
						for k, v := range overrideMap {
							mergedMap[k] = v
						}
						result.Extensions[key] = mergedMap
						continue
					}
				}
			}
			// Otherwise just replace
			result.Extensions[key] = value
		}
	}

	return &result
}

func mergeWatch(base, override WatchConfig) WatchConfig {
	result := base

	if override.RulesPath != "" {
		result.RulesPath = override.RulesPath
	}
	if len(override.Rules) > 0 {
		result.Rules = override.Rules
	}
	if override.ReloadInterval != "" {
		result.ReloadInterval = override.ReloadInterval
	}
	if override.Watch != nil {
		result.Watch = override.Watch
	}
	if override.DebounceMs != 0 {
		result.DebounceMs = override.DebounceMs
	}
	if len(override.ExcludePaths) > 0 {
		result.ExcludePaths = override.ExcludePaths
	}

	return result
}
