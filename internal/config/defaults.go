package config

const (
	defaultWorkers          = 2
	defaultPartitionPattern = `^SM_[1-5]$`
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultConfigPath       = "~/.config/capturesort/config.toml"
	projectConfigName       = "capturesort.toml"
)

// MinWorkers and MaxWorkers bound the copy pool. Shared archive storage
// degrades quickly past two concurrent readers.
const (
	MinWorkers = 1
	MaxWorkers = 2
)

var defaultExtensions = []string{".jpg", ".jpeg"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Organize: Organize{
			Workers: defaultWorkers,
		},
		Discovery: Discovery{
			PartitionPattern: defaultPartitionPattern,
			Extensions:       append([]string(nil), defaultExtensions...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
