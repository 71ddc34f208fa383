package core

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	/** @brief Minimum log level: debug, info, warn, error or fatal. */
	LogLevel        string `toml:"log_level"`
	ReportCaller    bool   `toml:"report_caller"`
	/** @brief Directory scanned for *.rpass.toml render pass descriptions. */
	DescriptionsDir string `toml:"descriptions_dir"`
	/** @brief Recompile descriptions when their file changes. */
	Watch           bool   `toml:"watch"`
	/** @brief Compile workers, 0 means one per CPU. */
	Workers         int    `toml:"workers"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:        "info",
		ReportCaller:    true,
		DescriptionsDir: "assets/renderpasses",
	}
}

// LoadConfig reads the TOML file at path over the defaults. A missing file is
// not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// Apply pushes the logging settings to the package logger.
func (c Config) Apply() error {
	if err := SetLogLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	SetReportCaller(c.ReportCaller)
	return nil
}
