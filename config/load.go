package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. RFSWEEP_OUTPUT_DIR
const EnvPrefix = "RFSWEEP"

// Load reads the configuration file at path (yaml, toml or json by extension;
// empty path means none), applies RFSWEEP_* environment overrides and fills the
// rest from Default. A .env file in the working directory is loaded first if present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var def = Default()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("tool", def.Tool)
	v.SetDefault("workdir", def.WorkDir)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("min_split", def.MinSplit)
	v.SetDefault("folds", def.Folds)
	v.SetDefault("metric", def.Metric)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("dataset_workers", def.DatasetWorkers)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("cell_style", string(def.CellStyle))
	v.SetDefault("plot", def.Plot)
	v.SetDefault("log_file", def.LogFile)
	if err := v.BindEnv("tree_counts"); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	if len(c.TreeCounts) == 0 {
		c.TreeCounts = def.TreeCounts
	}
	if len(c.Datasets) == 0 {
		c.Datasets = def.Datasets
	}
	return c, c.Validate()
}
