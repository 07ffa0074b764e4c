package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/zjrosen/nestmode/internal/log"
)

// LoadProfile reads a single language profile from a YAML file at path.
func LoadProfile(path string) (*Profile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, newProfileError("load", "reading %s: %v", path, err)
	}

	var profile Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &profile,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, newProfileError("load", "building decoder for %s: %v", path, err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, newProfileError("load", "decoding %s: %v", path, err)
	}

	if profile.Name == "" {
		profile.Name = filepath.Base(path)
	}
	log.Debug(log.CatConfig, "Loaded language profile", "path", path, "name", profile.Name)
	return &profile, nil
}

// LoadProfileDir reads every *.yaml/*.yml file in dir as a language
// profile, keyed by Profile.Name.
func LoadProfileDir(dir string) (map[string]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, newProfileError("load", "reading profile directory %s: %v", dir, err)
	}

	profiles := make(map[string]*Profile)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		profile, err := LoadProfile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		profiles[profile.Name] = profile
	}
	return profiles, nil
}

// DefaultProfileDir returns ~/.config/nestmode/profiles, the conventional
// location the "profiles" CLI command looks in alongside any -dir override.
func DefaultProfileDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "nestmode", "profiles"), nil
}
