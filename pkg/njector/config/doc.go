/*
Package config loads njector settings from YAML or JSON.

# Overview

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or holds the wrong type. Settings is the typed
view njector consumes, built from a Config with SettingsFrom.

# File Format

	log_level: debug
	metrics: true
	tracing: false
	journal:
	  driver: sqlite
	  path: ./njector.db

All keys are optional and unknown keys are rejected. The defaults are log
level info, metrics and tracing disabled, and no journal. Environment
references such as ${HOME} are expanded before the file is decoded.

# Loading

	settings, err := config.LoadSettings("njector.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	inj := njector.New(njector.OptionsFromSettings(settings, os.Stderr)...)

Or from bytes:

	cfg, err := config.FromYAML(yamlBytes)
	settings, err := config.SettingsFrom(cfg)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
