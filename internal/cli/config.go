// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display the effective configuration
//   init [--force]      Write the default configuration file
//   path                Show configuration file path
//   get <key>           Print one value
//   set <key> <value>   Change one value in the file
//
// Examples:
//   docildos config
//   docildos config show --json
//   docildos config set dispatch.mode backend
//   docildos config set api.base_url http://localhost:8000
//   docildos config get ui.markdown
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/docildos/internal/config"
)

// HandleConfigCommand runs a config subcommand, writing to w.
func HandleConfigCommand(args Args, w io.Writer) error {
	switch strings.ToLower(args.Subcommand) {
	case "", "show":
		return configShow(args, w)
	case "path":
		return configPath(args, w)
	case "init":
		return configInit(args, w)
	case "get":
		return configGet(args, w)
	case "set":
		return configSet(args, w)
	default:
		return NewValidationErrorWithExample("subcommand", args.Subcommand,
			"must be show, init, path, get or set", "docildos config show")
	}
}

func configShow(args Args, w io.Writer) error {
	cfg, err := ResolveConfig(args)
	if err != nil {
		return err
	}
	path, _ := config.ConfigPath()

	if args.JSON {
		values := make(map[string]any)
		for _, key := range config.Keys() {
			v, err := cfg.Get(key)
			if err != nil {
				return err
			}
			values[key] = v
		}
		return NewJSONResponse("config", ConfigData{Path: path, Values: values}).Write(w)
	}

	fmt.Fprintln(w, TitleStyle.Render("Configuração"))
	fmt.Fprintln(w, KeyValue("Arquivo:", path))
	fmt.Fprintln(w)
	section := ""
	for _, key := range config.Keys() {
		sec, name, _ := strings.Cut(key, ".")
		if sec != section {
			if section != "" {
				fmt.Fprintln(w)
			}
			section = sec
			fmt.Fprintln(w, CommandStyle.Render("["+sec+"]"))
		}
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, KeyValue("  "+name, formatConfigValue(v)))
	}
	return nil
}

func formatConfigValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "(padrão)"
	case string:
		if x == "" {
			return `""`
		}
		return x
	}
	return fmt.Sprint(v)
}

func configPath(args Args, w io.Writer) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config", map[string]string{"path": path}).Write(w)
	}
	fmt.Fprintln(w, path)
	return nil
}

func configInit(args Args, w io.Writer) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !args.Force {
		return NewValidationErrorWithExample("path", path, "config file already exists", "docildos config init --force")
	}
	if err := config.SaveTo(config.Default(), path); err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config", map[string]string{"path": path}).Write(w)
	}
	fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("[OK]"), path)
	return nil
}

func configGet(args Args, w io.Writer) error {
	if err := checkConfigKey(args.ConfigKey, "docildos config get dispatch.mode"); err != nil {
		return err
	}
	cfg, err := ResolveConfig(args)
	if err != nil {
		return err
	}
	v, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config", map[string]any{"key": args.ConfigKey, "value": v}).Write(w)
	}
	fmt.Fprintln(w, formatConfigValue(v))
	return nil
}

// configSet edits the file itself: environment overrides are not written
// back.
func configSet(args Args, w io.Writer) error {
	if err := checkConfigKey(args.ConfigKey, "docildos config set dispatch.mode backend"); err != nil {
		return err
	}
	if args.ConfigVal == "" {
		return ErrMissingArgument("value", "docildos config set "+args.ConfigKey+" <valor>")
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return WrapError(err, "read "+path)
	}
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError(args.ConfigKey, args.ConfigVal, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := config.SaveTo(cfg, path); err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]string{"key": args.ConfigKey, "value": args.ConfigVal}).Write(w)
	}
	fmt.Fprintf(w, "%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, args.ConfigVal)
	return nil
}

func checkConfigKey(key, example string) error {
	if key == "" {
		return ErrMissingArgument("key", example)
	}
	if !slices.Contains(config.Keys(), key) {
		return &NotFoundError{Resource: "config key", ID: key}
	}
	return nil
}
