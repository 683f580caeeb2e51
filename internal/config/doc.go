// Package config defines the wmconf configuration and how it is loaded.
//
// Values are layered: built-in defaults, then the config file (TOML or
// YAML), then WMCONF_* environment variables. Default reproduces the
// author's setup exactly, so an empty or missing file is a working
// configuration.
//
// Example TOML:
//
//	[keys]
//	leader = "F1"
//	workspaces = [{ key = "b", name = "1" }, { key = "c", name = "2" }]
//
//	[commands]
//	terminal = ["foot"]
//
//	[[bind]]
//	keys = "F1 x"
//	name = "screenshot"
//	exec = ["grim"]
package config
