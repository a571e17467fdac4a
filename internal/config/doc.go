// Package config loads progstore configuration.
//
// Configuration comes from a single YAML file named by the --config flag or
// the PROGSTORE_CONFIG environment variable. Values not present in the file
// keep the defaults from Default. Paths may use ${VAR} and ${VAR:-default}.
package config
