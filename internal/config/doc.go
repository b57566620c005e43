// Package config provides the configuration of a recon run.
// It defines the defaults, the YAML configuration file, environment
// overrides and the reader for the input domain list.
package config
