// Package config provides configuration structures and utilities for a11yscan.
// It defines the server, browser and rule-engine settings, the report
// preferences of the scan command, and loading of the YAML config file.
package config
