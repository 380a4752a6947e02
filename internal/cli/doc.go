// Package cli provides command-line interface setup and configuration
// for the babelbox appliance. It handles flag parsing, command creation
// and configuration management using cobra and viper, and turns the
// merged settings into a validated Config for main.
package cli
