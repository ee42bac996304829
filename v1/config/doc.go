// Package config loads the service configuration from the environment.
//
// A .env file in the working directory is read first if present; variables
// already exported take precedence. The values are then parsed with
// caarlos0/env into Config, whose fields are the per-package configs, so every
// variable and default is declared next to the code that uses it.
package config
