// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package config builds the proxy's immutable runtime configuration from an
// optional TOML file, an optional dotenv file and the process environment.
package config
