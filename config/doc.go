// Package config defines the TOML configuration for the pipeline.
//
// Configuration is loaded with Load, which tolerates a missing file by
// returning Default values but rejects malformed TOML and out-of-range
// settings. Validation failures are startup errors: the pipeline refuses
// to start rather than guessing at corrected values.
//
//	cfg, err := config.Load("vjkit.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The zero value of Config is not usable; always begin from Default or
// Load.
package config
