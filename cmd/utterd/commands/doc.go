// Package commands defines the utterd CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - run          Connect to the relay and type incoming messages
//   - fingerprint  Print the device public key and its fingerprint
//   - reset-keys   Delete the device keypair
//   - sign-out     Delete stored OAuth credentials
//
// # Implementation
//
// The root command loads configuration (TOML file, environment, flags)
// and builds the dependency graph (stores, credential service, injection
// tool) before any subcommand runs.
package commands
