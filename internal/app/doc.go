// Package app wires application dependencies for the CLI.
//
// It builds the concrete stores, the OAuth credential service and the
// injection tool from Config, exposing them via the Wire struct for
// commands to use.
package app
