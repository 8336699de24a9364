// Package cli is the command-line inbound adapter of the bst binary.
//
// Commands are built with cobra. The configuration file is taken from
// --config or BST_CONFIG (resolved through viper); without one the built-in
// defaults apply.
package cli
