// Package main provides the entry point for subtrack.
//
// subtrack periodically captures which hotkey owns each UID slot of every
// subnet, and ranks subnets by how often those slots change hands.
package main
