// Package app wires the loader, CLI configuration, and logger behind the
// envsafe commands. It keeps the main package focused on flag parsing and
// exit-code handling while the command logic stays testable against
// in-memory readers and environment stores.
package app
