// Package envsafe loads .env-style configuration files. A load reads a
// primary env file, fills gaps from an optional defaults file, optionally
// validates the result against a required-keys example file ("safe mode"),
// and optionally exports resolved values into the process environment
// without overwriting keys already defined there.
//
// Precedence, highest to lowest: process environment > primary file >
// defaults file. Every value is a string; there are no typed or nested
// values and no file watching.
//
// File access and environment access go through the SourceReader and
// Environ interfaces, so hosts and tests can substitute in-memory
// implementations (MapReader, MapEnviron) for the OS-backed defaults.
package envsafe
