// Package config defines the format-agnostic model of a sweep definition
// and the Loader interface implemented by concrete formats such as HCL.
//
// The `config.Sweep` is the single source of truth for the `app` package;
// it never sees the syntax the sweep was written in.
package config
