// Package hcl provides the concrete HCL implementation of the
// config.Loader interface. It is responsible for file parsing, decoding
// the sweep blocks, and converting option values to text tokens.
package hcl
