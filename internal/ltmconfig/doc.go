// Package ltmconfig loads run configuration (§10.2): the Mode A
// exhaustive threshold, the contribution cutoff, cache/store DSNs, and
// the HTTP listen address. Values come from a YAML file via
// gopkg.in/yaml.v3, with environment-variable overrides for secrets
// (Redis/Postgres DSNs), and fall back to SPEC_FULL.md's defaults when no
// file is present.
//
// Grounded on cryptorun's infrastructure/datafacade/config.LoadConfig:
// one file per concern, "missing file means defaults" per section, and a
// final validateConfig pass.
package ltmconfig
