// Package config loads syncsmith's own settings.
//
// Settings are layered with koanf: embedded defaults, then syncsmith.toml in
// the syncsmith root, then SYNCSMITH_* environment variables, then explicit
// overrides from the command line. The declarative config.yaml tree and the
// environment facts are not settings; they are handled by the runner and the
// facts package.
package config
