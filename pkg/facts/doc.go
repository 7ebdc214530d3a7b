// Package facts loads the environment facts that describe the current host.
//
// Facts live in environment.yaml next to the declarative config. The file is
// created on first use and refreshed with auto-detected keys on every run;
// values the user has set are never replaced.
package facts
