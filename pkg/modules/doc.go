// Package modules implements the units listed under `modules:` in the
// configuration.
//
// Each entry names a module and carries its settings:
//
//	modules:
//	  - name: symlink
//	    source: nvim/*
//	    target: ~/.config/nvim/
//	  - name: edit_file
//	    file: hosts
//	    modifications:
//	      - add: "10.0.0.2 nas"
//
// Modules are looked up in a static registry of Descriptors. A descriptor
// marked SingleInstance runs at most once per run.
package modules
