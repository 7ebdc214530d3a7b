// Package conditional prunes a declarative configuration tree against the
// environment facts of the current host.
//
// Any mapping may carry a `when` condition; when it does not hold, the
// mapping is dropped from its parent. A mapping with a `do` list is a
// control block: its members replace the mapping in the containing list,
// optionally inheriting `sudo: true`.
//
//	modules:
//	  - when: {tag: laptop}
//	    sudo: true
//	    do:
//	      - name: symlink
//	        source: tlp.conf
//	        target: /etc/tlp.conf
//
// Conditions are lists of groups. All groups and all keys within a group
// must hold. Keys are `tag` (membership in the host tags), `not`, `or`
// (aliases `any` and `either`) and plain fact names compared for equality.
package conditional
