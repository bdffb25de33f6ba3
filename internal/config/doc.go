// Package config loads the nexus configuration file.
//
// The file lives at ~/.config/nexus/config.yaml (or $NEXUS_CONFIG_DIR) and
// every key can be overridden from the environment with the NEXUS_ prefix,
// dots becoming underscores:
//
//	version: 1
//	data_dir: /srv/nexus          # NEXUS_DATA_DIR
//	self_command: /usr/local/bin/nexus
//	skills:
//	  link_mode: symlink          # copy (default) or symlink
//	log:
//	  level: info
//	  format: text
//
// [Load] validates what it reads; [Validate] returns one [FieldError] per
// offending key. [Config.Root] turns the loaded values into the explicit
// paths.Root the engine is built from.
package config
