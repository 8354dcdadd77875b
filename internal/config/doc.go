// Package config loads and validates the fwguard configuration file.
//
// The configuration is TOML. A minimal file declares the chain policies and
// at least the admin access rule:
//
//	config_version = 1
//
//	[policies]
//	input   = "drop"
//	forward = "drop"
//	output  = "accept"
//
//	[[rule]]
//	name     = "ssh"
//	port     = 22
//	protocol = "tcp"
//	action   = "accept"
//	source   = "any"
//
// # Loading
//
// LoadConfig decodes the file, reports TOML syntax errors with their
// position, and fills defaults (directories, confirmation timeout, wildcard
// sources), so a loaded Config is always fully populated.
//
// # Validation
//
// ValidateConfig collects every problem instead of stopping at the first:
// field-level checks run through go-playground/validator with the struct
// tags on the rule model, cross checks (duplicate rule names, config
// version) run here. The result is a ValidationErrors value whose Error()
// renders a numbered list, one line per problem, each naming the offending
// rule and field.
//
// The lockout precondition (a tcp/22 accept rule must exist) is not part of
// config validation; the apply flow enforces it so previews of partial
// configs keep working.
package config
