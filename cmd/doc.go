// Package cmd provides the command-line interface for the ByteHat Academy
// site.
//
// # Available Commands
//
//   - serve: Run the web server
//   - search: Query the course and article catalog from the terminal
//   - validate: Check the configuration and the catalog
//   - version: Print build information
//
// # Command Examples
//
//	// Serve on another port with debug logging
//	academy serve --port 9000 --log-level debug
//
//	// Search the catalog
//	academy search cloud
//
//	// Validate a production config before deploying
//	academy validate --config /etc/academy/academy.yml
//
// # Configuration
//
// Settings come from, in order of precedence: flags, ACADEMY_* environment
// variables (ACADEMY_SERVER_PORT, ACADEMY_MAIL_MODE, ...), the config file
// named by --config or ACADEMY_CONFIG_FILE, and .academy.yml in the working
// directory.
package cmd
