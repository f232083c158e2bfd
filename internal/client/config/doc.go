// Package config loads runtime configuration for the storefront CLI.
//
// Sources, later ones winning: built-in defaults, the JSON file named by
// -c/-config, STOREFRONT_CLI_* environment variables, command-line flags.
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s"
//	}
//
// Environment: STOREFRONT_CLI_SERVER, STOREFRONT_CLI_PING_INTERVAL,
// STOREFRONT_CLI_TIMEOUT. Flags: -a, -i, -t.
package config
