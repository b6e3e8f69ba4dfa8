// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// devca is a command-line certificate authority for local development.
// It creates a root CA and an intermediate CA and issues TLS server
// certificates signed by the intermediate.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/devca/cmd/devca@latest
//
// # Usage
//
//	devca [--config-dir DIR] [--json-log] COMMAND
//
// # Commands
//
//	ca [--reset=false] [-v]             Create the root and intermediate CA
//	server COMMON_NAME ALT_NAME...      Issue a server certificate
//	    --country --state --locality --org --org-unit
//	                                    Override subject attributes
//	    -v                              Report every written file
//	list [-o text|table|json|yaml]      List issued certificates
//	verify COMMON_NAME [-f tree|table|json]
//	                                    Verify a stored server certificate
//
// # Configuration
//
// The first run writes ~/.devca/config.toml, or $DEVCA_HOME/config.toml:
//
//	[ca]
//	country = ""
//	locality = ""
//	organization = "Simple CA"
//	organization_unit = ""
//	state_or_province = ""
//
//	[keys]
//	ca = 4096
//	server = 2048
//
//	[validity]
//	intermediate = 3600
//	root = 7200
//	server = 370
//
// Every key can be overridden from the environment, for example
// DEVCA_VALIDITY_SERVER=90 or DEVCA_CA_COUNTRY=AU.
//
// # Examples
//
// Create the CA and a wildcard certificate:
//
//	devca ca
//	devca server '*.example.com' '*.another.com'
//
// Trust ~/.devca/ca.cert.pem in the browser or system store, then serve
// com.example.*.fullchain.pem with com.example.*.key.pem.
//
// Verify the output with OpenSSL:
//
//	cat ~/.devca/intermediate.cert.pem ~/.devca/ca.cert.pem > chain.pem
//	openssl verify -CAfile chain.pem ~/.devca/com.example.*.cert.pem
package main
