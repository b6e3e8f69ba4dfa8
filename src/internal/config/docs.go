// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config resolves the configuration directory of the authority and
// loads its TOML configuration through [koanf].
//
// The directory defaults to ~/.devca and can be moved with DEVCA_HOME. On
// first use it is created together with a config.toml holding the defaults:
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
// DEVCA_VALIDITY_SERVER=90 or DEVCA_CA_ORGANIZATION="Acme Dev".
//
// [Layout] names the files generated in the directory. Server files are
// named after the reversed common name, so *.example.com is stored as
// com.example.*.key.pem, com.example.*.cert.pem and
// com.example.*.fullchain.pem.
//
// [koanf]: https://github.com/knadh/koanf
package config
