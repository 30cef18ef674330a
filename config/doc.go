// Package config loads the cryptokit application configuration.
//
// Values come from a YAML file, an optional .env file and the process
// environment, in increasing precedence. Every mapstructure key binds to an
// environment variable named after its path:
//
//	encryption.pass_phrase -> ENCRYPTION_PASS_PHRASE
//	encryption.init_vector -> ENCRYPTION_INIT_VECTOR
//	hmac.key               -> HMAC_KEY
//	server.port            -> SERVER_PORT
//
// WithEnvPrefix namespaces the variables.
//
//	cfg, err := config.Load(config.WithConfigFile("config.yml"))
package config
