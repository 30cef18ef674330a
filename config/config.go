package config

import (
	"time"

	"github.com/shhhinnovations/cryptokit/encryption"
	"github.com/shhhinnovations/cryptokit/observability"
	"github.com/shhhinnovations/cryptokit/server"
	"github.com/shhhinnovations/cryptokit/util"
	"github.com/shhhinnovations/cryptokit/validation"
)

// DefaultServiceName names the service in logs, traces and config lookup.
const DefaultServiceName = "cryptokit"

// Config is the complete application configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Encryption    encryption.Config    `yaml:"encryption" mapstructure:"encryption"`
	HMAC          HMACConfig           `yaml:"hmac" mapstructure:"hmac"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// HMACConfig configures the signed token service. Token routes and the
// sign/verify commands need a key; everything else runs without one.
type HMACConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
	// TTL is the default token lifetime for the sign command.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
	// Location is the zone token tick counts are expressed in: "UTC",
	// "Local" or an IANA name.
	Location string `yaml:"location" mapstructure:"location"`
}

// Loc resolves Location.
func (c HMACConfig) Loc() (*time.Location, error) {
	return time.LoadLocation(c.Location)
}

// ApplyDefaults fills zero values across every section. Secrets are
// stripped of the surrounding quotes and spaces .env files tend to add.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	c.Encryption.PassPhrase = util.SanitizeEnvValue(c.Encryption.PassPhrase)
	c.Encryption.InitVector = util.SanitizeEnvValue(c.Encryption.InitVector)
	c.Encryption.ApplyDefaults()

	c.HMAC.Key = util.SanitizeEnvValue(c.HMAC.Key)
	if c.HMAC.TTL == 0 {
		c.HMAC.TTL = 24 * time.Hour
	}
	if c.HMAC.Location == "" {
		c.HMAC.Location = "UTC"
	}

	c.Server.ApplyDefaults()

	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate reports every invalid field at once as a single INVALID_INPUT
// AppError.
func (c *Config) Validate() error {
	v := validation.New()
	v.Merge("", c.ServiceConfig.Validate())

	alg := c.Encryption.Algorithm
	v.OneOf("encryption.algorithm", string(alg), []string{
		string(encryption.AlgorithmPassthrough),
		string(encryption.AlgorithmRijndael),
		string(encryption.AlgorithmAESGCM),
		string(encryption.AlgorithmChaCha20),
	})
	if alg != encryption.AlgorithmPassthrough {
		v.Required("encryption.pass_phrase", c.Encryption.PassPhrase)
	}
	if alg == encryption.AlgorithmRijndael {
		v.Length("encryption.init_vector", c.Encryption.InitVector, encryption.InitVectorSize)
		v.Merge("encryption.derivation", c.Encryption.Derivation.Validate())
	}

	v.Custom(c.HMAC.TTL > 0, "hmac.ttl", "must be positive")
	if _, err := c.HMAC.Loc(); err != nil {
		v.AddError("hmac.location", "unknown time zone "+c.HMAC.Location)
	}

	v.Merge("server", c.Server.Validate())
	v.Merge("observability", validation.Validate(c.Observability))
	return v.Validate()
}
