package config

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// AppConfig is the root configuration container, loaded from
// config/app.json with environment overrides.
type AppConfig struct {
	Debug    bool     `json:"debug" koanf:"debug"`
	Server   Server   `json:"server" koanf:"server"`
	Auth     Auth     `json:"auth" koanf:"auth"`
	Database Database `json:"database" koanf:"database"`
	Mailer   Mailer   `json:"mailer" koanf:"mailer"`
}

type Server struct {
	Addr    string `json:"addr" koanf:"addr"`
	BaseURL string `json:"base_url" koanf:"base_url"`
}

type Auth struct {
	SigningKey      string   `json:"signing_key" koanf:"signing_key"`
	SigningMethod   string   `json:"signing_method" koanf:"signing_method"`
	ContextKey      string   `json:"context_key" koanf:"context_key"`
	TokenExpiration int      `json:"token_expiration" koanf:"token_expiration"`
	TokenLookup     string   `json:"token_lookup" koanf:"token_lookup"`
	AuthScheme      string   `json:"auth_scheme" koanf:"auth_scheme"`
	Issuer          string   `json:"issuer" koanf:"issuer"`
	Audience        []string `json:"audience" koanf:"audience"`
}

type Database struct {
	DSN string `json:"dsn" koanf:"dsn"`
}

type Mailer struct {
	Host        string `json:"host" koanf:"host"`
	Port        int    `json:"port" koanf:"port"`
	Username    string `json:"username" koanf:"username"`
	Password    string `json:"password" koanf:"password"`
	From        string `json:"from" koanf:"from"`
	TemplateDir string `json:"template_dir" koanf:"template_dir"`
}

// Validate checks the invariants the app cannot start without.
func (a AppConfig) Validate() error {
	if err := validation.ValidateStruct(&a.Auth,
		validation.Field(&a.Auth.SigningKey, validation.Required, validation.Length(32, 0)),
		validation.Field(&a.Auth.TokenExpiration, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}

	return validation.ValidateStruct(&a.Database,
		validation.Field(&a.Database.DSN, validation.Required),
	)
}

func (a AppConfig) GetServer() Server {
	return a.Server
}

func (a AppConfig) GetAuth() Auth {
	return a.Auth
}

func (a AppConfig) GetDatabase() Database {
	return a.Database
}

func (a AppConfig) GetMailer() Mailer {
	return a.Mailer
}

func (s Server) GetAddr() string {
	if s.Addr == "" {
		return ":3000"
	}
	return s.Addr
}

func (s Server) GetBaseURL() string {
	if s.BaseURL == "" {
		return "http://localhost:3000"
	}
	return s.BaseURL
}

func (d Database) GetDSN() string {
	if d.DSN == "" {
		return "file::memory:?cache=shared"
	}
	return d.DSN
}

// The Auth getters satisfy the auth package Config interface.

func (a Auth) GetSigningKey() string {
	return a.SigningKey
}

func (a Auth) GetSigningMethod() string {
	if a.SigningMethod == "" {
		return "HS256"
	}
	return a.SigningMethod
}

func (a Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "user"
	}
	return a.ContextKey
}

func (a Auth) GetTokenExpiration() int {
	if a.TokenExpiration == 0 {
		return 24
	}
	return a.TokenExpiration
}

func (a Auth) GetTokenLookup() string {
	if a.TokenLookup == "" {
		return "header:Authorization,cookie:jwt"
	}
	return a.TokenLookup
}

func (a Auth) GetAuthScheme() string {
	if a.AuthScheme == "" {
		return "Bearer"
	}
	return a.AuthScheme
}

func (a Auth) GetIssuer() string {
	if a.Issuer == "" {
		return "safespace-api"
	}
	return a.Issuer
}

func (a Auth) GetAudience() []string {
	if len(a.Audience) == 0 {
		return []string{"safespace"}
	}
	return a.Audience
}
