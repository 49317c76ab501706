package apns

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment selects the APNS environment the client talks to.
type Environment string

// Supported environments.
const (
	Production Environment = "production"
	Sandbox    Environment = "sandbox"
)

// Protocol selects the transport used to deliver notifications.
type Protocol string

// Supported transports.
const (
	// Binary is the legacy persistent-socket protocol with asynchronous
	// error frames.
	Binary Protocol = "binary"
	// HTTP2 is the provider API with one acknowledged request per
	// notification.
	HTTP2 Protocol = "http2"
)

// Config describes a client configuration. Exactly one of Certificate or
// ProviderToken must be set; token authentication is only supported by the
// HTTP/2 transport.
type Config struct {
	Environment Environment
	Protocol    Protocol

	Certificate   *tls.Certificate // provider certificate credential
	ProviderToken *ProviderToken   // provider token credential (HTTP/2 only)
	RootCA        *x509.CertPool   // optional root authority for peer validation

	ConnectTimeout time.Duration // handshake timeout
	WriteDelay     time.Duration // pause after each binary frame write
	ReadWait       time.Duration // error-frame wait after a write
	RetryCount     int           // connect retries after the first failure; negative disables retries
	RetryDelay     time.Duration // fixed delay between connect attempts

	Logger Logger // defaults to NopLogger

	// dial overrides the transport dialer in tests.
	dial func(addr string) (net.Conn, error)
}

// withDefaults fills unset timing values.
func (config *Config) withDefaults() {
	if config.Environment == "" {
		config.Environment = Production
	}
	if config.Protocol == "" {
		config.Protocol = HTTP2
	}
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	if config.WriteDelay <= 0 {
		config.WriteDelay = DefaultWriteDelay
	}
	if config.ReadWait <= 0 {
		config.ReadWait = DefaultReadWait
	}
	switch {
	case config.RetryCount == 0:
		config.RetryCount = DefaultRetryCount
	case config.RetryCount < 0:
		config.RetryCount = 0 // отрицательное значение отключает повторы
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	if config.Logger == nil {
		config.Logger = NopLogger
	}
}

// validate reports configuration errors which are fatal and never retried.
func (config *Config) validate() error {
	switch config.Environment {
	case Production, Sandbox:
	default:
		return &ConfigError{Reason: "unknown environment " + string(config.Environment)}
	}
	switch config.Protocol {
	case Binary, HTTP2:
	default:
		return &ConfigError{Reason: "unknown protocol " + string(config.Protocol)}
	}
	if config.Certificate == nil && config.ProviderToken == nil {
		return &ConfigError{Reason: "no certificate or provider token"}
	}
	if config.Certificate != nil && config.ProviderToken != nil {
		return &ConfigError{Reason: "both certificate and provider token set"}
	}
	if config.Protocol == Binary && config.ProviderToken != nil {
		return &ConfigError{Reason: "provider token requires the http2 protocol"}
	}
	return nil
}

// gateway возвращает адрес сервера бинарного протокола для окружения.
func (config *Config) gateway() string {
	if config.Environment == Sandbox {
		return ServerBinarySandbox
	}
	return ServerBinary
}

// host возвращает адрес HTTP/2 сервера для окружения.
func (config *Config) host() string {
	if config.Environment == Sandbox {
		return ServerHTTP2Sandbox
	}
	return ServerHTTP2
}

// feedback возвращает адрес feedback сервера для окружения.
func (config *Config) feedback() string {
	if config.Environment == Sandbox {
		return ServerFeedbackSandbox
	}
	return ServerFeedback
}

// tlsConfig возвращает конфигурацию TLS для соединения с указанным сервером.
func (config *Config) tlsConfig(serverName string) *tls.Config {
	tconf := &tls.Config{
		ServerName: serverName,
		RootCAs:    config.RootCA,
	}
	if config.Certificate != nil {
		tconf.Certificates = []tls.Certificate{*config.Certificate}
	}
	return tconf
}

// Dial устанавливает TLS-соединение с указанным сервером APNS.
func (config *Config) Dial(addr string) (net.Conn, error) {
	if config.dial != nil {
		return config.dial(addr)
	}
	serverName, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	dialer := &net.Dialer{Timeout: config.ConnectTimeout}
	return tls.DialWithDialer(dialer, "tcp", addr, config.tlsConfig(serverName))
}

// configFile описывает формат файла конфигурации.
type configFile struct {
	Environment string `json:"environment" yaml:"environment"`
	Protocol    string `json:"protocol" yaml:"protocol"`

	Certificate struct {
		File     string `json:"file" yaml:"file"`         // .p12 или .pem
		Key      string `json:"key" yaml:"key"`           // ключ для .pem
		Password string `json:"password" yaml:"password"` // пароль .p12
	} `json:"certificate" yaml:"certificate"`

	Token struct {
		TeamID string `json:"teamId" yaml:"teamId"`
		KeyID  string `json:"keyId" yaml:"keyId"`
		File   string `json:"file" yaml:"file"` // ключ .p8
	} `json:"token" yaml:"token"`
}

// LoadConfig загружает конфигурацию клиента из JSON или YAML файла,
// в зависимости от расширения, и читает указанные в ней файлы сертификатов
// и ключей.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var file configFile
	switch ext := filepath.Ext(filename); ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, err
	}
	config := &Config{
		Environment: Environment(file.Environment),
		Protocol:    Protocol(file.Protocol),
	}
	switch {
	case file.Token.File != "":
		pt, err := NewProviderToken(file.Token.TeamID, file.Token.KeyID)
		if err != nil {
			return nil, err
		}
		if err := pt.LoadPrivateKey(file.Token.File); err != nil {
			return nil, err
		}
		config.ProviderToken = pt
	case filepath.Ext(file.Certificate.File) == ".p12":
		cert, err := LoadCertificate(file.Certificate.File, file.Certificate.Password)
		if err != nil {
			return nil, err
		}
		config.Certificate = cert
	case file.Certificate.File != "":
		cert, err := tls.LoadX509KeyPair(file.Certificate.File, file.Certificate.Key)
		if err != nil {
			return nil, err
		}
		config.Certificate = &cert
	}
	return config, nil
}
