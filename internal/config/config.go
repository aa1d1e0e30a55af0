// sentiric-softphone-service/internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

const maxSuffixLength = 30

// ServerConfig, HTTP ve gRPC sunucu portlarını tutar.
type ServerConfig struct {
	HttpPort string
	GRPCPort string
}

// TLSConfig, gRPC için sertifika yollarını tutar. Boşsa TLS kapalıdır.
type TLSConfig struct {
	CertPath string
	KeyPath  string
	CaPath   string
}

func (t TLSConfig) Enabled() bool {
	return t.CertPath != "" && t.KeyPath != ""
}

// RingotelConfig, uzak provisioning API'sine erişim bilgileridir.
type RingotelConfig struct {
	URL         string
	Token       string
	Timeout     time.Duration
	MaxAttempts int
}

// BandwidthSettings mirrors softphone.BandwidthCredentials for the YAML file.
type BandwidthSettings struct {
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	AccountID     string `yaml:"account_id"`
	ApplicationID string `yaml:"application_id"`
}

// SoftphoneSettings is the "default settings" block; the YAML overlay and the
// RINGOTEL_* variables both write into it.
type SoftphoneSettings struct {
	DomainSuffix         string            `yaml:"domain_suffix"`
	MaxRegistration      int               `yaml:"max_registration"`
	DefaultProtocol      string            `yaml:"default_protocol"`
	OrganizationEmailCC  string            `yaml:"organization_emailcc"`
	OrganizationRegion   string            `yaml:"organization_region"`
	OverrideDomain       string            `yaml:"override_organization_domain"`
	ServerName           string            `yaml:"server_name"`
	IntegrationProviders []string          `yaml:"integration_providers"`
	Bandwidth            BandwidthSettings `yaml:"bandwidth"`
}

type settingsFile struct {
	Ringotel SoftphoneSettings `yaml:"ringotel"`
}

// Config, uygulamanın tüm yapılandırmasını içerir.
type Config struct {
	Env          string
	LogLevel     string
	DatabaseURL  string
	RedisURL     string
	NatsURL      string
	JWTSecret    string
	CORSOrigins  []string
	OTLPEndpoint string
	Server       ServerConfig
	TLS          TLSConfig
	Ringotel     RingotelConfig
	Softphone    SoftphoneSettings
}

// Load, .env dosyasını ve ortam değişkenlerini okuyarak yapılandırmayı oluşturur.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env dosyası bulunamadı, ortam değişkenleri kullanılacak.")
	}

	timeout, err := time.ParseDuration(getEnv("RINGOTEL_API_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("RINGOTEL_API_TIMEOUT: %w", err)
	}
	attempts, err := strconv.Atoi(getEnv("RINGOTEL_API_MAX_ATTEMPTS", "1"))
	if err != nil {
		return nil, fmt.Errorf("RINGOTEL_API_MAX_ATTEMPTS: %w", err)
	}

	cfg := &Config{
		Env:          getEnv("ENV", "production"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabaseURL:  getEnvOrFail("POSTGRES_URL"),
		RedisURL:     getEnv("REDIS_URL", "redis://redis:6379"),
		NatsURL:      getEnv("NATS_URL", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CORSOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		Server: ServerConfig{
			HttpPort: getEnv("SOFTPHONE_SERVICE_HTTP_PORT", "12070"),
			GRPCPort: getEnv("SOFTPHONE_SERVICE_GRPC_PORT", "12071"),
		},
		TLS: TLSConfig{
			CertPath: getEnv("SOFTPHONE_SERVICE_CERT_PATH", ""),
			KeyPath:  getEnv("SOFTPHONE_SERVICE_KEY_PATH", ""),
			CaPath:   getEnv("GRPC_TLS_CA_PATH", ""),
		},
		Ringotel: RingotelConfig{
			URL:         getEnvOrFail("RINGOTEL_API_URL"),
			Token:       getEnvOrFail("RINGOTEL_API_TOKEN"),
			Timeout:     timeout,
			MaxAttempts: attempts,
		},
		Softphone: defaultSettings(),
	}

	if path := getEnv("SOFTPHONE_SETTINGS_FILE", ""); path != "" {
		if err := cfg.Softphone.overlayFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Softphone.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultSettings() SoftphoneSettings {
	return SoftphoneSettings{
		DomainSuffix:         "-ringotel",
		MaxRegistration:      1,
		DefaultProtocol:      "sip-tcp",
		IntegrationProviders: []string{"Bandwidth"},
	}
}

// overlayFile, YAML dosyasında dolu olan alanları mevcut değerlerin üzerine yazar.
func (s *SoftphoneSettings) overlayFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("settings file: %w", err)
	}
	var file settingsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("settings file %s: %w", path, err)
	}
	f := file.Ringotel
	setString(&s.DomainSuffix, f.DomainSuffix)
	setString(&s.DefaultProtocol, f.DefaultProtocol)
	setString(&s.OrganizationEmailCC, f.OrganizationEmailCC)
	setString(&s.OrganizationRegion, f.OrganizationRegion)
	setString(&s.OverrideDomain, f.OverrideDomain)
	setString(&s.ServerName, f.ServerName)
	setString(&s.Bandwidth.Username, f.Bandwidth.Username)
	setString(&s.Bandwidth.Password, f.Bandwidth.Password)
	setString(&s.Bandwidth.AccountID, f.Bandwidth.AccountID)
	setString(&s.Bandwidth.ApplicationID, f.Bandwidth.ApplicationID)
	if f.MaxRegistration != 0 {
		s.MaxRegistration = f.MaxRegistration
	}
	if len(f.IntegrationProviders) > 0 {
		s.IntegrationProviders = f.IntegrationProviders
	}
	return nil
}

// applyEnvOverrides: tanımlı ortam değişkenleri dosyadaki değerlere üstün gelir.
func (s *SoftphoneSettings) applyEnvOverrides() error {
	lookupString(&s.DomainSuffix, "RINGOTEL_DOMAIN_SUFFIX")
	lookupString(&s.DefaultProtocol, "RINGOTEL_DEFAULT_PROTOCOL")
	lookupString(&s.OrganizationEmailCC, "RINGOTEL_ORGANIZATION_EMAILCC")
	lookupString(&s.OrganizationRegion, "RINGOTEL_ORGANIZATION_REGION")
	lookupString(&s.OverrideDomain, "RINGOTEL_OVERRIDE_ORGANIZATION_DOMAIN")
	lookupString(&s.ServerName, "RINGOTEL_SERVER_NAME")
	lookupString(&s.Bandwidth.Username, "RINGOTEL_BANDWIDTH_USERNAME")
	lookupString(&s.Bandwidth.Password, "RINGOTEL_BANDWIDTH_PASSWORD")
	lookupString(&s.Bandwidth.AccountID, "RINGOTEL_BANDWIDTH_ACCOUNT_ID")
	lookupString(&s.Bandwidth.ApplicationID, "RINGOTEL_BANDWIDTH_APPLICATION_ID")
	if v, ok := os.LookupEnv("RINGOTEL_INTEGRATION_PROVIDERS"); ok {
		s.IntegrationProviders = splitCSV(v)
	}
	if v, ok := os.LookupEnv("RINGOTEL_MAX_REGISTRATION"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("RINGOTEL_MAX_REGISTRATION: %w", err)
		}
		s.MaxRegistration = n
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.Softphone.DomainSuffix) >= maxSuffixLength {
		errs = append(errs, fmt.Errorf("domain suffix %q must be shorter than %d characters", c.Softphone.DomainSuffix, maxSuffixLength))
	}
	if c.Softphone.MaxRegistration < 1 {
		errs = append(errs, fmt.Errorf("max registration must be at least 1, got %d", c.Softphone.MaxRegistration))
	}
	if c.Ringotel.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("ringotel max attempts must be at least 1, got %d", c.Ringotel.MaxAttempts))
	}
	if c.Ringotel.Timeout <= 0 {
		errs = append(errs, errors.New("ringotel timeout must be positive"))
	}
	return errors.Join(errs...)
}

// Settings converts the loaded block into the provisioning core's settings.
func (c *Config) Settings() softphone.Settings {
	s := c.Softphone
	return softphone.Settings{
		DomainSuffix:         s.DomainSuffix,
		MaxRegistration:      s.MaxRegistration,
		DefaultProtocol:      s.DefaultProtocol,
		OrganizationEmailCC:  s.OrganizationEmailCC,
		Region:               s.OrganizationRegion,
		OverrideDomain:       s.OverrideDomain,
		ServerName:           s.ServerName,
		IntegrationProviders: append([]string(nil), s.IntegrationProviders...),
		Bandwidth: softphone.BandwidthCredentials{
			Username:      s.Bandwidth.Username,
			Password:      s.Bandwidth.Password,
			AccountID:     s.Bandwidth.AccountID,
			ApplicationID: s.Bandwidth.ApplicationID,
		},
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func lookupString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv, belirtilen anahtarla bir ortam değişkenini okur, bulunamazsa varsayılan değeri döndürür.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvOrFail, belirtilen anahtarla bir ortam değişkenini okur, bulunamazsa programı sonlandırır.
func getEnvOrFail(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		// Logger henüz başlatılmadığı için fmt kullanıyoruz.
		fmt.Fprintf(os.Stderr, "Kritik Hata: Gerekli ortam değişkeni tanımlı değil: %s\n", key)
		os.Exit(1)
	}
	return value
}
