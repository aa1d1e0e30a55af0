// sentiric-softphone-service/internal/server/grpc.go
package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/sentiric/sentiric-softphone-service/internal/config"
)

// NewGRPCServer, sağlık servisi için bir gRPC sunucusu oluşturur.
// Sertifika yolları verilmişse TLS, CA da verilmişse mTLS kullanılır.
func NewGRPCServer(cfg config.TLSConfig, log zerolog.Logger) (*grpc.Server, error) {
	if !cfg.Enabled() {
		log.Warn().Msg("gRPC TLS yapılandırılmadı, sunucu şifresiz dinleyecek")
		return grpc.NewServer(), nil
	}

	creds, err := loadTLS(cfg)
	if err != nil {
		return nil, err
	}
	return grpc.NewServer(grpc.Creds(creds)), nil
}

func loadTLS(cfg config.TLSConfig) (credentials.TransportCredentials, error) {
	certificate, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("sunucu sertifikası yüklenemedi: %w", err)
	}

	tlsCfg := &tls.Config{
		Certificates: []tls.Certificate{certificate},
		MinVersion:   tls.VersionTLS12,
	}

	if cfg.CaPath != "" {
		caCert, err := os.ReadFile(cfg.CaPath)
		if err != nil {
			return nil, fmt.Errorf("CA sertifikası okunamadı: %w", err)
		}
		caPool := x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("CA sertifikası havuza eklenemedi")
		}
		tlsCfg.ClientAuth = tls.RequireAndVerifyClientCert
		tlsCfg.ClientCAs = caPool
	}

	return credentials.NewTLS(tlsCfg), nil
}
