// sentiric-softphone-service/internal/app/app.go
package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/sentiric/sentiric-softphone-service/internal/auth"
	"github.com/sentiric/sentiric-softphone-service/internal/config"
	"github.com/sentiric/sentiric-softphone-service/internal/database"
	"github.com/sentiric/sentiric-softphone-service/internal/events"
	"github.com/sentiric/sentiric-softphone-service/internal/lock"
	"github.com/sentiric/sentiric-softphone-service/internal/observability/tracing"
	"github.com/sentiric/sentiric-softphone-service/internal/repository/postgres"
	"github.com/sentiric/sentiric-softphone-service/internal/ringotel"
	platformServer "github.com/sentiric/sentiric-softphone-service/internal/server"
	grpchealth "github.com/sentiric/sentiric-softphone-service/internal/server/grpc"
	"github.com/sentiric/sentiric-softphone-service/internal/server/rest"
	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

const ServiceName = "softphone-service"

type App struct {
	Cfg *config.Config
	Log zerolog.Logger
}

func NewApp(cfg *config.Config, log zerolog.Logger) *App {
	return &App{Cfg: cfg, Log: log}
}

func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.Cfg.JWTSecret == "" {
		a.Log.Fatal().Msg("JWT_SECRET tanımlı değil, dispatch uç noktası korunamaz")
	}

	shutdownTracing, err := tracing.Init(ctx, a.Log, a.Cfg.OTLPEndpoint, ServiceName, a.Cfg.Env)
	if err != nil {
		a.Log.Fatal().Err(err).Msg("Tracing başlatılamadı")
	}

	// 1. Altyapı Bağlantıları
	dbPool, err := database.NewConnection(ctx, a.Cfg.DatabaseURL, a.Log)
	if err != nil {
		a.Log.Fatal().Err(err).Msg("Veritabanı bağlantısı kurulamadı")
	}
	defer dbPool.Close()

	redisClient := a.setupRedis(ctx)
	defer redisClient.Close()

	nc, err := events.Connect(a.Cfg.NatsURL, ServiceName, a.Log)
	if err != nil {
		a.Log.Error().Err(err).Msg("NATS bağlantısı kurulamadı, olaylar yayınlanmayacak")
	}
	var publisher softphone.Publisher
	if nc != nil {
		defer nc.Drain()
		publisher = events.NewPublisher(nc, a.Log)
	}

	// 2. Bağımlılıkların Oluşturulması (Dependency Injection)
	repo := postgres.NewRepository(dbPool, a.Log)
	api := ringotel.NewClient(ringotel.Config{
		URL:         a.Cfg.Ringotel.URL,
		Token:       a.Cfg.Ringotel.Token,
		Timeout:     a.Cfg.Ringotel.Timeout,
		MaxAttempts: a.Cfg.Ringotel.MaxAttempts,
	}, nil, a.Log)
	tenantLock := lock.NewTenantLock(redisClient, 0, 0, a.Log)
	svc := softphone.NewService(repo, api, tenantLock, publisher, a.Cfg.Settings(), a.Log)

	// 3. Sağlık yoklaması: gRPC health ve REST /readyz aynı kontrolleri kullanır.
	healthSrv := health.NewServer()
	reporter := grpchealth.NewHealthReporter(healthSrv, map[string]grpchealth.Check{
		"postgres": func(ctx context.Context) error { return dbPool.Ping(ctx) },
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		"nats":     natsCheck(nc),
	}, 10*time.Second, a.Log)
	go reporter.Run(ctx)

	grpcServer, err := platformServer.NewGRPCServer(a.Cfg.TLS, a.Log)
	if err != nil {
		a.Log.Fatal().Err(err).Msg("gRPC sunucusu oluşturulamadı")
	}
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	reflection.Register(grpcServer)

	jwt := auth.NewJWTManager(a.Cfg.JWTSecret, 0)
	restServer := rest.NewServer(svc, jwt, a.Cfg.CORSOrigins, reporter.Probe, a.Log)

	// 4. Sunucuları Başlat
	httpServer := a.startHttpServer(restServer)
	a.startGRPCServer(grpcServer)

	// 5. Graceful Shutdown
	a.waitForShutdown(cancel, grpcServer, httpServer, shutdownTracing)
}

func natsCheck(nc *nats.Conn) grpchealth.Check {
	return func(context.Context) error {
		if nc == nil {
			return nil
		}
		if !nc.IsConnected() {
			return fmt.Errorf("nats status %s", nc.Status())
		}
		return nil
	}
}

func (a *App) setupRedis(ctx context.Context) *redis.Client {
	redisOpts, err := redis.ParseURL(a.Cfg.RedisURL)
	if err != nil {
		a.Log.Fatal().Err(err).Msg("Geçersiz Redis URL")
	}
	redisClient := redis.NewClient(redisOpts)

	if err := redisClient.Ping(ctx).Err(); err != nil {
		a.Log.Error().Err(err).Msg("Redis bağlantısı başarısız, organizasyon oluşturma kilitlenemeyecek")
	} else {
		a.Log.Info().Str("url", redisOpts.Addr).Msg("✅ Redis bağlantısı sağlandı")
	}
	return redisClient
}

func (a *App) startHttpServer(rs *rest.Server) *http.Server {
	srv := rs.HTTPServer(fmt.Sprintf(":%s", a.Cfg.Server.HttpPort))

	go func() {
		a.Log.Info().Str("port", a.Cfg.Server.HttpPort).Msg("HTTP sunucusu (dispatch, health & metrics) dinleniyor...")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Log.Fatal().Err(err).Msg("HTTP sunucusu başlatılamadı")
		}
	}()
	return srv
}

func (a *App) startGRPCServer(srv *grpc.Server) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", a.Cfg.Server.GRPCPort))
	if err != nil {
		a.Log.Fatal().Err(err).Msg("gRPC portu dinlenemedi")
	}

	go func() {
		a.Log.Info().Str("port", a.Cfg.Server.GRPCPort).Msg("gRPC sunucusu dinleniyor")
		if err := srv.Serve(lis); err != nil {
			a.Log.Fatal().Err(err).Msg("gRPC sunucusu başlatılamadı")
		}
	}()
}

func (a *App) waitForShutdown(cancel context.CancelFunc, grpcSrv *grpc.Server, httpSrv *http.Server, shutdownTracing func(context.Context) error) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.Log.Warn().Msg("Kapatma sinyali alındı, servisler durduruluyor...")
	cancel()

	ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	a.Log.Info().Msg("gRPC sunucusu durduruluyor...")
	grpcSrv.GracefulStop()
	a.Log.Info().Msg("gRPC sunucusu durduruldu.")

	a.Log.Info().Msg("HTTP sunucusu durduruluyor...")
	if err := httpSrv.Shutdown(ctx); err != nil {
		a.Log.Error().Err(err).Msg("HTTP sunucusu düzgün kapatılamadı.")
	} else {
		a.Log.Info().Msg("HTTP sunucusu durduruldu.")
	}

	if err := shutdownTracing(ctx); err != nil {
		a.Log.Error().Err(err).Msg("Tracing kapatılamadı.")
	}

	a.Log.Info().Msg("Servis başarıyla durduruldu.")
}
