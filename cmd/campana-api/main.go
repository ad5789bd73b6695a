package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"campana-api/internal/config"
	"campana-api/internal/database"
	"campana-api/internal/flow"
	httpapi "campana-api/internal/http"
	"campana-api/internal/logger"
	"campana-api/internal/repository"
	"campana-api/internal/service"
	"campana-api/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "campana-api")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Call sessions live in Redis so they survive restarts; the memory
	// store keeps single-node dev setups working without one.
	var kv store.KV
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		kv = store.NewRedisKV(redisClient)
	} else {
		log.Warn("redis disabled, using in-process session store")
		kv = store.NewMemoryKV()
	}
	sessions := flow.NewKVSessionStore(kv, flow.DefaultSessionTTL)

	personasRepo := repository.NewPostgresPersonasRepository(db)
	electoresRepo := repository.NewPostgresElectoresRepository(db)
	perfilesRepo := repository.NewPostgresPerfilesRepository(db)
	flowRepo := repository.NewPostgresFlowRepository(db)
	llamadasRepo := repository.NewPostgresLlamadasRepository(db)
	listaRepo := repository.NewPostgresListaRepository(db)
	gastosRepo := repository.NewPostgresGastosRepository(db)
	eventosRepo := repository.NewPostgresEventosRepository(db)
	campanasRepo := repository.NewPostgresCampanasRepository(db)

	llamadaSvc := service.NewLlamadaService(electoresRepo, personasRepo, llamadasRepo, flowRepo, sessions, log)
	flowConfigSvc := service.NewFlowConfigService(flowRepo, log)
	electorSvc := service.NewElectorService(electoresRepo, personasRepo, log)
	mailer := service.NewMailerClient(cfg.Mailer.BaseURL, cfg.Mailer.APIKey, cfg.Mailer.From, log)
	campanaSvc := service.NewCampanaService(campanasRepo, mailer, log)

	identity := httpapi.NewIdentity(perfilesRepo)
	router := httpapi.NewRouter(log)
	router.RegisterHealth()
	router.RegisterLlamadaRoutes(httpapi.NewLlamadaHandler(identity, llamadaSvc, log))
	router.RegisterFlowConfigRoutes(httpapi.NewFlowConfigHandler(identity, flowConfigSvc, log))
	router.RegisterElectorRoutes(httpapi.NewElectorHandler(identity, electorSvc, log))
	router.RegisterPersonaRoutes(httpapi.NewPersonaHandler(identity, personasRepo, log))
	router.RegisterListaRoutes(httpapi.NewListaHandler(identity, listaRepo, log))
	router.RegisterGastoRoutes(httpapi.NewGastoHandler(identity, gastosRepo, log))
	router.RegisterEventoRoutes(httpapi.NewEventoHandler(identity, eventosRepo, log))
	router.RegisterPerfilRoutes(httpapi.NewPerfilHandler(identity, perfilesRepo, log))
	router.RegisterCampanaRoutes(httpapi.NewCampanaHandler(identity, campanaSvc, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	}

	if err := srv.Stop(); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}
}
