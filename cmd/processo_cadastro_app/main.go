package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/repositories"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/services"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/ui"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

// shutdownTimeout é o tempo dado aos envios em andamento ao encerrar.
const shutdownTimeout = 15 * time.Second

func main() {
	// --- 1. Carregar Configurações ---
	cfg, err := core.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Erro CRÍTICO ao carregar configuração: %v", err)
	}

	// --- 2. Configurar Logger ---
	if err := appLogger.SetupLogger(cfg); err != nil {
		log.Fatalf("Erro CRÍTICO ao configurar logger: %v", err)
	}
	appLogger.Info("=====================================================")
	appLogger.Infof("Iniciando %s v%s...", cfg.AppName, cfg.AppVersion)
	appLogger.Debugf("Modo Debug: %t", cfg.AppDebug)
	appLogger.Info("=====================================================")

	// --- 3. Repositório e Serviços ---
	apiRepo := repositories.NewHTTPProcessoAPIRepository(cfg.APIBaseURL, nil, cfg.APITimeout)
	processoService := services.NewProcessoService(apiRepo, utils.ValidationOptions{VerifyCNPJDigits: cfg.CNPJVerifyDigits})
	appLogger.Infof("API de cadastro: %s", apiRepo.Endpoint())

	// --- 4. Servidor HTTP ---
	server, err := ui.NewServer(cfg, processoService)
	if err != nil {
		appLogger.Fatalf("Erro CRÍTICO ao carregar a interface: %v", err)
	}
	srv := server.NewHTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		appLogger.Infof("Servidor ouvindo em %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	// --- 5. Aguardar sinal de encerramento ---
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Erro ao executar o servidor: %v", err)
		}
	case <-ctx.Done():
		appLogger.Info("Sinal de encerramento recebido. Finalizando envios pendentes...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Errorf("Erro ao encerrar o servidor: %v", err)
			os.Exit(1)
		}
	}

	appLogger.Info("Aplicação encerrada normalmente.")
}
