// Comando importador envia em lote os processos de uma planilha (.xlsx ou .csv)
// e grava um relatório .xlsx com o resultado de cada linha.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/repositories"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/services"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

func main() {
	arquivo := flag.String("arquivo", "", "planilha com os processos (.xlsx, .xlsm ou .csv)")
	envPath := flag.String("env", ".env", "arquivo .env com a configuração")
	relatorio := flag.String("relatorio", "", "caminho do relatório .xlsx (padrão: IMPORT_REPORT_DIR)")
	estrito := flag.Bool("estrito", false, "sair com código 2 se alguma linha não for enviada")
	flag.Parse()

	if *arquivo == "" {
		fmt.Fprintln(os.Stderr, "uso: importador -arquivo processos.xlsx [-env .env] [-relatorio saida.xlsx] [-estrito]")
		os.Exit(64)
	}

	cfg, err := core.LoadConfig(*envPath)
	if err != nil {
		log.Fatalf("Erro CRÍTICO ao carregar configuração: %v", err)
	}
	if err := appLogger.SetupLogger(cfg); err != nil {
		log.Fatalf("Erro CRÍTICO ao configurar logger: %v", err)
	}

	apiRepo := repositories.NewHTTPProcessoAPIRepository(cfg.APIBaseURL, nil, cfg.APITimeout)
	processoService := services.NewProcessoService(apiRepo, utils.ValidationOptions{VerifyCNPJDigits: cfg.CNPJVerifyDigits})
	importService := services.NewImportService(processoService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := importService.ImportFile(ctx, *arquivo)
	if err != nil && report == nil {
		appLogger.Fatalf("Importação falhou: %v", err)
	}
	if err != nil && errors.Is(err, context.Canceled) {
		appLogger.Warn("Importação interrompida. O relatório conterá apenas as linhas processadas.")
	}

	path, errExport := utils.ExportImportReport(report, *relatorio, cfg.ImportReportDir)
	if errExport != nil {
		appLogger.Fatalf("Erro ao gravar relatório: %v", errExport)
	}

	fmt.Printf("Enviadas: %d | Com falha: %d | Relatório: %s\n", report.Succeeded, report.Failed, path)
	if *estrito && report.Failed > 0 {
		os.Exit(2)
	}
}
