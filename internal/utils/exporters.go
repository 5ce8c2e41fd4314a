package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2" // Para XLSX

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
)

const (
	reportSheetLinhas = "Linhas"
	reportSheetResumo = "Resumo"
)

// reportHeaders são as colunas da aba de linhas do relatório de importação.
var reportHeaders = []string{
	"Linha", "ID Envio", "NumeroProcessoRio", "CNPJ", "Situação", "Status HTTP", "Mensagem", "Campos Inválidos",
}

// ReportFileName gera o nome do relatório a partir do arquivo importado.
func ReportFileName(importedFile string, at time.Time) string {
	base := strings.TrimSuffix(filepath.Base(importedFile), filepath.Ext(importedFile))
	if base == "" || base == "." {
		base = "importacao"
	}
	return fmt.Sprintf("relatorio_%s_%s.xlsx", base, at.Format("20060102_150405"))
}

// ExportImportReport grava o relatório de importação em XLSX no diretório informado
// e retorna o caminho final. Um relatório com o mesmo nome é preservado como backup.
func ExportImportReport(report *models.ImportReport, outputPath string, defaultDir string) (string, error) {
	if report == nil {
		return "", fmt.Errorf("%w: relatório de importação nulo", appErrors.ErrInvalidInput)
	}
	if outputPath == "" {
		outputPath = ReportFileName(report.File, report.FinishedAt)
	}
	finalPath := resolveOutputPath(outputPath, defaultDir, ".xlsx")

	if fileExists(finalPath) {
		if err := createBackup(finalPath); err != nil {
			return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao criar backup de '%s': %v", finalPath, err)
		}
	}

	xlsx := excelize.NewFile()
	defer func() {
		if err := xlsx.Close(); err != nil {
			appLogger.Errorf("Erro ao fechar arquivo XLSX: %v", err)
		}
	}()

	headerStyle, err := xlsx.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1A659E"}, Pattern: 1},
		Font:      &excelize.Font{Color: "FFFFFF", Bold: true, Size: 11, Family: "Segoe UI"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border: []excelize.Border{
			{Type: "bottom", Color: "FFFFFF", Style: 1},
		},
	})
	if err != nil {
		return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao criar estilo do cabeçalho: %v", err)
	}
	failStyle, err := xlsx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao criar estilo de falha: %v", err)
	}

	// Excelize cria "Sheet1" por padrão; renomeia para a aba de linhas.
	if err := xlsx.SetSheetName("Sheet1", reportSheetLinhas); err != nil {
		return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao renomear planilha: %v", err)
	}

	for colIdx, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		xlsx.SetCellValue(reportSheetLinhas, cell, header)
		xlsx.SetCellStyle(reportSheetLinhas, cell, cell, headerStyle)
	}

	for rowIdx, row := range report.Rows {
		values := []interface{}{
			row.Line,
			submissionIDCell(row.SubmissionID),
			row.NumeroProcessoRio,
			row.CNPJ,
			row.Status,
			statusCodeCell(row.StatusCode),
			row.Message,
			strings.Join(row.InvalidFields, ", "),
		}
		first, _ := excelize.CoordinatesToCellName(1, rowIdx+2) // +2 porque cabeçalho está na linha 1
		if err := xlsx.SetSheetRow(reportSheetLinhas, first, &values); err != nil {
			return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao escrever linha %d: %v", row.Line, err)
		}
		if row.Status != models.ImportStatusEnviado {
			last, _ := excelize.CoordinatesToCellName(len(reportHeaders), rowIdx+2)
			xlsx.SetCellStyle(reportSheetLinhas, first, last, failStyle)
		}
	}
	xlsx.SetColWidth(reportSheetLinhas, "A", "A", 8)
	xlsx.SetColWidth(reportSheetLinhas, "B", "B", 38)
	xlsx.SetColWidth(reportSheetLinhas, "C", "F", 20)
	xlsx.SetColWidth(reportSheetLinhas, "G", "H", 60)

	if _, err := xlsx.NewSheet(reportSheetResumo); err != nil {
		return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao criar planilha '%s': %v", reportSheetResumo, err)
	}
	summary := [][]interface{}{
		{"Arquivo", report.File},
		{"Início", report.StartedAt.Format(time.RFC3339)},
		{"Fim", report.FinishedAt.Format(time.RFC3339)},
		{"Linhas", len(report.Rows)},
		{"Enviadas", report.Succeeded},
		{"Com falha", report.Failed},
	}
	for i, line := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := xlsx.SetSheetRow(reportSheetResumo, cell, &line); err != nil {
			return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao escrever resumo: %v", err)
		}
	}
	xlsx.SetColWidth(reportSheetResumo, "A", "A", 14)
	xlsx.SetColWidth(reportSheetResumo, "B", "B", 50)
	idx, err := xlsx.GetSheetIndex(reportSheetLinhas)
	if err != nil {
		return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao localizar aba '%s': %v", reportSheetLinhas, err)
	}
	xlsx.SetActiveSheet(idx)

	if err := xlsx.SaveAs(finalPath); err != nil {
		return "", appErrors.WrapErrorf(appErrors.ErrExport, "falha ao salvar arquivo XLSX '%s': %v", finalPath, err)
	}
	appLogger.Infof("Relatório de importação exportado para XLSX: %s", finalPath)
	return finalPath, nil
}

func submissionIDCell(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func statusCodeCell(code int) interface{} {
	if code == 0 {
		return ""
	}
	return code
}

// --- Funções Utilitárias Internas ---
func resolveOutputPath(path string, defaultDir string, defaultExt string) string {
	p := filepath.Clean(path)
	if !filepath.IsAbs(p) {
		absDefaultDir, _ := filepath.Abs(defaultDir)
		p = filepath.Join(absDefaultDir, p)
	}

	// Garante que o diretório pai exista
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		appLogger.Warnf("Não foi possível criar diretório de exportação '%s': %v. Usando diretório atual.", dir, err)
		p = filepath.Base(p)
	}

	if ext := filepath.Ext(p); ext == "" {
		p += defaultExt
	} else if !strings.EqualFold(ext, defaultExt) {
		appLogger.Debugf("Extensão de arquivo '%s' é diferente da padrão '%s' para o formato.", ext, defaultExt)
	}
	return p
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func createBackup(path string) error {
	timestamp := time.Now().Format("20060102_150405")
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	backupPath := fmt.Sprintf("%s_backup_%s%s", base, timestamp, ext)

	err := os.Rename(path, backupPath)
	if err == nil {
		appLogger.Infof("Backup criado: %s", backupPath)
	}
	return err
}
