package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8" // Para checagem de encoding

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap" // Para Latin-1
	"golang.org/x/text/transform"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

// ImportService define a importação em lote de processos a partir de planilhas.
type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*models.ImportReport, error)
}

// importServiceImpl é a implementação de ImportService.
type importServiceImpl struct {
	processos ProcessoService
	now       func() time.Time
}

// NewImportService cria uma nova instância de ImportService.
func NewImportService(processos ProcessoService) ImportService {
	if processos == nil {
		appLogger.Fatalf("Dependências nulas fornecidas para NewImportService")
	}
	return &importServiceImpl{processos: processos, now: time.Now}
}

// EmpenhoColumn monta o nome da coluna de um campo de empenho: "NE_1", "FR_2"...
func EmpenhoColumn(field string, n int) string {
	return fmt.Sprintf("%s_%d", field, n)
}

// ExpectedColumns são as colunas obrigatórias: campos do processo e do primeiro empenho.
// As colunas dos empenhos 2 e 3 são opcionais.
func ExpectedColumns() []string {
	cols := append([]string{}, models.ProcessoFields...)
	for _, field := range models.EmpenhoFields {
		cols = append(cols, EmpenhoColumn(field, 1))
	}
	return cols
}

// AllColumns inclui também as colunas opcionais dos empenhos 2 e 3.
func AllColumns() []string {
	cols := append([]string{}, models.ProcessoFields...)
	for n := 1; n <= models.MaxEmpenhos; n++ {
		for _, field := range models.EmpenhoFields {
			cols = append(cols, EmpenhoColumn(field, n))
		}
	}
	return cols
}

// ImportFile lê o arquivo (.xlsx ou .csv) e envia cada linha, em ordem, como um processo.
// Uma linha com falha não interrompe o lote; o cancelamento do contexto sim.
func (s *importServiceImpl) ImportFile(ctx context.Context, filePath string) (*models.ImportReport, error) {
	if _, err := os.Stat(filePath); err != nil {
		appLogger.Errorf("Arquivo de importação não encontrado: %s", filePath)
		return nil, fmt.Errorf("%w: arquivo '%s' não encontrado", appErrors.ErrDataImport, filepath.Base(filePath))
	}

	fileName := filepath.Base(filePath)
	appLogger.Infof("Iniciando importação: Arquivo='%s'", fileName)

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(filePath)
	case ".csv", ".txt":
		rows, err = readCSV(filePath)
	default:
		return nil, fmt.Errorf("%w: extensão '%s' não suportada (use .xlsx ou .csv)", appErrors.ErrDataImport, filepath.Ext(filePath))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: arquivo '%s' está vazio", appErrors.ErrDataImport, fileName)
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		appLogger.Errorf("Arquivo '%s' com cabeçalho inválido: %v", fileName, err)
		return nil, err
	}

	report := &models.ImportReport{File: fileName, StartedAt: s.now()}
	for i, record := range rows[1:] {
		if err := ctx.Err(); err != nil {
			report.FinishedAt = s.now()
			appLogger.Warnf("Importação de '%s' interrompida na linha %d: %v", fileName, i+2, err)
			return report, err
		}
		if isBlankRow(record) {
			continue
		}
		report.Add(s.importRow(ctx, i+2, columns, record)) // +2: linhas começam em 1 e a primeira é o cabeçalho
	}
	report.FinishedAt = s.now()

	appLogger.Infof("Importação de '%s' concluída. Enviadas: %d, Com falha: %d.", fileName, report.Succeeded, report.Failed)
	return report, nil
}

func (s *importServiceImpl) importRow(ctx context.Context, line int, columns map[string]int, record []string) models.ImportRow {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rec, parseErr := buildProcesso(cell)
	row := models.ImportRow{
		Line:              line,
		NumeroProcessoRio: rec.NumeroProcessoRio.String(),
		CNPJ:              rec.CNPJ,
	}

	var result *models.SubmitResult
	err := parseErr
	var ve *appErrors.ValidationError
	if errors.As(parseErr, &ve) {
		// Junta com a validação completa para listar todos os campos da linha.
		var rest *appErrors.ValidationError
		if _, errPrepare := s.processos.Prepare(&rec); errors.As(errPrepare, &rest) {
			ve.Merge(rest)
		}
	}
	if err == nil {
		result, err = s.processos.Submit(ctx, &rec)
	}

	var ne *appErrors.NetworkError
	switch {
	case err == nil:
		row.Status = models.ImportStatusEnviado
		row.SubmissionID = result.ID
		row.StatusCode = result.StatusCode
		row.CNPJ = result.Payload.CNPJ
		row.Message = string(result.Response)
	case errors.As(err, &ve):
		row.Status = models.ImportStatusInvalido
		for _, field := range ve.FieldNames() {
			row.InvalidFields = append(row.InvalidFields, ColumnForField(field))
		}
		row.Message = ve.Error()
	case errors.As(err, &ne):
		row.Status = models.ImportStatusFalha
		row.StatusCode = ne.StatusCode
		row.Message = ne.Error()
	default:
		row.Status = models.ImportStatusFalha
		row.Message = err.Error()
	}
	if err != nil {
		appLogger.Warnf("Linha %d não enviada: %v", line, err)
	}
	return row
}

// buildProcesso monta o processo a partir das células de uma linha.
// Os empenhos vão até o último grupo preenchido: um grupo em branco antes de outro
// preenchido é mantido, para que o índice i corresponda sempre às colunas _(i+1)
// e a validação aponte os campos faltantes nas colunas certas.
func buildProcesso(cell func(string) string) (models.ProcessoCadastro, error) {
	groups := make([]models.Empenho, models.MaxEmpenhos)
	last := 1 // o primeiro empenho é sempre enviado para a validação
	for n := 1; n <= models.MaxEmpenhos; n++ {
		for _, field := range models.EmpenhoFields {
			v := cell(EmpenhoColumn(field, n))
			if v != "" && n > last {
				last = n
			}
			groups[n-1].Set(field, v)
		}
	}
	return utils.BindProcesso(cell, groups[:last])
}

// ColumnForField traduz a chave de um campo inválido para a coluna da planilha:
// "listEmpenho[1].NE" vira "NE_2". Campos do processo já têm o nome da coluna.
func ColumnForField(key string) string {
	rest, ok := strings.CutPrefix(key, "listEmpenho[")
	if !ok {
		return key
	}
	idx, field, ok := strings.Cut(rest, "].")
	if !ok {
		return key
	}
	i, err := strconv.Atoi(idx)
	if err != nil {
		return key
	}
	return EmpenhoColumn(field, i+1)
}

// mapHeader valida o cabeçalho e devolve o índice de cada coluna conhecida.
func mapHeader(header []string) (map[string]int, error) {
	known := make(map[string]string)
	for _, col := range AllColumns() {
		known[strings.ToUpper(col)] = col
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		name, ok := known[strings.ToUpper(strings.TrimSpace(h))]
		if !ok {
			if strings.TrimSpace(h) != "" {
				appLogger.Debugf("Coluna '%s' ignorada na importação", h)
			}
			continue
		}
		if _, dup := columns[name]; dup {
			return nil, fmt.Errorf("%w: coluna '%s' repetida no cabeçalho", appErrors.ErrDataImport, name)
		}
		columns[name] = i
	}

	var missing []string
	for _, col := range ExpectedColumns() {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: colunas obrigatórias ausentes: %s", appErrors.ErrDataImport, strings.Join(missing, ", "))
	}
	return columns, nil
}

func isBlankRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// readXLSX lê a primeira planilha do arquivo.
func readXLSX(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		appLogger.Errorf("Erro ao abrir planilha '%s': %v", filePath, err)
		return nil, fmt.Errorf("%w: falha ao abrir planilha '%s'", appErrors.ErrDataImport, filepath.Base(filePath))
	}
	defer func() {
		if err := f.Close(); err != nil {
			appLogger.Errorf("Erro ao fechar planilha '%s': %v", filePath, err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: planilha '%s' sem abas", appErrors.ErrDataImport, filepath.Base(filePath))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: falha ao ler aba '%s': %v", appErrors.ErrDataImport, sheets[0], err)
	}
	return rows, nil
}

// readCSV lê um CSV separado por ';'. Tenta UTF-8 primeiro, depois Latin-1 (ISO-8859-1).
func readCSV(filePath string) ([][]string, error) {
	rawBytes, err := os.ReadFile(filePath)
	if err != nil {
		appLogger.Errorf("Erro ao ler arquivo '%s': %v", filePath, err)
		return nil, fmt.Errorf("%w: falha ao ler arquivo '%s'", appErrors.ErrResourceLoading, filepath.Base(filePath))
	}

	// Remover BOM (Byte Order Mark) se presente no UTF-8
	rawBytes = bytes.TrimPrefix(rawBytes, []byte{0xEF, 0xBB, 0xBF})

	if !utf8.Valid(rawBytes) {
		appLogger.Warnf("Arquivo '%s' não é UTF-8 válido. Tentando decodificar como Latin-1.", filePath)
		utf8Bytes, _, errTransform := transform.Bytes(charmap.ISO8859_1.NewDecoder(), rawBytes)
		if errTransform != nil {
			return nil, fmt.Errorf("%w: arquivo '%s' não pôde ser decodificado como UTF-8 ou Latin-1", appErrors.ErrDataImport, filepath.Base(filePath))
		}
		rawBytes = utf8Bytes
	}

	csvReader := csv.NewReader(bytes.NewReader(rawBytes))
	csvReader.Comma = ';'
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1 // Linhas podem omitir colunas opcionais no final

	records, err := csvReader.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("%w: arquivo '%s' mal formatado (linha %d): %v", appErrors.ErrDataImport, filepath.Base(filePath), pe.Line, pe.Err)
		}
		return nil, fmt.Errorf("%w: falha ao parsear CSV '%s': %v", appErrors.ErrDataImport, filepath.Base(filePath), err)
	}
	return records, nil
}
