package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/maps"
)

// Erros sentinela pré-definidos para tipos comuns de falha na aplicação.
// Estes podem ser verificados usando errors.Is(err, ErrValidation).
var (
	// --- Erros Gerais ---
	ErrInternal        = errors.New("erro interno da aplicação")
	ErrConfiguration   = errors.New("erro de configuração da aplicação")
	ErrResourceLoading = errors.New("falha ao carregar recurso essencial")

	// --- Erros de Validação e Entrada ---
	ErrValidation    = errors.New("erro de validação nos dados fornecidos")
	ErrInvalidInput  = errors.New("entrada de dados inválida ou mal formatada")
	ErrInvalidFormat = errors.New("valor fora do formato esperado")

	// --- Erros de Envio ---
	ErrNetwork            = errors.New("falha na comunicação com a API de cadastro")
	ErrSubmissionInFlight = errors.New("já existe um envio em andamento para este formulário")

	// --- Erros Específicos da Aplicação ---
	ErrExport     = errors.New("falha ao exportar dados")
	ErrDataImport = errors.New("falha ao importar dados")
)

// ValidationError é um tipo de erro que contém detalhes sobre os campos que falharam na validação.
type ValidationError struct {
	// Message é uma mensagem geral sobre a falha de validação.
	Message string
	// Fields mapeia nomes de campos para suas respectivas mensagens de erro.
	// Campos de empenho usam a chave "listEmpenho[i].Campo".
	Fields map[string]string
	// Underlying é o erro original que pode ter causado a falha de validação (opcional).
	Underlying error
}

// NewValidationError cria uma nova instância de ValidationError.
func NewValidationError(message string, fields map[string]string) *ValidationError {
	if fields == nil {
		fields = make(map[string]string)
	}
	return &ValidationError{
		Message: message,
		Fields:  fields,
	}
}

// Add registra a mensagem de um campo. A primeira mensagem de cada campo prevalece.
func (ve *ValidationError) Add(field, message string) {
	if ve.Fields == nil {
		ve.Fields = make(map[string]string)
	}
	if _, exists := ve.Fields[field]; exists {
		return
	}
	ve.Fields[field] = message
}

// Merge copia os campos de outro ValidationError.
func (ve *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msg := range other.Fields {
		ve.Add(field, msg)
	}
}

// HasErrors indica se algum campo foi registrado.
func (ve *ValidationError) HasErrors() bool {
	return ve != nil && len(ve.Fields) > 0
}

// FieldNames retorna os nomes dos campos inválidos em ordem alfabética.
func (ve *ValidationError) FieldNames() []string {
	names := maps.Keys(ve.Fields)
	sort.Strings(names)
	return names
}

// Error implementa a interface error.
func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Message != "" {
		sb.WriteString(ve.Message)
	} else {
		sb.WriteString("Erro de validação")
	}

	if len(ve.Fields) > 0 {
		sb.WriteString(" (Detalhes: ")
		fieldErrors := make([]string, 0, len(ve.Fields))
		for _, field := range ve.FieldNames() {
			fieldErrors = append(fieldErrors, fmt.Sprintf("%s: %s", field, ve.Fields[field]))
		}
		sb.WriteString(strings.Join(fieldErrors, ", "))
		sb.WriteString(")")
	}
	if ve.Underlying != nil {
		sb.WriteString(fmt.Sprintf(" | Erro original: %v", ve.Underlying))
	}
	return sb.String()
}

// Unwrap retorna o erro encapsulado, permitindo o uso de errors.Is e errors.As com o erro original.
func (ve *ValidationError) Unwrap() error {
	return ve.Underlying
}

// Is permite que `errors.Is(err, ErrValidation)` funcione mesmo sem ErrValidation como `Underlying`.
func (ve *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// EmpenhoField monta a chave usada em ValidationError.Fields para um campo de empenho.
func EmpenhoField(index int, field string) string {
	return fmt.Sprintf("listEmpenho[%d].%s", index, field)
}

// maxErrorBodyBytes limita o trecho do corpo exibido em NetworkError.Error.
const maxErrorBodyBytes = 200

// truncateUTF8 corta s em no máximo limit bytes sem partir um caractere multibyte.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// NetworkError descreve uma falha de transporte ou uma resposta HTTP sem sucesso da API remota.
type NetworkError struct {
	Endpoint string
	// StatusCode é zero quando a falha aconteceu antes de haver resposta.
	StatusCode int
	// Body guarda um trecho do corpo da resposta de erro, quando houver.
	Body string
	Err  error
}

// NewNetworkError cria um NetworkError para uma falha de transporte.
func NewNetworkError(endpoint string, cause error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: cause}
}

// NewHTTPStatusError cria um NetworkError para um status HTTP sem sucesso.
func NewHTTPStatusError(endpoint string, statusCode int, body string) *NetworkError {
	return &NetworkError{Endpoint: endpoint, StatusCode: statusCode, Body: body}
}

func (ne *NetworkError) Error() string {
	if ne.StatusCode != 0 {
		msg := fmt.Sprintf("API respondeu com status %d em %s", ne.StatusCode, ne.Endpoint)
		if ne.Body != "" {
			msg += fmt.Sprintf(" (resposta: %s)", truncateUTF8(ne.Body, maxErrorBodyBytes))
		}
		return msg
	}
	return fmt.Sprintf("falha ao enviar para %s: %v", ne.Endpoint, ne.Err)
}

func (ne *NetworkError) Unwrap() error {
	return ne.Err
}

// Is faz com que todo NetworkError seja considerado ErrNetwork.
func (ne *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// FormatError indica um valor (CNPJ, data) que não corresponde ao formato esperado.
type FormatError struct {
	Field string
	Value string
	Err   error
}

func NewFormatError(field, value string, cause error) *FormatError {
	return &FormatError{Field: field, Value: value, Err: cause}
}

func (fe *FormatError) Error() string {
	if fe.Err != nil {
		return fmt.Sprintf("%s com formato inválido '%s': %v", fe.Field, fe.Value, fe.Err)
	}
	return fmt.Sprintf("%s com formato inválido '%s'", fe.Field, fe.Value)
}

func (fe *FormatError) Unwrap() error {
	return fe.Err
}

func (fe *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// --- Funções Helper ---

// WrapErrorf cria um novo erro que envolve um erro existente com uma mensagem formatada,
// preservando o erro original para verificação com `errors.Is` e `errors.As`.
func WrapErrorf(originalErr error, format string, args ...interface{}) error {
	if originalErr == nil {
		return fmt.Errorf(format, args...)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), originalErr)
}
