package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
)

// --- Validador de CNPJ ---

// IsValidCNPJ verifica se uma string de CNPJ (apenas dígitos) é válida.
func IsValidCNPJ(cnpj string) bool {
	if len(cnpj) != models.CNPJDigits {
		return false
	}
	for _, r := range cnpj {
		if r < '0' || r > '9' {
			return false
		}
	}
	// Verifica se todos os dígitos são iguais (ex: "00000000000000")
	if allDigitsEqual(cnpj) {
		return false
	}

	// Cálculo do primeiro dígito verificador
	weights1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	if checkDigit(cnpj[:12], weights1) != int(cnpj[12]-'0') {
		return false
	}

	// Cálculo do segundo dígito verificador
	weights2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	return checkDigit(cnpj[:13], weights2) == int(cnpj[13]-'0')
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i := range weights {
		digit, _ := strconv.Atoi(string(digits[i]))
		sum += digit * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// allDigitsEqual verifica se todos os caracteres em uma string são iguais.
func allDigitsEqual(s string) bool {
	if len(s) < 2 {
		return true
	}
	first := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != first {
			return false
		}
	}
	return true
}

// IsMaskedCNPJ verifica se o CNPJ está no formato NN.NNN.NNN/NNNN-NN.
func IsMaskedCNPJ(cnpj string) bool {
	return models.CNPJMaskPattern.MatchString(cnpj)
}

// cnpjInputChars são os caracteres aceitos na digitação do CNPJ (dígitos e separadores da máscara).
var cnpjInputChars = regexp.MustCompile(`^[\d./\-\s]+$`)

// --- Validação do Processo ---

// ValidationOptions ajusta regras que dependem de configuração.
type ValidationOptions struct {
	// VerifyCNPJDigits habilita a conferência dos dígitos verificadores do CNPJ.
	VerifyCNPJDigits bool
}

type ruleKind int

const (
	ruleText ruleKind = iota
	ruleAmount
)

// fieldRule é uma linha da tabela de regras do formulário.
type fieldRule struct {
	field    string
	kind     ruleKind
	required bool
	min      *decimal.Decimal
	check    func(value string, opts ValidationOptions) string
}

var zero = decimal.Zero

// processoRules define, por campo, as regras aplicadas antes do envio.
var processoRules = []fieldRule{
	{field: models.FieldNumeroProcessoRio, kind: ruleText, required: true},
	{field: models.FieldUG, kind: ruleText, required: true},
	{field: models.FieldNomeUnidade, kind: ruleText, required: true},
	{field: models.FieldCNPJ, kind: ruleText, required: true, check: checkCNPJ},
	{field: models.FieldRazaoSocial, kind: ruleText, required: true},
	{field: models.FieldNrNotaFiscal, kind: ruleText, required: true},
	{field: models.FieldValorBruto, kind: ruleAmount, required: true, min: &zero},
	{field: models.FieldDataEmissao, kind: ruleText, required: true, check: checkDate},
	{field: models.FieldCOFINS, kind: ruleAmount, required: true},
	{field: models.FieldCSLL, kind: ruleAmount, required: true},
	{field: models.FieldISS, kind: ruleAmount, required: true},
	{field: models.FieldIR, kind: ruleAmount, required: true},
	{field: models.FieldPIS, kind: ruleAmount, required: true},
	{field: models.FieldINSS, kind: ruleAmount, required: true},
}

// Mensagens de validação exibidas ao usuário.
const (
	MsgRequired     = "Campo obrigatório."
	MsgMinZero      = "Deve ser maior ou igual a zero."
	MsgCNPJDigits   = "CNPJ deve conter 14 dígitos."
	MsgCNPJChars    = "CNPJ deve conter apenas dígitos e os separadores . / -"
	MsgCNPJInvalid  = "CNPJ inválido (dígitos verificadores não conferem)."
	MsgDateInvalid  = "Data inválida. Use aaaa-mm-dd ou dd/mm/aaaa."
	MsgNoEmpenho    = "Informe ao menos um empenho."
	MsgTooManyEmpen = "Informe no máximo 3 empenhos."
)

func checkCNPJ(value string, opts ValidationOptions) string {
	if !cnpjInputChars.MatchString(value) {
		return MsgCNPJChars
	}
	digits := models.CleanCNPJ(value)
	if len(digits) != models.CNPJDigits || !IsMaskedCNPJ(models.MaskCNPJ(digits)) {
		return MsgCNPJDigits
	}
	if opts.VerifyCNPJDigits && !IsValidCNPJ(digits) {
		return MsgCNPJInvalid
	}
	return ""
}

func checkDate(value string, _ ValidationOptions) string {
	if _, err := ParseDate(value); err != nil {
		return MsgDateInvalid
	}
	return ""
}

// ValidateProcessoCadastro aplica a tabela de regras ao processo e aos empenhos.
// Retorna nil ou um *ValidationError listando todos os campos inválidos.
func ValidateProcessoCadastro(rec *models.ProcessoCadastro, opts ValidationOptions) error {
	ve := appErrors.NewValidationError("Processo com campos inválidos", nil)

	for _, rule := range processoRules {
		switch rule.kind {
		case ruleText:
			value, _ := rec.Text(rule.field)
			value = strings.TrimSpace(value)
			if value == "" {
				if rule.required {
					ve.Add(rule.field, MsgRequired)
				}
				continue
			}
			if rule.check != nil {
				if msg := rule.check(value, opts); msg != "" {
					ve.Add(rule.field, msg)
				}
			}
		case ruleAmount:
			amount, _ := rec.Amount(rule.field)
			if !amount.Valid {
				if rule.required {
					ve.Add(rule.field, MsgRequired)
				}
				continue
			}
			if rule.min != nil && amount.Decimal.LessThan(*rule.min) {
				ve.Add(rule.field, MsgMinZero)
			}
		}
	}

	switch n := len(rec.ListEmpenho); {
	case n == 0:
		ve.Add(models.FieldListEmpenho, MsgNoEmpenho)
	case n > models.MaxEmpenhos:
		ve.Add(models.FieldListEmpenho, MsgTooManyEmpen)
	}
	for i := range rec.ListEmpenho {
		validateEmpenho(ve, i, &rec.ListEmpenho[i])
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateEmpenho(ve *appErrors.ValidationError, index int, e *models.Empenho) {
	for _, field := range models.EmpenhoFields {
		value, _ := e.Get(field)
		if strings.TrimSpace(value) == "" {
			ve.Add(appErrors.EmpenhoField(index, field), MsgRequired)
		}
	}
}

// DescribeField monta a mensagem "Campo está inválido." usada nos logs, no formato
// "Empenho N: Campo" para campos de empenho.
func DescribeField(key string) string {
	var index int
	var field string
	if n, _ := fmt.Sscanf(strings.Replace(key, "].", "] ", 1), "listEmpenho[%d] %s", &index, &field); n == 2 {
		return fmt.Sprintf("Empenho %d: %s está inválido.", index+1, field)
	}
	return fmt.Sprintf("%s está inválido.", key)
}
