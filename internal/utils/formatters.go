package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
)

// DateLayoutAPI é o formato yyyy-MM-dd esperado pela API.
const DateLayoutAPI = "2006-01-02"

// acceptedDateLayouts são os formatos de entrada aceitos para DataEmissao.
var acceptedDateLayouts = []string{
	DateLayoutAPI,
	"02/01/2006",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatCNPJ remove tudo que não é dígito e aplica a máscara NN.NNN.NNN/NNNN-NN.
// Se o resultado não tiver 14 dígitos, devolve apenas os dígitos, sem máscara.
func FormatCNPJ(raw string) string {
	return models.MaskCNPJ(models.CleanCNPJ(raw))
}

// ParseCNPJ é a versão estrita de FormatCNPJ: falha com FormatError se não houver 14 dígitos.
func ParseCNPJ(raw string) (string, error) {
	digits := models.CleanCNPJ(raw)
	if len(digits) != models.CNPJDigits {
		return "", appErrors.NewFormatError(models.FieldCNPJ, raw, errors.New("CNPJ deve conter 14 dígitos"))
	}
	return models.MaskCNPJ(digits), nil
}

// ParseDate interpreta uma data em qualquer um dos formatos aceitos.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, appErrors.NewFormatError(models.FieldDataEmissao, raw, errors.New("data vazia"))
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, appErrors.NewFormatError(models.FieldDataEmissao, raw, errors.New("use aaaa-mm-dd ou dd/mm/aaaa"))
}

// FormatDate converte a data de entrada para o layout pedido (DateLayoutAPI para a API).
func FormatDate(raw, layout string) (string, error) {
	t, err := ParseDate(raw)
	if err != nil {
		return "", err
	}
	if layout == "" {
		layout = DateLayoutAPI
	}
	return t.Format(layout), nil
}

// ParseDecimalBR aceita "1234.56", "1234,56" e "1.234,56" (com ou sem "R$").
func ParseDecimalBR(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "R$")
	value = strings.ReplaceAll(value, " ", "")
	if value == "" {
		return decimal.Decimal{}, appErrors.NewFormatError("valor", raw, errors.New("valor vazio"))
	}
	if strings.Contains(value, ",") {
		value = strings.ReplaceAll(value, ".", "")
		value = strings.ReplaceAll(value, ",", ".")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, appErrors.NewFormatError("valor", raw, err)
	}
	return d, nil
}

// FormatBRL formata um valor para exibição, ex.: "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	return brPrinter.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

// StringifyNumericFields converte os campos numéricos do processo e todos os campos
// dos empenhos para string. Os demais campos são copiados sem alteração.
func StringifyNumericFields(rec models.ProcessoCadastro) models.ProcessoCadastroPayload {
	payload := models.ProcessoCadastroPayload{
		NumeroProcessoRio: rec.NumeroProcessoRio.String(),
		UG:                rec.UG.String(),
		NomeUnidade:       rec.NomeUnidade,
		CNPJ:              rec.CNPJ,
		RazaoSocial:       rec.RazaoSocial,
		NrNotaFiscal:      rec.NrNotaFiscal.String(),
		ValorBruto:        stringifyAmount(rec.ValorBruto),
		DataEmissao:       rec.DataEmissao,
		COFINS:            stringifyAmount(rec.COFINS),
		CSLL:              stringifyAmount(rec.CSLL),
		ISS:               stringifyAmount(rec.ISS),
		IR:                stringifyAmount(rec.IR),
		PIS:               stringifyAmount(rec.PIS),
		INSS:              stringifyAmount(rec.INSS),
		ListEmpenho:       make([]models.EmpenhoPayload, 0, len(rec.ListEmpenho)),
	}
	for _, e := range rec.ListEmpenho {
		payload.ListEmpenho = append(payload.ListEmpenho, models.EmpenhoPayload{
			NE:              e.NE.String(),
			FR:              e.FR.String(),
			NaturezaDespesa: e.NaturezaDespesa.String(),
			TipoPatrimonial: e.TipoPatrimonial.String(),
			ItemPatrimonial: e.ItemPatrimonial.String(),
		})
	}
	return payload
}

func stringifyAmount(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}
