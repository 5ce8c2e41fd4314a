package utils

import (
	"strings"

	"github.com/shopspring/decimal"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
)

// MsgNotNumeric é a mensagem de um valor monetário que não é número.
const MsgNotNumeric = "Informe um valor numérico."

// BindProcesso monta o processo a partir dos valores brutos de cada campo.
// Campos vazios ficam vazios (ou nulos, nos monetários) para que a validação os aponte
// como obrigatórios. Valores monetários que não são números voltam em um ValidationError,
// um campo por entrada; o processo devolvido traz os demais campos preenchidos.
func BindProcesso(raw func(field string) string, empenhos []models.Empenho) (models.ProcessoCadastro, error) {
	var rec models.ProcessoCadastro
	ve := appErrors.NewValidationError("Valores inválidos no processo", nil)

	for _, field := range models.ProcessoFields {
		value := strings.TrimSpace(raw(field))
		if !models.IsAmountField(field) {
			rec.SetText(field, value)
			continue
		}
		if value == "" {
			rec.SetAmount(field, decimal.NullDecimal{})
			continue
		}
		d, err := ParseDecimalBR(value)
		if err != nil {
			ve.Add(field, MsgNotNumeric)
			continue
		}
		rec.SetAmount(field, decimal.NewNullDecimal(d))
	}

	if empenhos != nil {
		rec.ListEmpenho = make([]models.Empenho, 0, len(empenhos))
	}
	for _, in := range empenhos {
		var e models.Empenho
		for _, field := range models.EmpenhoFields {
			v, _ := in.Get(field)
			e.Set(field, strings.TrimSpace(v))
		}
		rec.ListEmpenho = append(rec.ListEmpenho, e)
	}

	if ve.HasErrors() {
		return rec, ve
	}
	return rec, nil
}

// BindProcessoInput converte o processo recebido em JSON.
func BindProcessoInput(in *models.ProcessoCadastroInput) (models.ProcessoCadastro, error) {
	return BindProcesso(in.Raw, in.ListEmpenho)
}
