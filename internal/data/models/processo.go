package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxEmpenhos é o número máximo de empenhos aceitos em um processo.
const MaxEmpenhos = 3

// Nomes dos campos do processo, iguais aos nomes usados pela API.
const (
	FieldNumeroProcessoRio = "NumeroProcessoRio"
	FieldUG                = "UG"
	FieldNomeUnidade       = "NomeUnidade"
	FieldCNPJ              = "CNPJ"
	FieldRazaoSocial       = "RazaoSocial"
	FieldNrNotaFiscal      = "NrNotaFiscal"
	FieldValorBruto        = "ValorBruto"
	FieldDataEmissao       = "DataEmissao"
	FieldCOFINS            = "COFINS"
	FieldCSLL              = "CSLL"
	FieldISS               = "ISS"
	FieldIR                = "IR"
	FieldPIS               = "PIS"
	FieldINSS              = "INSS"
	FieldListEmpenho       = "listEmpenho"
)

// Nomes dos campos de cada empenho.
const (
	FieldNE              = "NE"
	FieldFR              = "FR"
	FieldNaturezaDespesa = "NaturezaDespesa"
	FieldTipoPatrimonial = "TipoPatrimonial"
	FieldItemPatrimonial = "ItemPatrimonial"
)

// ProcessoFields lista os campos do processo na ordem do formulário.
var ProcessoFields = []string{
	FieldNumeroProcessoRio, FieldUG, FieldNomeUnidade, FieldCNPJ, FieldRazaoSocial,
	FieldNrNotaFiscal, FieldValorBruto, FieldDataEmissao,
	FieldCOFINS, FieldCSLL, FieldISS, FieldIR, FieldPIS, FieldINSS,
}

// AmountFields são os campos monetários (decimal) do processo.
var AmountFields = []string{
	FieldValorBruto, FieldCOFINS, FieldCSLL, FieldISS, FieldIR, FieldPIS, FieldINSS,
}

// EmpenhoFields lista os campos de um empenho na ordem do formulário.
var EmpenhoFields = []string{
	FieldNE, FieldFR, FieldNaturezaDespesa, FieldTipoPatrimonial, FieldItemPatrimonial,
}

// IsAmountField indica se o campo é monetário.
func IsAmountField(field string) bool {
	for _, f := range AmountFields {
		if f == field {
			return true
		}
	}
	return false
}

// FlexString aceita, no JSON de entrada, tanto strings quanto números.
// Clientes da API costumam enviar UG, NE e FR como números.
type FlexString string

// UnmarshalJSON implementa json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("valor '%s' deve ser texto ou número", string(trimmed))
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Empenho é um empenho (nota de empenho) vinculado ao processo.
type Empenho struct {
	NE              FlexString `json:"NE"`
	FR              FlexString `json:"FR"`
	NaturezaDespesa FlexString `json:"NaturezaDespesa"`
	TipoPatrimonial FlexString `json:"TipoPatrimonial"`
	ItemPatrimonial FlexString `json:"ItemPatrimonial"`
}

// Get retorna o valor de um campo do empenho pelo nome.
func (e *Empenho) Get(field string) (string, bool) {
	switch field {
	case FieldNE:
		return string(e.NE), true
	case FieldFR:
		return string(e.FR), true
	case FieldNaturezaDespesa:
		return string(e.NaturezaDespesa), true
	case FieldTipoPatrimonial:
		return string(e.TipoPatrimonial), true
	case FieldItemPatrimonial:
		return string(e.ItemPatrimonial), true
	}
	return "", false
}

// Set altera um campo do empenho pelo nome. Retorna false para campos desconhecidos.
func (e *Empenho) Set(field, value string) bool {
	switch field {
	case FieldNE:
		e.NE = FlexString(value)
	case FieldFR:
		e.FR = FlexString(value)
	case FieldNaturezaDespesa:
		e.NaturezaDespesa = FlexString(value)
	case FieldTipoPatrimonial:
		e.TipoPatrimonial = FlexString(value)
	case FieldItemPatrimonial:
		e.ItemPatrimonial = FlexString(value)
	default:
		return false
	}
	return true
}

// ProcessoCadastro é o registro principal enviado para a API.
// Valores monetários usam decimal.NullDecimal para distinguir "não informado" de zero.
type ProcessoCadastro struct {
	NumeroProcessoRio FlexString          `json:"NumeroProcessoRio"`
	UG                FlexString          `json:"UG"`
	NomeUnidade       string              `json:"NomeUnidade"`
	CNPJ              string              `json:"CNPJ"`
	RazaoSocial       string              `json:"RazaoSocial"`
	NrNotaFiscal      FlexString          `json:"NrNotaFiscal"`
	ValorBruto        decimal.NullDecimal `json:"ValorBruto"`
	DataEmissao       string              `json:"DataEmissao"`
	COFINS            decimal.NullDecimal `json:"COFINS"`
	CSLL              decimal.NullDecimal `json:"CSLL"`
	ISS               decimal.NullDecimal `json:"ISS"`
	IR                decimal.NullDecimal `json:"IR"`
	PIS               decimal.NullDecimal `json:"PIS"`
	INSS              decimal.NullDecimal `json:"INSS"`
	ListEmpenho       []Empenho           `json:"listEmpenho"`
}

// Text retorna o valor de um campo textual pelo nome.
func (p *ProcessoCadastro) Text(field string) (string, bool) {
	switch field {
	case FieldNumeroProcessoRio:
		return string(p.NumeroProcessoRio), true
	case FieldUG:
		return string(p.UG), true
	case FieldNomeUnidade:
		return p.NomeUnidade, true
	case FieldCNPJ:
		return p.CNPJ, true
	case FieldRazaoSocial:
		return p.RazaoSocial, true
	case FieldNrNotaFiscal:
		return string(p.NrNotaFiscal), true
	case FieldDataEmissao:
		return p.DataEmissao, true
	}
	return "", false
}

// SetText altera um campo textual pelo nome.
func (p *ProcessoCadastro) SetText(field, value string) bool {
	switch field {
	case FieldNumeroProcessoRio:
		p.NumeroProcessoRio = FlexString(value)
	case FieldUG:
		p.UG = FlexString(value)
	case FieldNomeUnidade:
		p.NomeUnidade = value
	case FieldCNPJ:
		p.CNPJ = value
	case FieldRazaoSocial:
		p.RazaoSocial = value
	case FieldNrNotaFiscal:
		p.NrNotaFiscal = FlexString(value)
	case FieldDataEmissao:
		p.DataEmissao = value
	default:
		return false
	}
	return true
}

// Amount retorna o valor de um campo monetário pelo nome.
func (p *ProcessoCadastro) Amount(field string) (decimal.NullDecimal, bool) {
	switch field {
	case FieldValorBruto:
		return p.ValorBruto, true
	case FieldCOFINS:
		return p.COFINS, true
	case FieldCSLL:
		return p.CSLL, true
	case FieldISS:
		return p.ISS, true
	case FieldIR:
		return p.IR, true
	case FieldPIS:
		return p.PIS, true
	case FieldINSS:
		return p.INSS, true
	}
	return decimal.NullDecimal{}, false
}

// SetAmount altera um campo monetário pelo nome.
func (p *ProcessoCadastro) SetAmount(field string, value decimal.NullDecimal) bool {
	switch field {
	case FieldValorBruto:
		p.ValorBruto = value
	case FieldCOFINS:
		p.COFINS = value
	case FieldCSLL:
		p.CSLL = value
	case FieldISS:
		p.ISS = value
	case FieldIR:
		p.IR = value
	case FieldPIS:
		p.PIS = value
	case FieldINSS:
		p.INSS = value
	default:
		return false
	}
	return true
}

// ProcessoCadastroInput é o processo como chega pela API JSON. Todos os campos aceitam texto
// ou número; os valores monetários ainda não foram convertidos, para que um valor vazio ou
// inválido vire erro do campo e não falha de decodificação.
type ProcessoCadastroInput struct {
	NumeroProcessoRio FlexString `json:"NumeroProcessoRio"`
	UG                FlexString `json:"UG"`
	NomeUnidade       FlexString `json:"NomeUnidade"`
	CNPJ              FlexString `json:"CNPJ"`
	RazaoSocial       FlexString `json:"RazaoSocial"`
	NrNotaFiscal      FlexString `json:"NrNotaFiscal"`
	ValorBruto        FlexString `json:"ValorBruto"`
	DataEmissao       FlexString `json:"DataEmissao"`
	COFINS            FlexString `json:"COFINS"`
	CSLL              FlexString `json:"CSLL"`
	ISS               FlexString `json:"ISS"`
	IR                FlexString `json:"IR"`
	PIS               FlexString `json:"PIS"`
	INSS              FlexString `json:"INSS"`
	ListEmpenho       []Empenho  `json:"listEmpenho"`
}

// Raw retorna o valor recebido de um campo do processo pelo nome.
func (in *ProcessoCadastroInput) Raw(field string) string {
	switch field {
	case FieldNumeroProcessoRio:
		return string(in.NumeroProcessoRio)
	case FieldUG:
		return string(in.UG)
	case FieldNomeUnidade:
		return string(in.NomeUnidade)
	case FieldCNPJ:
		return string(in.CNPJ)
	case FieldRazaoSocial:
		return string(in.RazaoSocial)
	case FieldNrNotaFiscal:
		return string(in.NrNotaFiscal)
	case FieldValorBruto:
		return string(in.ValorBruto)
	case FieldDataEmissao:
		return string(in.DataEmissao)
	case FieldCOFINS:
		return string(in.COFINS)
	case FieldCSLL:
		return string(in.CSLL)
	case FieldISS:
		return string(in.ISS)
	case FieldIR:
		return string(in.IR)
	case FieldPIS:
		return string(in.PIS)
	case FieldINSS:
		return string(in.INSS)
	}
	return ""
}

// EmpenhoPayload é o formato de transmissão de um empenho.
type EmpenhoPayload struct {
	NE              string `json:"NE"`
	FR              string `json:"FR"`
	NaturezaDespesa string `json:"NaturezaDespesa"`
	TipoPatrimonial string `json:"TipoPatrimonial"`
	ItemPatrimonial string `json:"ItemPatrimonial"`
}

// ProcessoCadastroPayload é o corpo JSON do POST para Api/Unidade/ProcessoCadastro.
// Todos os valores seguem como string.
type ProcessoCadastroPayload struct {
	NumeroProcessoRio string           `json:"NumeroProcessoRio"`
	UG                string           `json:"UG"`
	NomeUnidade       string           `json:"NomeUnidade"`
	CNPJ              string           `json:"CNPJ"`
	RazaoSocial       string           `json:"RazaoSocial"`
	NrNotaFiscal      string           `json:"NrNotaFiscal"`
	ValorBruto        string           `json:"ValorBruto"`
	DataEmissao       string           `json:"DataEmissao"`
	COFINS            string           `json:"COFINS"`
	CSLL              string           `json:"CSLL"`
	ISS               string           `json:"ISS"`
	IR                string           `json:"IR"`
	PIS               string           `json:"PIS"`
	INSS              string           `json:"INSS"`
	ListEmpenho       []EmpenhoPayload `json:"listEmpenho"`
}

// SubmitResult descreve um envio bem sucedido.
type SubmitResult struct {
	ID         uuid.UUID                `json:"id"`
	StatusCode int                      `json:"status_code"`
	Response   json.RawMessage          `json:"response,omitempty"`
	Payload    *ProcessoCadastroPayload `json:"payload"`
	SentAt     time.Time                `json:"sent_at"`
	Duration   time.Duration            `json:"duration"`
}
