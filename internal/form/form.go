// Package form mantém o estado do formulário de cadastro de processo entre
// requisições: valores digitados, seções de empenho visíveis e erros por campo.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

// FieldKind indica como o valor digitado é interpretado.
type FieldKind int

const (
	KindText FieldKind = iota
	KindAmount
	KindDate
	KindCNPJ
)

// FieldDef descreve um campo do formulário.
type FieldDef struct {
	Name        string
	Label       string
	Kind        FieldKind
	Required    bool
	Placeholder string
}

// InputType é o type do <input> HTML correspondente.
func (fd FieldDef) InputType() string {
	switch fd.Kind {
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// ProcessoFieldDefs são os campos do processo, na ordem em que aparecem na tela.
var ProcessoFieldDefs = []FieldDef{
	{Name: models.FieldNumeroProcessoRio, Label: "Número do Processo", Kind: KindText, Required: true},
	{Name: models.FieldUG, Label: "UG", Kind: KindText, Required: true},
	{Name: models.FieldNomeUnidade, Label: "Nome da Unidade", Kind: KindText, Required: true},
	{Name: models.FieldCNPJ, Label: "CNPJ", Kind: KindCNPJ, Required: true, Placeholder: "00.000.000/0000-00"},
	{Name: models.FieldRazaoSocial, Label: "Razão Social", Kind: KindText, Required: true},
	{Name: models.FieldNrNotaFiscal, Label: "Nº Nota Fiscal", Kind: KindText, Required: true},
	{Name: models.FieldValorBruto, Label: "Valor Bruto", Kind: KindAmount, Required: true, Placeholder: "0,00"},
	{Name: models.FieldDataEmissao, Label: "Data de Emissão", Kind: KindDate, Required: true},
	{Name: models.FieldCOFINS, Label: "COFINS", Kind: KindAmount, Required: true, Placeholder: "0,00"},
	{Name: models.FieldCSLL, Label: "CSLL", Kind: KindAmount, Required: true, Placeholder: "0,00"},
	{Name: models.FieldISS, Label: "ISS", Kind: KindAmount, Required: true, Placeholder: "0,00"},
	{Name: models.FieldIR, Label: "IR", Kind: KindAmount, Required: true, Placeholder: "0,00"},
	{Name: models.FieldPIS, Label: "PIS", Kind: KindAmount, Required: true, Placeholder: "0,00"},
	{Name: models.FieldINSS, Label: "INSS", Kind: KindAmount, Required: true, Placeholder: "0,00"},
}

// EmpenhoFieldDefs são os campos de cada seção de empenho.
var EmpenhoFieldDefs = []FieldDef{
	{Name: models.FieldNE, Label: "NE", Kind: KindText, Required: true},
	{Name: models.FieldFR, Label: "FR", Kind: KindText, Required: true},
	{Name: models.FieldNaturezaDespesa, Label: "Natureza da Despesa", Kind: KindText, Required: true},
	{Name: models.FieldTipoPatrimonial, Label: "Tipo Patrimonial", Kind: KindText, Required: true},
	{Name: models.FieldItemPatrimonial, Label: "Item Patrimonial", Kind: KindText, Required: true},
}

// Nomes usados no POST do formulário HTML.
const (
	ParamSecoesAdicionadas = "secoes_adicionadas"
	ParamToken             = "token_envio"
	empenhoParamPrefix     = "listEmpenho."
)

// EmpenhoParam monta o nome do input HTML de um campo de empenho ("listEmpenho.0.NE").
func EmpenhoParam(index int, field string) string {
	return fmt.Sprintf("%s%d.%s", empenhoParamPrefix, index, field)
}

// Form é o modelo do formulário. Não é seguro para uso concorrente.
// O token identifica o formulário entre requisições para o SubmitGuard.
type Form struct {
	token      string
	values     map[string]string
	visibility *VisibilityController
	errors     map[string]string
}

// New cria um formulário vazio com uma seção de empenho visível.
func New() *Form {
	f := &Form{
		token:      uuid.NewString(),
		values:     make(map[string]string, len(ProcessoFieldDefs)),
		visibility: NewVisibilityController(),
		errors:     make(map[string]string),
	}
	for _, def := range ProcessoFieldDefs {
		f.values[def.Name] = ""
	}
	return f
}

// Set altera o valor de um campo do processo.
func (f *Form) Set(field, value string) error {
	if _, ok := f.values[field]; !ok {
		return fmt.Errorf("%w: campo desconhecido '%s'", appErrors.ErrInvalidInput, field)
	}
	f.values[field] = value
	return nil
}

// Get retorna o valor digitado de um campo do processo.
func (f *Form) Get(field string) string {
	return f.values[field]
}

// SetEmpenho altera um campo da seção de empenho index.
func (f *Form) SetEmpenho(index int, field, value string) error {
	entry := f.visibility.Entry(index)
	if entry == nil {
		return fmt.Errorf("%w: seção de empenho %d não está visível", appErrors.ErrInvalidInput, index+1)
	}
	if _, ok := entry[field]; !ok {
		return fmt.Errorf("%w: campo de empenho desconhecido '%s'", appErrors.ErrInvalidInput, field)
	}
	entry[field] = value
	return nil
}

// Empenho retorna o valor de um campo da seção de empenho index.
func (f *Form) Empenho(index int, field string) string {
	return f.visibility.Entry(index)[field]
}

// Visibility expõe o controlador de seções (somente leitura pelos templates).
func (f *Form) Visibility() *VisibilityController { return f.visibility }

// RevealNext mostra mais uma seção de empenho.
func (f *Form) RevealNext() bool { return f.visibility.RevealNext() }

// HideLast remove a última seção de empenho adicionada. Os erros dela são descartados.
func (f *Form) HideLast() bool {
	removed := f.visibility.Count() - 1
	if !f.visibility.HideLast() {
		return false
	}
	prefix := fmt.Sprintf("listEmpenho[%d].", removed)
	for key := range f.errors {
		if strings.HasPrefix(key, prefix) {
			delete(f.errors, key)
		}
	}
	return true
}

// Record converte os valores digitados em um ProcessoCadastro.
// Valores monetários que não são números geram ValidationError; campos vazios
// seguem vazios para que a validação do envio os aponte como obrigatórios.
func (f *Form) Record() (models.ProcessoCadastro, error) {
	empenhos := make([]models.Empenho, f.visibility.Count())
	for i := range empenhos {
		for _, field := range models.EmpenhoFields {
			empenhos[i].Set(field, f.visibility.Entry(i)[field])
		}
	}
	return utils.BindProcesso(f.Get, empenhos)
}

// ApplyErrors copia os erros de campo de um ValidationError para o formulário.
// Qualquer outro erro apenas limpa os erros anteriores.
func (f *Form) ApplyErrors(err error) {
	f.errors = make(map[string]string)
	var ve *appErrors.ValidationError
	if errors.As(err, &ve) {
		for field, msg := range ve.Fields {
			f.errors[field] = msg
		}
	}
}

// FieldError retorna a mensagem de erro de um campo do processo.
func (f *Form) FieldError(field string) string { return f.errors[field] }

// EmpenhoError retorna a mensagem de erro de um campo de empenho.
func (f *Form) EmpenhoError(index int, field string) string {
	return f.errors[appErrors.EmpenhoField(index, field)]
}

// HasErrors indica se há erros de campo pendentes.
func (f *Form) HasErrors() bool { return len(f.errors) > 0 }

// Token identifica o formulário nos envios.
func (f *Form) Token() string { return f.token }

// Reset volta o formulário ao estado inicial, com um token novo.
func (f *Form) Reset() {
	for key := range f.values {
		f.values[key] = ""
	}
	f.visibility = NewVisibilityController()
	f.errors = make(map[string]string)
	f.token = uuid.NewString()
}

// FromValues reconstrói o formulário a partir de um POST HTML.
// O número de seções vem de secoes_adicionadas, limitado a [0, MaxAdded].
func FromValues(values url.Values) *Form {
	f := New()
	if token := strings.TrimSpace(values.Get(ParamToken)); token != "" {
		f.token = token
	}
	added, err := strconv.Atoi(values.Get(ParamSecoesAdicionadas))
	if err != nil || added < 0 {
		added = 0
	}
	for i := 0; i < added; i++ {
		if !f.RevealNext() {
			break
		}
	}
	for _, def := range ProcessoFieldDefs {
		f.values[def.Name] = values.Get(def.Name)
	}
	for i := 0; i < f.visibility.Count(); i++ {
		for _, field := range models.EmpenhoFields {
			f.visibility.Entry(i)[field] = values.Get(EmpenhoParam(i, field))
		}
	}
	return f
}

// Values serializa o formulário no mesmo formato lido por FromValues.
func (f *Form) Values() url.Values {
	out := url.Values{}
	out.Set(ParamToken, f.token)
	out.Set(ParamSecoesAdicionadas, strconv.Itoa(f.visibility.Added()))
	for _, def := range ProcessoFieldDefs {
		out.Set(def.Name, f.values[def.Name])
	}
	for i := 0; i < f.visibility.Count(); i++ {
		for _, field := range models.EmpenhoFields {
			out.Set(EmpenhoParam(i, field), f.visibility.Entry(i)[field])
		}
	}
	return out
}
