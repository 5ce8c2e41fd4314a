package testhelpers

import (
	"io"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
)

// APIBaseURL é o endereço fictício da API usado nos testes.
const APIBaseURL = "http://api-gpl.test/api-gpl"

// ValidCNPJ tem dígitos verificadores corretos.
const ValidCNPJ = "12345678000195"

// SilenceLogger descarta a saída do logger da aplicação.
func SilenceLogger() {
	l := logrus.New()
	l.SetOutput(io.Discard)
	appLogger.UseLogger(l)
}

func amount(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

// ValidEmpenho retorna um empenho completo.
func ValidEmpenho() models.Empenho {
	return models.Empenho{
		NE:              "2024NE000123",
		FR:              "100",
		NaturezaDespesa: "339030",
		TipoPatrimonial: "Consumo",
		ItemPatrimonial: "Material de escritório",
	}
}

// ValidProcesso retorna um processo que passa na validação, com um empenho.
func ValidProcesso() models.ProcessoCadastro {
	return models.ProcessoCadastro{
		NumeroProcessoRio: "SEI-260002/000123/2024",
		UG:                "133100",
		NomeUnidade:       "Hospital Estadual",
		CNPJ:              ValidCNPJ,
		RazaoSocial:       "Fornecedora Exemplo LTDA",
		NrNotaFiscal:      "4521",
		ValorBruto:        amount("1000"),
		DataEmissao:       "15/03/2024",
		COFINS:            amount("30.40"),
		CSLL:              amount("10"),
		ISS:               amount("50"),
		IR:                amount("15"),
		PIS:               amount("6.5"),
		INSS:              amount("0"),
		ListEmpenho:       []models.Empenho{ValidEmpenho()},
	}
}

// ExpectedPayload é o payload que ValidProcesso deve gerar.
func ExpectedPayload() models.ProcessoCadastroPayload {
	return models.ProcessoCadastroPayload{
		NumeroProcessoRio: "SEI-260002/000123/2024",
		UG:                "133100",
		NomeUnidade:       "Hospital Estadual",
		CNPJ:              "12.345.678/0001-95",
		RazaoSocial:       "Fornecedora Exemplo LTDA",
		NrNotaFiscal:      "4521",
		ValorBruto:        "1000",
		DataEmissao:       "2024-03-15",
		COFINS:            "30.4",
		CSLL:              "10",
		ISS:               "50",
		IR:                "15",
		PIS:               "6.5",
		INSS:              "0",
		ListEmpenho: []models.EmpenhoPayload{{
			NE:              "2024NE000123",
			FR:              "100",
			NaturezaDespesa: "339030",
			TipoPatrimonial: "Consumo",
			ItemPatrimonial: "Material de escritório",
		}},
	}
}
