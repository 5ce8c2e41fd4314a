package utils_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/testhelpers"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

func decodeInput(body string) *models.ProcessoCadastroInput {
	var in models.ProcessoCadastroInput
	Expect(json.Unmarshal([]byte(body), &in)).To(Succeed())
	return &in
}

var _ = Describe("BindProcessoInput", func() {
	It("binds the JSON of a valid record to the same record", func() {
		data, err := json.Marshal(testhelpers.ValidProcesso())
		Expect(err).NotTo(HaveOccurred())

		rec, err := utils.BindProcessoInput(decodeInput(string(data)))
		Expect(err).NotTo(HaveOccurred())
		Expect(utils.ValidateProcessoCadastro(&rec, utils.ValidationOptions{VerifyCNPJDigits: true})).To(Succeed())
		Expect(rec.COFINS.Decimal.String()).To(Equal("30.4"))
		Expect(rec.ListEmpenho).To(HaveLen(1))
	})

	It("accepts empty strings, numbers and Brazilian amounts", func() {
		rec, err := utils.BindProcessoInput(decodeInput(`{"ValorBruto": "", "COFINS": 12.5, "ISS": "1.234,56", "UG": 133100}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.ValorBruto.Valid).To(BeFalse())
		Expect(rec.COFINS.Decimal.String()).To(Equal("12.5"))
		Expect(rec.ISS.Decimal.String()).To(Equal("1234.56"))
		Expect(rec.UG.String()).To(Equal("133100"))
		Expect(rec.ListEmpenho).To(BeNil())
	})

	It("reports every non numeric amount by field and keeps the other values", func() {
		rec, err := utils.BindProcessoInput(decodeInput(`{"PIS": "abc", "IR": "1,2,3", "RazaoSocial": " Fornecedora "}`))
		var ve *appErrors.ValidationError
		Expect(errors.As(err, &ve)).To(BeTrue())
		Expect(ve.FieldNames()).To(Equal([]string{models.FieldIR, models.FieldPIS}))
		Expect(ve.Fields[models.FieldPIS]).To(Equal(utils.MsgNotNumeric))
		Expect(rec.RazaoSocial).To(Equal("Fornecedora"))
	})

	It("trims empenho values", func() {
		rec, err := utils.BindProcessoInput(decodeInput(`{"listEmpenho": [{"NE": " 2024NE1 ", "FR": 100}]}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.ListEmpenho[0].NE.String()).To(Equal("2024NE1"))
		Expect(rec.ListEmpenho[0].FR.String()).To(Equal("100"))
	})
})
