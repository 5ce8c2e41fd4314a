package form_test

import (
	"errors"
	"net/url"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/form"
)

func fillValid(f *form.Form) {
	values := map[string]string{
		models.FieldNumeroProcessoRio: "SEI-260002/000123/2024",
		models.FieldUG:                "133100",
		models.FieldNomeUnidade:       "Hospital Estadual",
		models.FieldCNPJ:              "12345678000195",
		models.FieldRazaoSocial:       "Fornecedora Exemplo LTDA",
		models.FieldNrNotaFiscal:      "4521",
		models.FieldValorBruto:        "1.234,56",
		models.FieldDataEmissao:       "2024-03-15",
		models.FieldCOFINS:            "0",
		models.FieldCSLL:              "0",
		models.FieldISS:               "12.5",
		models.FieldIR:                "0",
		models.FieldPIS:               "0",
		models.FieldINSS:              "0",
	}
	for field, v := range values {
		Expect(f.Set(field, v)).To(Succeed())
	}
	Expect(f.SetEmpenho(0, models.FieldNE, "2024NE000123")).To(Succeed())
	Expect(f.SetEmpenho(0, models.FieldFR, "100")).To(Succeed())
	Expect(f.SetEmpenho(0, models.FieldNaturezaDespesa, "339030")).To(Succeed())
	Expect(f.SetEmpenho(0, models.FieldTipoPatrimonial, "Consumo")).To(Succeed())
	Expect(f.SetEmpenho(0, models.FieldItemPatrimonial, "Material de escritório")).To(Succeed())
}

var _ = Describe("Form", func() {
	var f *form.Form

	BeforeEach(func() {
		f = form.New()
	})

	Describe("Set and SetEmpenho", func() {
		It("rejects unknown fields", func() {
			err := f.Set("Inexistente", "x")
			Expect(errors.Is(err, appErrors.ErrInvalidInput)).To(BeTrue())
		})

		It("rejects sections that are not visible", func() {
			err := f.SetEmpenho(1, models.FieldNE, "x")
			Expect(errors.Is(err, appErrors.ErrInvalidInput)).To(BeTrue())

			f.RevealNext()
			Expect(f.SetEmpenho(1, models.FieldNE, "x")).To(Succeed())
			Expect(f.Empenho(1, models.FieldNE)).To(Equal("x"))
		})
	})

	Describe("Record", func() {
		It("builds a record with decimal amounts and one entry per visible section", func() {
			fillValid(f)
			f.RevealNext()

			rec, err := f.Record()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.RazaoSocial).To(Equal("Fornecedora Exemplo LTDA"))
			Expect(rec.ValorBruto.Valid).To(BeTrue())
			Expect(rec.ValorBruto.Decimal.String()).To(Equal("1234.56"))
			Expect(rec.ISS.Decimal.String()).To(Equal("12.5"))
			Expect(rec.ListEmpenho).To(HaveLen(2))
			Expect(rec.ListEmpenho[0].NE.String()).To(Equal("2024NE000123"))
			Expect(rec.ListEmpenho[1].NE.String()).To(BeEmpty())
		})

		It("leaves empty amounts unset", func() {
			rec, err := f.Record()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.ValorBruto.Valid).To(BeFalse())
		})

		It("reports non numeric amounts by field name", func() {
			fillValid(f)
			Expect(f.Set(models.FieldPIS, "abc")).To(Succeed())

			_, err := f.Record()
			var ve *appErrors.ValidationError
			Expect(errors.As(err, &ve)).To(BeTrue())
			Expect(ve.FieldNames()).To(Equal([]string{models.FieldPIS}))
		})
	})

	Describe("errors", func() {
		It("applies validation errors and drops those of hidden sections", func() {
			f.RevealNext()
			ve := appErrors.NewValidationError("inválido", map[string]string{
				models.FieldRazaoSocial:                   "Campo obrigatório.",
				appErrors.EmpenhoField(1, models.FieldNE): "Campo obrigatório.",
			})
			f.ApplyErrors(ve)
			Expect(f.FieldError(models.FieldRazaoSocial)).To(Equal("Campo obrigatório."))
			Expect(f.EmpenhoError(1, models.FieldNE)).To(Equal("Campo obrigatório."))

			f.HideLast()
			Expect(f.EmpenhoError(1, models.FieldNE)).To(BeEmpty())
			Expect(f.HasErrors()).To(BeTrue())
		})

		It("clears field errors for non validation errors", func() {
			f.ApplyErrors(appErrors.NewValidationError("x", map[string]string{"UG": "y"}))
			f.ApplyErrors(errors.New("rede"))
			Expect(f.HasErrors()).To(BeFalse())
		})
	})

	Describe("SubmitGuard", func() {
		var guard *form.SubmitGuard

		BeforeEach(func() {
			guard = form.NewSubmitGuard()
		})

		It("allows only one pending submission per token", func() {
			Expect(guard.Begin(f.Token())).To(Succeed())
			Expect(guard.Begin(f.Token())).To(MatchError(appErrors.ErrSubmissionInFlight))
			Expect(guard.Begin(form.New().Token())).To(Succeed())

			guard.End(f.Token())
			Expect(guard.Pending(f.Token())).To(BeFalse())
			Expect(guard.Begin(f.Token())).To(Succeed())
		})

		It("holds across forms rebuilt from the same post", func() {
			posted := f.Values()
			Expect(guard.Begin(form.FromValues(posted).Token())).To(Succeed())
			Expect(guard.Begin(form.FromValues(posted).Token())).To(MatchError(appErrors.ErrSubmissionInFlight))
		})

		It("lets exactly one of many concurrent callers through", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			won := 0
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if guard.Begin(f.Token()) == nil {
						mu.Lock()
						won++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			Expect(won).To(Equal(1))
		})
	})

	Describe("FromValues and Values", func() {
		It("round-trips the HTML form post", func() {
			fillValid(f)
			f.RevealNext()
			Expect(f.SetEmpenho(1, models.FieldNE, "2024NE000999")).To(Succeed())

			restored := form.FromValues(f.Values())
			Expect(restored.Token()).To(Equal(f.Token()))
			Expect(restored.Visibility().Added()).To(Equal(1))
			Expect(restored.Get(models.FieldCNPJ)).To(Equal("12345678000195"))
			Expect(restored.Empenho(1, models.FieldNE)).To(Equal("2024NE000999"))
		})

		It("clamps the number of added sections", func() {
			restored := form.FromValues(url.Values{form.ParamSecoesAdicionadas: {"9"}})
			Expect(restored.Visibility().Added()).To(Equal(form.MaxAdded))

			restored = form.FromValues(url.Values{form.ParamSecoesAdicionadas: {"-1"}})
			Expect(restored.Visibility().Added()).To(Equal(0))
		})
	})

	It("resets to the initial state", func() {
		fillValid(f)
		f.RevealNext()
		token := f.Token()
		f.Reset()
		Expect(f.Token()).NotTo(Equal(token))
		Expect(f.Get(models.FieldUG)).To(BeEmpty())
		Expect(f.Visibility().Flags()).To(Equal([]bool{true}))
	})
})
