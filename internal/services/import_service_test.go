package services_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/repositories"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/services"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/testhelpers"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

func validRow() []string {
	return []string{
		"SEI-260002/000123/2024", "133100", "Hospital Estadual", "12.345.678/0001-95",
		"Fornecedora Exemplo LTDA", "4521", "1.000,00", "15/03/2024",
		"0", "0", "0", "0", "0", "0",
		"2024NE000123", "100", "339030", "Consumo", "Material de escritório",
	}
}

func writeCSV(dir, name string, rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, strings.Join(r, ";"))
	}
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)).To(Succeed())
	return path
}

var _ = Describe("ImportService", func() {
	var (
		transport *testhelpers.MockTransport
		importer  services.ImportService
		dir       string
	)

	BeforeEach(func() {
		transport = testhelpers.NewMockTransport()
		repo := repositories.NewHTTPProcessoAPIRepository(testhelpers.APIBaseURL, transport.Client(), 0)
		importer = services.NewImportService(services.NewProcessoService(repo, utils.ValidationOptions{VerifyCNPJDigits: true}))
		dir = GinkgoT().TempDir()
	})

	It("submits every valid CSV row and reports invalid ones without stopping", func() {
		transport.Expect(testhelpers.APIBaseURL).
			Post(repositories.ProcessoCadastroPath).
			Reply(http.StatusOK).
			JSON(map[string]interface{}{"success": true})

		invalid := validRow()
		invalid[4] = "" // RazaoSocial
		path := writeCSV(dir, "processos.csv", [][]string{services.ExpectedColumns(), invalid, validRow()})

		report, err := importer.ImportFile(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Rows).To(HaveLen(2))
		Expect(report.Succeeded).To(Equal(1))
		Expect(report.Failed).To(Equal(1))

		Expect(report.Rows[0].Line).To(Equal(2))
		Expect(report.Rows[0].Status).To(Equal(models.ImportStatusInvalido))
		Expect(report.Rows[0].InvalidFields).To(ContainElement(models.FieldRazaoSocial))

		Expect(report.Rows[1].Status).To(Equal(models.ImportStatusEnviado))
		Expect(report.Rows[1].CNPJ).To(Equal("12.345.678/0001-95"))
		Expect(transport.RequestCount()).To(Equal(1))

		req, _ := transport.LastRequest()
		var sent models.ProcessoCadastroPayload
		Expect(req.DecodeJSON(&sent)).To(Succeed())
		Expect(sent.ValorBruto).To(Equal("1000"))
		Expect(sent.DataEmissao).To(Equal("2024-03-15"))
		Expect(sent.ListEmpenho).To(HaveLen(1))
	})

	It("decodes Latin-1 CSV files", func() {
		transport.Expect(testhelpers.APIBaseURL).
			Post(repositories.ProcessoCadastroPath).
			Reply(http.StatusOK)

		row := validRow()
		row[2] = "Unidade São João"
		content := strings.Join(services.ExpectedColumns(), ";") + "\n" + strings.Join(row, ";") + "\n"
		encoded, err := charmap.ISO8859_1.NewEncoder().String(content)
		Expect(err).NotTo(HaveOccurred())
		path := filepath.Join(dir, "latin1.csv")
		Expect(os.WriteFile(path, []byte(encoded), 0o644)).To(Succeed())

		report, err := importer.ImportFile(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Succeeded).To(Equal(1))

		req, _ := transport.LastRequest()
		var sent models.ProcessoCadastroPayload
		Expect(req.DecodeJSON(&sent)).To(Succeed())
		Expect(sent.NomeUnidade).To(Equal("Unidade São João"))
	})

	It("reads XLSX files with optional empenho columns", func() {
		transport.Expect(testhelpers.APIBaseURL).
			Post(repositories.ProcessoCadastroPath).
			Reply(http.StatusOK)

		header := append(services.ExpectedColumns(),
			services.EmpenhoColumn(models.FieldNE, 2), services.EmpenhoColumn(models.FieldFR, 2),
			services.EmpenhoColumn(models.FieldNaturezaDespesa, 2), services.EmpenhoColumn(models.FieldTipoPatrimonial, 2),
			services.EmpenhoColumn(models.FieldItemPatrimonial, 2))
		row := append(validRow(), "2024NE000124", "101", "449052", "Permanente", "Computador")

		xlsx := excelize.NewFile()
		Expect(xlsx.SetSheetRow("Sheet1", "A1", &header)).To(Succeed())
		Expect(xlsx.SetSheetRow("Sheet1", "A2", &row)).To(Succeed())
		path := filepath.Join(dir, "processos.xlsx")
		Expect(xlsx.SaveAs(path)).To(Succeed())
		Expect(xlsx.Close()).To(Succeed())

		report, err := importer.ImportFile(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Succeeded).To(Equal(1))

		req, _ := transport.LastRequest()
		var sent models.ProcessoCadastroPayload
		Expect(req.DecodeJSON(&sent)).To(Succeed())
		Expect(sent.ListEmpenho).To(HaveLen(2))
		Expect(sent.ListEmpenho[1].ItemPatrimonial).To(Equal("Computador"))
	})

	It("reports a blank empenho group before a filled one by its columns", func() {
		header := services.AllColumns()
		row := append(validRow(), "", "", "", "", "")
		row = append(row, "2024NE000125", "102", "339039", "Serviço", "Manutenção")
		path := writeCSV(dir, "lacuna.csv", [][]string{header, row})

		report, err := importer.ImportFile(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Rows).To(HaveLen(1))
		Expect(report.Rows[0].Status).To(Equal(models.ImportStatusInvalido))
		Expect(report.Rows[0].InvalidFields).To(ContainElements(
			services.EmpenhoColumn(models.FieldNE, 2), services.EmpenhoColumn(models.FieldItemPatrimonial, 2)))
		Expect(report.Rows[0].InvalidFields).NotTo(ContainElement(services.EmpenhoColumn(models.FieldNE, 3)))
		Expect(transport.RequestCount()).To(Equal(0))
	})

	It("reports non-numeric amounts as invalid fields", func() {
		row := validRow()
		row[8] = "trinta" // COFINS
		path := writeCSV(dir, "valor.csv", [][]string{services.ExpectedColumns(), row})

		report, err := importer.ImportFile(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Rows[0].Status).To(Equal(models.ImportStatusInvalido))
		Expect(report.Rows[0].InvalidFields).To(Equal([]string{models.FieldCOFINS}))
		Expect(transport.RequestCount()).To(Equal(0))
	})

	It("records network failures per row", func() {
		transport.Expect(testhelpers.APIBaseURL).
			Post(repositories.ProcessoCadastroPath).
			Reply(http.StatusServiceUnavailable)

		path := writeCSV(dir, "falha.csv", [][]string{services.ExpectedColumns(), validRow()})
		report, err := importer.ImportFile(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Rows[0].Status).To(Equal(models.ImportStatusFalha))
		Expect(report.Rows[0].StatusCode).To(Equal(http.StatusServiceUnavailable))
	})

	It("rejects files missing required columns", func() {
		path := writeCSV(dir, "incompleto.csv", [][]string{{"UG", "CNPJ"}, {"1", "2"}})
		_, err := importer.ImportFile(context.Background(), path)
		Expect(errors.Is(err, appErrors.ErrDataImport)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring(models.FieldRazaoSocial))
		Expect(transport.RequestCount()).To(Equal(0))
	})

	It("rejects unsupported extensions and missing files", func() {
		path := filepath.Join(dir, "dados.json")
		Expect(os.WriteFile(path, []byte("{}"), 0o644)).To(Succeed())
		_, err := importer.ImportFile(context.Background(), path)
		Expect(errors.Is(err, appErrors.ErrDataImport)).To(BeTrue())

		_, err = importer.ImportFile(context.Background(), filepath.Join(dir, "nao_existe.csv"))
		Expect(errors.Is(err, appErrors.ErrDataImport)).To(BeTrue())
	})

	It("stops when the context is cancelled", func() {
		path := writeCSV(dir, "cancelado.csv", [][]string{services.ExpectedColumns(), validRow()})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report, err := importer.ImportFile(ctx, path)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(report.Rows).To(BeEmpty())
		Expect(transport.RequestCount()).To(Equal(0))
	})
})

var _ = DescribeTable("ColumnForField",
	func(key, column string) {
		Expect(services.ColumnForField(key)).To(Equal(column))
	},
	Entry("process field", models.FieldUG, models.FieldUG),
	Entry("first empenho", appErrors.EmpenhoField(0, models.FieldNE), "NE_1"),
	Entry("third empenho", appErrors.EmpenhoField(2, models.FieldFR), "FR_3"),
	Entry("list itself", "listEmpenho", "listEmpenho"),
)
