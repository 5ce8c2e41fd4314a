package utils_test

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

var _ = Describe("ExportImportReport", func() {
	var report *models.ImportReport

	BeforeEach(func() {
		finished := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
		report = &models.ImportReport{File: "processos.csv", StartedAt: finished.Add(-time.Minute), FinishedAt: finished}
		report.Add(models.ImportRow{Line: 2, SubmissionID: uuid.New(), NumeroProcessoRio: "P1", CNPJ: "12.345.678/0001-95", Status: models.ImportStatusEnviado, StatusCode: 200})
		report.Add(models.ImportRow{Line: 3, NumeroProcessoRio: "P2", Status: models.ImportStatusInvalido, InvalidFields: []string{"CNPJ", "UG"}})
	})

	It("writes one row per imported line plus a summary sheet", func() {
		dir := GinkgoT().TempDir()
		path, err := utils.ExportImportReport(report, "", dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Base(path)).To(Equal("relatorio_processos_20240315_100000.xlsx"))

		f, err := excelize.OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Linhas")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0][0]).To(Equal("Linha"))
		Expect(rows[1][4]).To(Equal(models.ImportStatusEnviado))
		Expect(rows[2][7]).To(Equal("CNPJ, UG"))

		enviadas, err := f.GetCellValue("Resumo", "B5")
		Expect(err).NotTo(HaveOccurred())
		Expect(enviadas).To(Equal("1"))

		linhas, err := f.GetSheetIndex("Linhas")
		Expect(err).NotTo(HaveOccurred())
		Expect(f.GetActiveSheetIndex()).To(Equal(linhas))
	})

	It("keeps a backup when the report already exists", func() {
		dir := GinkgoT().TempDir()
		first, err := utils.ExportImportReport(report, "relatorio.xlsx", dir)
		Expect(err).NotTo(HaveOccurred())
		second, err := utils.ExportImportReport(report, "relatorio.xlsx", dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))

		backups, _ := filepath.Glob(filepath.Join(dir, "relatorio_backup_*.xlsx"))
		Expect(backups).To(HaveLen(1))
	})

	It("rejects a nil report", func() {
		_, err := utils.ExportImportReport(nil, "", GinkgoT().TempDir())
		Expect(err).To(HaveOccurred())
	})
})
