package models

import (
	"time"

	"github.com/google/uuid"
)

// Situações possíveis de uma linha importada.
const (
	ImportStatusEnviado  = "ENVIADO"
	ImportStatusInvalido = "INVALIDO"
	ImportStatusFalha    = "FALHA_ENVIO"
)

// ImportRow é o resultado do envio de uma linha da planilha.
type ImportRow struct {
	Line              int       `json:"line"`
	SubmissionID      uuid.UUID `json:"submission_id"`
	NumeroProcessoRio string    `json:"NumeroProcessoRio"`
	CNPJ              string    `json:"CNPJ"`
	Status            string    `json:"status"`
	StatusCode        int       `json:"status_code,omitempty"`
	Message           string    `json:"message,omitempty"`
	// InvalidFields lista os campos reprovados na validação, quando Status for INVALIDO.
	InvalidFields []string `json:"invalid_fields,omitempty"`
}

// ImportReport resume a importação de um arquivo.
type ImportReport struct {
	File       string      `json:"file"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Rows       []ImportRow `json:"rows"`
	Succeeded  int         `json:"succeeded"`
	Failed     int         `json:"failed"`
}

// Add registra uma linha e atualiza os contadores.
func (r *ImportReport) Add(row ImportRow) {
	r.Rows = append(r.Rows, row)
	if row.Status == ImportStatusEnviado {
		r.Succeeded++
	} else {
		r.Failed++
	}
}
