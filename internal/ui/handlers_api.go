package ui

import (
	"errors"
	"net/http"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/response"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

// handleCreateProcesso recebe um processo em JSON e o envia para a API de cadastro.
func (s *Server) handleCreateProcesso(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.readProcesso(w, r)
	if !ok {
		return
	}

	result, err := s.processos.Submit(r.Context(), rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &response.APIResponse[*models.SubmitResult]{
		Success: true,
		Message: "Dados enviados com sucesso!",
		Data:    result,
	})
}

// handlePreviewProcesso devolve o payload que seria enviado, sem acessar a API.
func (s *Server) handlePreviewProcesso(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.readProcesso(w, r)
	if !ok {
		return
	}

	payload, err := s.processos.Prepare(rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &response.APIResponse[*models.ProcessoCadastroPayload]{
		Success: true,
		Data:    payload,
	})
}

// readProcesso decodifica o processo e converte os valores monetários. Falhas de conversão
// respondem 422 junto com os demais campos inválidos.
func (s *Server) readProcesso(w http.ResponseWriter, r *http.Request) (*models.ProcessoCadastro, bool) {
	var in models.ProcessoCadastroInput
	if err := readJSON(w, r, &in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "JSON inválido: "+err.Error())
		return nil, false
	}
	rec, err := utils.BindProcessoInput(&in)
	if err != nil {
		writeServiceError(w, s.withValidation(&rec, err))
		return nil, false
	}
	return &rec, true
}

// writeServiceError traduz os erros do serviço em status HTTP: 422 validação, 502 rede.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *appErrors.ValidationError
	var ne *appErrors.NetworkError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, &response.ErrorResponse{Error: ve.Message, Fields: ve.Fields})
	case errors.As(err, &ne):
		writeJSON(w, http.StatusBadGateway, &response.ErrorResponse{Error: ne.Error(), UpstreamStatus: ne.StatusCode})
	case errors.Is(err, appErrors.ErrInvalidInput):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		appLogger.Errorf("Erro inesperado na API de processos: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "erro interno")
	}
}
