package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/repositories"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

// SubmitOutcome é o resultado entregue por SubmitAsync.
type SubmitOutcome struct {
	Result *models.SubmitResult
	Err    error
}

// ProcessoService define o envio de processos de cadastro.
type ProcessoService interface {
	// Prepare valida e transforma o processo no payload da API, sem acessar a rede.
	Prepare(rec *models.ProcessoCadastro) (*models.ProcessoCadastroPayload, error)
	// Submit valida, transforma e envia o processo em um único POST.
	Submit(ctx context.Context, rec *models.ProcessoCadastro) (*models.SubmitResult, error)
	// SubmitAsync executa Submit em outra goroutine. O canal recebe exatamente um valor.
	SubmitAsync(ctx context.Context, rec *models.ProcessoCadastro) <-chan SubmitOutcome
}

// processoServiceImpl é a implementação de ProcessoService.
type processoServiceImpl struct {
	repo repositories.ProcessoAPIRepository
	opts utils.ValidationOptions
	now  func() time.Time
}

// NewProcessoService cria uma nova instância de ProcessoService.
func NewProcessoService(repo repositories.ProcessoAPIRepository, opts utils.ValidationOptions) ProcessoService {
	if repo == nil {
		appLogger.Fatalf("Dependências nulas fornecidas para NewProcessoService")
	}
	return &processoServiceImpl{repo: repo, opts: opts, now: time.Now}
}

func (s *processoServiceImpl) Prepare(rec *models.ProcessoCadastro) (*models.ProcessoCadastroPayload, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: processo nulo", appErrors.ErrInvalidInput)
	}

	// 1. Validar
	if err := utils.ValidateProcessoCadastro(rec, s.opts); err != nil {
		logInvalidFields(err)
		return nil, err
	}

	// 2. Formatar a data para yyyy-MM-dd
	formatted := *rec
	dataEmissao, err := utils.FormatDate(rec.DataEmissao, utils.DateLayoutAPI)
	if err != nil {
		return nil, appErrors.NewValidationError("Data de emissão inválida",
			map[string]string{models.FieldDataEmissao: utils.MsgDateInvalid})
	}
	formatted.DataEmissao = dataEmissao

	// 3. Converter campos numéricos e empenhos para string
	payload := utils.StringifyNumericFields(formatted)

	// 4. Aplicar a máscara do CNPJ
	payload.CNPJ = utils.FormatCNPJ(payload.CNPJ)

	return &payload, nil
}

func (s *processoServiceImpl) Submit(ctx context.Context, rec *models.ProcessoCadastro) (*models.SubmitResult, error) {
	id := uuid.New()
	log := appLogger.WithFields(logrus.Fields{"submission_id": id.String(), "endpoint": s.repo.Endpoint()})

	payload, err := s.Prepare(rec)
	if err != nil {
		log.WithError(err).Warn("Processo não enviado: falha na validação")
		return nil, err
	}

	if data, errMarshal := json.MarshalIndent(payload, "", "  "); errMarshal == nil {
		log.Debugf("Dados que serão enviados para a API: %s", data)
	}

	sentAt := s.now()
	resp, err := s.repo.Cadastrar(ctx, payload)
	duration := s.now().Sub(sentAt)
	if err != nil {
		log.WithError(err).WithField("duration_ms", duration.Milliseconds()).Error("Erro ao enviar dados")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
		"processo":    payload.NumeroProcessoRio,
	}).Infof("Dados enviados com sucesso! Resposta: %s", resp.Body)

	return &models.SubmitResult{
		ID:         id,
		StatusCode: resp.StatusCode,
		Response:   resp.Body,
		Payload:    payload,
		SentAt:     sentAt,
		Duration:   duration,
	}, nil
}

func (s *processoServiceImpl) SubmitAsync(ctx context.Context, rec *models.ProcessoCadastro) <-chan SubmitOutcome {
	out := make(chan SubmitOutcome, 1)
	go func() {
		defer close(out)
		result, err := s.Submit(ctx, rec)
		out <- SubmitOutcome{Result: result, Err: err}
	}()
	return out
}

// logInvalidFields registra cada campo inválido, um por linha.
func logInvalidFields(err error) {
	var ve *appErrors.ValidationError
	if !errors.As(err, &ve) {
		return
	}
	for _, field := range ve.FieldNames() {
		appLogger.Debugf("%s", utils.DescribeField(field))
	}
}
