package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
)

// ProcessoCadastroPath é o caminho fixo do cadastro de processo na API.
const ProcessoCadastroPath = "/Api/Unidade/ProcessoCadastro"

// maxResponseBytes limita o corpo lido da resposta da API.
const maxResponseBytes = 1 << 20

// APIResponse é a resposta bem sucedida da API remota.
type APIResponse struct {
	StatusCode int
	// Body é sempre JSON válido; respostas que não são JSON vêm como string JSON.
	Body json.RawMessage
}

// ProcessoAPIRepository define o envio de processos para a API remota.
type ProcessoAPIRepository interface {
	Cadastrar(ctx context.Context, payload *models.ProcessoCadastroPayload) (*APIResponse, error)
	Endpoint() string
}

// httpProcessoAPIRepository é a implementação HTTP de ProcessoAPIRepository.
type httpProcessoAPIRepository struct {
	client   *http.Client
	endpoint string
}

// NewHTTPProcessoAPIRepository cria o repositório para a API em baseURL.
// Se client for nil, usa um http.Client com o timeout informado (0 = sem timeout).
func NewHTTPProcessoAPIRepository(baseURL string, client *http.Client, timeout time.Duration) ProcessoAPIRepository {
	if strings.TrimSpace(baseURL) == "" {
		appLogger.Fatalf("baseURL não pode ser vazia para NewHTTPProcessoAPIRepository")
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &httpProcessoAPIRepository{
		client:   client,
		endpoint: strings.TrimRight(baseURL, "/") + ProcessoCadastroPath,
	}
}

func (r *httpProcessoAPIRepository) Endpoint() string { return r.endpoint }

// Cadastrar faz um único POST com o payload em JSON. Não há nova tentativa em caso de falha.
func (r *httpProcessoAPIRepository) Cadastrar(ctx context.Context, payload *models.ProcessoCadastroPayload) (*APIResponse, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: payload nulo para cadastro de processo", appErrors.ErrInvalidInput)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		appLogger.Errorf("Erro ao serializar payload do processo %s: %v", payload.NumeroProcessoRio, err)
		return nil, appErrors.WrapErrorf(appErrors.ErrInternal, "falha ao serializar payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.NewNetworkError(r.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		appLogger.Errorf("Falha de rede ao enviar processo %s para %s: %v", payload.NumeroProcessoRio, r.endpoint, err)
		return nil, appErrors.NewNetworkError(r.endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		appLogger.Errorf("Falha ao ler resposta da API (%s): %v", r.endpoint, err)
		return nil, appErrors.NewNetworkError(r.endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appLogger.Warnf("API respondeu %d ao processo %s", resp.StatusCode, payload.NumeroProcessoRio)
		return nil, appErrors.NewHTTPStatusError(r.endpoint, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return &APIResponse{StatusCode: resp.StatusCode, Body: asJSON(respBody)}, nil
}

// asJSON devolve o corpo como está se for JSON; caso contrário, como string JSON.
// Corpo vazio vira null.
func asJSON(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(string(trimmed))
	return json.RawMessage(quoted)
}
