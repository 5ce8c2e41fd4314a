package response

// APIResponse é o envelope das respostas de sucesso da API JSON.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// ErrorResponse é o corpo das respostas de erro.
type ErrorResponse struct {
	Error string `json:"error"`
	// Fields lista os campos inválidos quando o erro é de validação.
	Fields map[string]string `json:"fields,omitempty"`
	// UpstreamStatus é o status devolvido pela API de cadastro, quando houver.
	UpstreamStatus int `json:"upstream_status,omitempty"`
}
