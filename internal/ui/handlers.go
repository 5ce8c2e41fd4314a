package ui

import (
	"errors"
	"fmt"
	"net/http"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/form"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/navigation"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":  "ok",
		"app":     s.cfg.AppName,
		"version": s.cfg.AppVersion,
	}
	if err := writeJSON(w, http.StatusOK, data); err != nil {
		appLogger.Errorf("Erro ao escrever health check: %v", err)
	}
}

func (s *Server) validationOptions() utils.ValidationOptions {
	return utils.ValidationOptions{VerifyCNPJDigits: s.cfg.CNPJVerifyDigits}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data interface{}) {
	if err := s.pages.render(w, status, name, data); err != nil {
		appLogger.Errorf("Erro ao renderizar página: %v", err)
		http.Error(w, "Erro interno ao montar a página", http.StatusInternalServerError)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, "login", s.layout("Login", navigation.PageLogin))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, "home", s.homeView(form.New()))
}

// withValidation junta os erros de conversão com os da validação completa, para que
// todos os campos inválidos apareçam de uma vez.
func (s *Server) withValidation(rec *models.ProcessoCadastro, bindErr error) error {
	var ve *appErrors.ValidationError
	if errors.As(bindErr, &ve) {
		var rest *appErrors.ValidationError
		if errors.As(utils.ValidateProcessoCadastro(rec, s.validationOptions()), &rest) {
			ve.Merge(rest)
		}
	}
	return bindErr
}

// parseForm reconstrói o formulário a partir do POST.
func parseForm(w http.ResponseWriter, r *http.Request) (*form.Form, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		appLogger.Warnf("Formulário mal formatado: %v", err)
		http.Error(w, "Formulário inválido", http.StatusBadRequest)
		return nil, false
	}
	return form.FromValues(r.PostForm), true
}

func (s *Server) handleRevealEmpenho(w http.ResponseWriter, r *http.Request) {
	f, ok := parseForm(w, r)
	if !ok {
		return
	}
	revealed := f.RevealNext()
	view := s.homeView(f)
	if !revealed {
		view.Flash = &flash{Kind: "warning", Message: fmt.Sprintf("Limite de %d empenhos atingido.", models.MaxEmpenhos)}
	}
	s.renderPage(w, http.StatusOK, "home", view)
}

func (s *Server) handleHideEmpenho(w http.ResponseWriter, r *http.Request) {
	f, ok := parseForm(w, r)
	if !ok {
		return
	}
	f.HideLast()
	s.renderPage(w, http.StatusOK, "home", s.homeView(f))
}

// handleSubmitForm valida e envia o formulário HTML. Em caso de falha os valores
// digitados são devolvidos para correção.
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	f, ok := parseForm(w, r)
	if !ok {
		return
	}

	// O token vem do campo oculto; dois POSTs do mesmo formulário não seguem juntos para a API.
	token := f.Token()
	if err := s.guard.Begin(token); err != nil {
		view := s.homeView(f)
		view.Pending = true
		view.Flash = &flash{Kind: "warning", Message: "Já existe um envio em andamento."}
		s.renderPage(w, http.StatusConflict, "home", view)
		return
	}
	defer s.guard.End(token)

	rec, err := f.Record()
	if err != nil {
		s.renderSubmitError(w, f, s.withValidation(&rec, err))
		return
	}

	var outcome struct {
		result *models.SubmitResult
		err    error
	}
	select {
	case out := <-s.processos.SubmitAsync(r.Context(), &rec):
		outcome.result, outcome.err = out.Result, out.Err
	case <-r.Context().Done():
		outcome.err = appErrors.NewNetworkError("requisição", r.Context().Err())
	}
	if outcome.err != nil {
		s.renderSubmitError(w, f, outcome.err)
		return
	}

	// Sucesso: formulário limpo para um novo cadastro.
	f.Reset()
	view := s.homeView(f)
	view.Result = outcome.result
	view.Flash = &flash{Kind: "success", Message: "Dados enviados com sucesso!"}
	s.renderPage(w, http.StatusOK, "home", view)
}

func (s *Server) renderSubmitError(w http.ResponseWriter, f *form.Form, err error) {
	f.ApplyErrors(err)
	view := s.homeView(f)

	var ve *appErrors.ValidationError
	var ne *appErrors.NetworkError
	switch {
	case errors.As(err, &ve):
		view.Flash = &flash{Kind: "danger", Message: "Existem campos inválidos. Corrija e envie novamente."}
		s.renderPage(w, http.StatusUnprocessableEntity, "home", view)
	case errors.As(err, &ne):
		view.Flash = &flash{Kind: "danger", Message: "Erro ao enviar dados para a API.", Detail: ne.Error()}
		s.renderPage(w, http.StatusBadGateway, "home", view)
	default:
		appLogger.Errorf("Erro inesperado no envio do formulário: %v", err)
		view.Flash = &flash{Kind: "danger", Message: "Erro interno ao enviar o processo."}
		s.renderPage(w, http.StatusInternalServerError, "home", view)
	}
}
