package ui

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/form"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/services"
)

// Server reúne as dependências das páginas e da API JSON.
type Server struct {
	cfg       *core.Config
	processos services.ProcessoService
	pages     *pageRenderer
	theme     ColorPalette
	guard     *form.SubmitGuard
}

// NewServer carrega os templates e cria o servidor.
func NewServer(cfg *core.Config, processos services.ProcessoService) (*Server, error) {
	if cfg == nil || processos == nil {
		appLogger.Fatalf("Dependências nulas fornecidas para NewServer")
	}
	pages, err := newPageRenderer("home", "login")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, processos: processos, pages: pages, theme: Colors, guard: form.NewSubmitGuard()}, nil
}

// Routes monta o roteador HTTP da aplicação.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	// O contexto da requisição expira um pouco antes do WriteTimeout do servidor.
	if d := s.cfg.HTTPWriteTimeout - time.Second; d > 0 {
		r.Use(middleware.Timeout(d))
	}

	r.Get("/health", s.healthCheckHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", staticFiles()))

	r.Get("/login", s.handleLoginPage)
	r.Get("/", s.handleHome)
	r.Post("/", s.handleSubmitForm)
	r.Route("/empenhos", func(r chi.Router) {
		r.Post("/adicionar", s.handleRevealEmpenho)
		r.Post("/remover", s.handleHideEmpenho)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/processos", func(r chi.Router) {
			r.Post("/", s.handleCreateProcesso)
			r.Post("/preview", s.handlePreviewProcesso)
		})
	})

	return r
}

// NewHTTPServer cria o http.Server com os timeouts da configuração.
func (s *Server) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.Routes(),
		WriteTimeout: s.cfg.HTTPWriteTimeout,
		ReadTimeout:  s.cfg.HTTPReadTimeout,
		IdleTimeout:  time.Minute,
	}
}
