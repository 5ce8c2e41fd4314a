package form

import (
	"sync"

	appErrors "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/errors"
)

// SubmitGuard registra os envios em andamento por token de formulário.
// Cada POST reconstrói o Form, então o estado "em envio" precisa viver fora dele:
// o servidor mantém um SubmitGuard e cada formulário carrega o seu token.
type SubmitGuard struct {
	pending sync.Map // token -> struct{}
}

func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{}
}

// Begin reserva o token. Retorna ErrSubmissionInFlight se já houver um envio pendente com ele.
func (g *SubmitGuard) Begin(token string) error {
	if _, busy := g.pending.LoadOrStore(token, struct{}{}); busy {
		return appErrors.ErrSubmissionInFlight
	}
	return nil
}

// End libera o token para um novo envio.
func (g *SubmitGuard) End(token string) {
	g.pending.Delete(token)
}

// Pending indica se há um envio em andamento com o token.
func (g *SubmitGuard) Pending(token string) bool {
	_, busy := g.pending.Load(token)
	return busy
}
