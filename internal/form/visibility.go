package form

import "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"

// MaxAdded é quantas seções de empenho podem ser adicionadas além da primeira.
const MaxAdded = models.MaxEmpenhos - 1

// EmpenhoValues guarda os valores digitados de uma seção de empenho, por nome de campo.
type EmpenhoValues map[string]string

func newEmpenhoValues() EmpenhoValues {
	values := make(EmpenhoValues, len(models.EmpenhoFields))
	for _, field := range models.EmpenhoFields {
		values[field] = ""
	}
	return values
}

// VisibilityController controla quantas seções de empenho estão visíveis.
// A seção 0 está sempre visível; até MaxAdded seções podem ser reveladas.
// len(flags) == 1 + added == len(entries) em qualquer momento.
type VisibilityController struct {
	flags   []bool
	entries []EmpenhoValues
	added   int
}

// NewVisibilityController cria o controlador com apenas a primeira seção visível.
func NewVisibilityController() *VisibilityController {
	return &VisibilityController{
		flags:   []bool{true},
		entries: []EmpenhoValues{newEmpenhoValues()},
	}
}

// RevealNext adiciona uma seção vazia e a torna visível.
// Retorna false, sem alterar o estado, quando o limite já foi atingido.
func (vc *VisibilityController) RevealNext() bool {
	if vc.added >= MaxAdded {
		return false
	}
	vc.added++
	vc.entries = append(vc.entries, newEmpenhoValues())
	vc.flags = append(vc.flags, false)
	vc.flags[len(vc.flags)-1] = true
	return true
}

// HideLast remove a última seção adicionada (flag e valores).
// Retorna false quando só resta a primeira seção.
func (vc *VisibilityController) HideLast() bool {
	if vc.added <= 0 {
		return false
	}
	vc.added--
	vc.flags = vc.flags[:len(vc.flags)-1]
	vc.entries = vc.entries[:len(vc.entries)-1]
	return true
}

// Flags retorna uma cópia das flags de visibilidade.
func (vc *VisibilityController) Flags() []bool {
	out := make([]bool, len(vc.flags))
	copy(out, vc.flags)
	return out
}

// Added retorna quantas seções foram adicionadas além da primeira.
func (vc *VisibilityController) Added() int { return vc.added }

// Count retorna o total de seções (visíveis) de empenho.
func (vc *VisibilityController) Count() int { return len(vc.entries) }

// CanReveal indica se ainda é possível revelar uma seção de empenho.
func (vc *VisibilityController) CanReveal() bool { return vc.added < MaxAdded }

// CanHide indica se há seção adicionada para remover.
func (vc *VisibilityController) CanHide() bool { return vc.added > 0 }

// Visible indica se a seção i está visível.
func (vc *VisibilityController) Visible(i int) bool {
	return i >= 0 && i < len(vc.flags) && vc.flags[i]
}

// Entry retorna os valores da seção i, ou nil se ela não existir.
func (vc *VisibilityController) Entry(i int) EmpenhoValues {
	if i < 0 || i >= len(vc.entries) {
		return nil
	}
	return vc.entries[i]
}
