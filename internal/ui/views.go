package ui

import (
	"html/template"
	"time"

	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/data/models"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/form"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/navigation"
)

// flash é a mensagem de status exibida no topo da página.
type flash struct {
	Kind    string // success, danger, warning
	Message string
	Detail  string
}

// layoutView contém o que o layout precisa em todas as páginas.
type layoutView struct {
	Title      string
	AppName    string
	AppVersion string
	Year       int
	ThemeCSS   template.CSS
	Nav        []navigation.Item
	Page       navigation.PageID
	Flash      *flash
}

// sectionView descreve uma seção de empenho na tela.
type sectionView struct {
	Index   int
	Number  int
	Visible bool
}

type homeView struct {
	layoutView
	Form          *form.Form
	Fields        []form.FieldDef
	EmpenhoFields []form.FieldDef
	Sections      []sectionView
	Result        *models.SubmitResult
	// Pending desabilita o botão de envio enquanto outro envio do mesmo formulário não termina.
	Pending bool
}

func (s *Server) layout(title string, page navigation.PageID) layoutView {
	return layoutView{
		Title:      title,
		AppName:    s.cfg.AppName,
		AppVersion: s.cfg.AppVersion,
		Year:       time.Now().Year(),
		ThemeCSS:   s.theme.CSSVars(),
		Nav:        navigation.Items(),
		Page:       page,
	}
}

func (s *Server) homeView(f *form.Form) homeView {
	flags := f.Visibility().Flags()
	sections := make([]sectionView, len(flags))
	for i, visible := range flags {
		sections[i] = sectionView{Index: i, Number: i + 1, Visible: visible}
	}
	return homeView{
		layoutView:    s.layout("Cadastro de Processo", navigation.PageMain),
		Form:          f,
		Fields:        form.ProcessoFieldDefs,
		EmpenhoFields: form.EmpenhoFieldDefs,
		Sections:      sections,
	}
}
