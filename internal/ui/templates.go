package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/form"
	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templateFuncs = template.FuncMap{
	"empenhoParam": form.EmpenhoParam,
	// brl formata um valor do payload (ex: "1234.5") como "R$ 1.234,50".
	"brl": func(v string) string {
		d, err := utils.ParseDecimalBR(v)
		if err != nil {
			return v
		}
		return utils.FormatBRL(d)
	},
}

// pageRenderer guarda um template por página, cada um combinado com o layout.
type pageRenderer struct {
	pages map[string]*template.Template
}

func newPageRenderer(names ...string) (*pageRenderer, error) {
	pr := &pageRenderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("falha ao carregar template '%s': %w", name, err)
		}
		pr.pages[name] = tmpl
	}
	return pr, nil
}

// render executa a página em um buffer antes de escrever, para não enviar HTML parcial.
func (pr *pageRenderer) render(w http.ResponseWriter, status int, name string, data interface{}) error {
	tmpl, ok := pr.pages[name]
	if !ok {
		return fmt.Errorf("template '%s' não registrado", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("falha ao renderizar '%s': %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func staticFiles() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // diretório embutido em tempo de compilação
	}
	return http.FileServer(http.FS(sub))
}
