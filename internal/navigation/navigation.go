package navigation

// PageID define um identificador único para cada página da aplicação.
type PageID int

const (
	PageNone PageID = iota
	PageLogin
	PageMain
)

// Item é uma entrada do menu lateral.
type Item struct {
	ID    PageID
	Title string
	Path  string
	// Icon é o nome de um ícone Bootstrap Icons (ex: "bi-journal-plus").
	Icon string
}

var items = []Item{
	{ID: PageMain, Title: "Cadastro de Processo", Path: "/", Icon: "bi-journal-plus"},
	{ID: PageLogin, Title: "Login", Path: "/login", Icon: "bi-box-arrow-in-right"},
}

// Items retorna os itens do menu na ordem de exibição.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// PathFor retorna o caminho HTTP de uma página, ou "/" se ela não estiver no menu.
func PathFor(id PageID) string {
	for _, it := range items {
		if it.ID == id {
			return it.Path
		}
	}
	return "/"
}

// Active indica se o item corresponde à página atual.
func (i Item) Active(current PageID) bool { return i.ID == current }
