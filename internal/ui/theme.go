package ui

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	appLogger "github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/core/logger"
)

// ColorPalette define a paleta de cores da aplicação, exposta ao CSS como variáveis.
type ColorPalette struct {
	Primary      string
	PrimaryLight string
	PrimaryDark  string
	PrimaryText  string

	Success   string
	SuccessBg string
	Warning   string
	WarningBg string
	Danger    string
	DangerBg  string
	Info      string
	InfoBg    string

	Background    string
	BackgroundAlt string
	Surface       string
	Text          string
	TextMuted     string
	Border        string
	FocusRing     string
}

// Colors é a paleta padrão da aplicação.
var Colors = ColorPalette{
	Primary:      "#1A659E", // Azul Principal
	PrimaryLight: "#4D8DBC",
	PrimaryDark:  "#0F4C7B",
	PrimaryText:  "#FFFFFF",

	Success:   "#198754",
	SuccessBg: "#D1E7DD",
	Warning:   "#FFC107",
	WarningBg: "#FFF3CD",
	Danger:    "#DC3545",
	DangerBg:  "#F8D7DA",
	Info:      "#0DCAF0",
	InfoBg:    "#CFF4FC",

	Background:    "#FFFFFF",
	BackgroundAlt: "#F8F9FA",
	Surface:       "#FFFFFF",
	Text:          "#212529",
	TextMuted:     "#6C757D",
	Border:        "#DEE2E6",
	FocusRing:     "#86B7FE",
}

var hexColorPattern = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// cssColor valida uma cor hexadecimal. Retorna preto como fallback em caso de erro.
func cssColor(name, hex string) string {
	if !hexColorPattern.MatchString(hex) {
		appLogger.Warnf("Cor hexadecimal inválida para %s: '%s'. Usando preto.", name, hex)
		return "#000000"
	}
	return strings.ToUpper(hex)
}

// CSSVars gera a declaração das variáveis CSS usada no <style> do layout.
func (p ColorPalette) CSSVars() template.CSS {
	vars := []struct{ name, value string }{
		{"primary", p.Primary}, {"primary-light", p.PrimaryLight}, {"primary-dark", p.PrimaryDark}, {"primary-text", p.PrimaryText},
		{"success", p.Success}, {"success-bg", p.SuccessBg},
		{"warning", p.Warning}, {"warning-bg", p.WarningBg},
		{"danger", p.Danger}, {"danger-bg", p.DangerBg},
		{"info", p.Info}, {"info-bg", p.InfoBg},
		{"background", p.Background}, {"background-alt", p.BackgroundAlt}, {"surface", p.Surface},
		{"text", p.Text}, {"text-muted", p.TextMuted}, {"border", p.Border}, {"focus-ring", p.FocusRing},
	}
	var sb strings.Builder
	sb.WriteString(":root {")
	for _, v := range vars {
		sb.WriteString(fmt.Sprintf(" --cor-%s: %s;", v.name, cssColor(v.name, v.value)))
	}
	sb.WriteString(" }")
	return template.CSS(sb.String())
}
