package ui_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Dukorsa/APP_PROCESSO_CADASTRO_GO/internal/ui"
)

var _ = Describe("ColorPalette", func() {
	It("exposes the palette as CSS variables", func() {
		css := string(ui.Colors.CSSVars())
		Expect(css).To(HavePrefix(":root {"))
		Expect(css).To(ContainSubstring("--cor-primary: #1A659E;"))
		Expect(css).To(ContainSubstring("--cor-focus-ring: #86B7FE;"))
	})

	It("replaces invalid colors with black", func() {
		palette := ui.Colors
		palette.Danger = "vermelho; } body { display: none"
		palette.Info = "#0dcaf0"
		css := string(palette.CSSVars())
		Expect(css).To(ContainSubstring("--cor-danger: #000000;"))
		Expect(css).To(ContainSubstring("--cor-info: #0DCAF0;"))
		Expect(css).NotTo(ContainSubstring("display: none"))
	})
})
