package models

import (
	"regexp"
	"strings"
)

// CNPJDigits é a quantidade de dígitos de um CNPJ sem máscara.
const CNPJDigits = 14

// CNPJMaskPattern é o formato canônico NN.NNN.NNN/NNNN-NN aceito pela API.
var CNPJMaskPattern = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)

// CleanCNPJ remove caracteres não numéricos de uma string CNPJ.
func CleanCNPJ(cnpjStr string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1 // Descarta o caractere
	}, cnpjStr)
}

// MaskCNPJ aplica a máscara a um CNPJ com exatamente 14 dígitos.
// Retorna o valor como está se não tiver 14 dígitos.
func MaskCNPJ(digits string) string {
	if len(digits) != CNPJDigits {
		return digits
	}
	return digits[0:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14]
}
