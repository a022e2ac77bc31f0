// redact маскирует чувствительные значения перед логированием и выводом.
package redact

import "strings"

// Email оставляет первые две руны локальной части и домен.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := []rune(parts[0]), parts[1]
	if len(local) > 2 {
		return string(local[:2]) + "***@" + domain
	}

	return "***@" + domain
}

// Token скрывает токен целиком; пустой токен помечается отдельно.
func Token(s string) string {
	if strings.TrimSpace(s) == "" {
		return "[EMPTY_TOKEN]"
	}

	return "[REDACTED_TOKEN]"
}

// Secret — маска для паролей и ключей.
func Secret() string { return "[REDACTED_SECRET]" }
