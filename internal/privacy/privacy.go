// Package privacy detects and masks personal data (ФЗ-152) before user text
// leaves the bot or reaches analytics.
package privacy

import (
	"fmt"
	"regexp"
	"strconv"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

var (
	phonePattern    = regexp.MustCompile(`(\+7|8)[\s\-]?\(?\d{3}\)?[\s\-]?\d{3}[\s\-]?\d{2}[\s\-]?\d{2}`)
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	passportPattern = regexp.MustCompile(`\b\d{4}\s?\d{6}\b`)
	snilsPattern    = regexp.MustCompile(`\b\d{3}-\d{3}-\d{3}\s?\d{2}\b`)
	innPattern      = regexp.MustCompile(`\b\d{10,12}\b`)

	// RE2 word boundaries are ASCII-only, so the Cyrillic patterns anchor on
	// the capital letter instead.
	fullNamePattern  = regexp.MustCompile(`[А-ЯЁ][а-яё]+\s+[А-ЯЁ][а-яё]+\s+[А-ЯЁ][а-яё]+`)
	shortNamePattern = regexp.MustCompile(`[А-ЯЁ][а-яё]+\s+[А-ЯЁ][а-яё]+`)
	cityPattern      = regexp.MustCompile(`(?i)(^|[^\p{L}])г\.\s*[А-ЯЁ][а-яё]+`)
	streetPattern    = regexp.MustCompile(`(?i)(^|[^\p{L}])ул\.\s*[А-ЯЁ][а-яё]+`)
)

// userRules apply to every question before it is stored or sent to an AI
// provider. Order matters: phones go before passports.
var userRules = []rule{
	{phonePattern, "[ТЕЛЕФОН]"},
	{emailPattern, "[EMAIL]"},
	{passportPattern, "[ПАСПОРТ]"},
	{snilsPattern, "[СНИЛС]"},
}

// analyticsRules additionally strip names, INN and addresses for exports.
var analyticsRules = []rule{
	{fullNamePattern, "[ФИО]"},
	{shortNamePattern, "[ФИ]"},
	{phonePattern, "[ТЕЛЕФОН]"},
	{emailPattern, "[EMAIL]"},
	{passportPattern, "[ПАСПОРТ]"},
	{snilsPattern, "[СНИЛС]"},
	{innPattern, "[ИНН]"},
	{cityPattern, "${1}[ГОРОД]"},
	{streetPattern, "${1}[УЛИЦА]"},
}

// Anonymize masks phones, e-mails, passports and SNILS numbers. The boolean
// reports whether anything was replaced.
func Anonymize(text string) (string, bool) {
	detected := false
	for _, r := range userRules {
		if r.pattern.MatchString(text) {
			text = r.pattern.ReplaceAllString(text, r.replacement)
			detected = true
		}
	}
	return text, detected
}

func ContainsPersonalData(text string) bool {
	for _, r := range userRules {
		if r.pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// AnonymizeForAnalytics is the stricter variant used for admin exports.
func AnonymizeForAnalytics(text string) string {
	if text == "" {
		return text
	}
	for _, r := range analyticsRules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return text
}

// MaskUserID keeps only the last three digits of a Telegram id.
func MaskUserID(userID int64, username string) string {
	id := strconv.FormatInt(userID, 10)
	if len(id) > 3 {
		id = id[len(id)-3:]
	}
	masked := "user_***" + id
	if username != "" {
		return fmt.Sprintf("%s (@%s)", masked, username)
	}
	return masked
}

func Warning() string {
	return `⚠️ <b>Обнаружены персональные данные!</b>

В вашем вопросе содержатся данные, которые могут быть персональными (телефон, email, паспорт и т.д.).

🔒 <b>Для вашей безопасности:</b>
• Персональные данные были автоматически анонимизированы
• Они НЕ будут переданы в AI-сервисы
• Рекомендуем НЕ указывать личные данные в открытом виде

Ваш вопрос обработан с анонимизацией.`
}
