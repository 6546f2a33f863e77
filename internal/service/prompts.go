package service

import (
	"fmt"
	"strings"

	"ohs-consultant/internal/knowledge"
	"ohs-consultant/internal/models"
)

const basePrompt = `Ты опытный консультант по охране труда в Российской Федерации.
Отвечай на русском языке, опираясь на действующее законодательство: Трудовой кодекс РФ,
постановления Правительства, приказы Минтруда, ГОСТ ССБТ и СанПиН.

Правила ответа:
- Давай конкретный и практичный ответ без лишних вступлений.
- Ссылайся на нормативные акты (номер статьи, пункт, документ), если они известны.
- Если норма могла измениться, прямо скажи, что её нужно проверить в официальном источнике.
- Не выдумывай реквизиты документов.
- Не запрашивай и не повторяй персональные данные.`

var rolePrompts = map[models.UserRole]string{
	models.RoleSpecialistOTDOU: `Собеседник специалист по охране труда в дошкольной образовательной организации (ДОУ).
Учитывай специфику ДОУ: работа с детьми, требования СанПиН к образовательным организациям,
инструктажи педагогов и младших воспитателей, медосмотры работников образования.`,
	models.RoleSpecialistOTOther: `Собеседник специалист по охране труда. Можно использовать профессиональную терминологию
и ссылаться на детали процедур СОУТ, оценки профрисков и расследования несчастных случаев.`,
	models.RoleEmployee: `Собеседник работник, а не специалист. Объясняй простыми словами, что ему положено
и к кому обращаться на предприятии.`,
	models.RoleAdmin: `Собеседник администратор сервиса. Отвечай как специалисту по охране труда.`,
	models.RoleTrial: `Собеседник использует пробный доступ. Отвечай кратко и по существу.`,
}

const assistantPrompt = `Ты нейроассистент по охране труда, работающий с нормативной базой РФ.
Отвечай развёрнуто и структурированно: кратко суть, затем порядок действий, затем нормативное основание.
Если вопрос выходит за рамки охраны труда, вежливо скажи об этом.`

const categorizationPrompt = `Определи категорию вопроса по охране труда. Ответь одним словом из списка:
инструктажи, обучение, сиз, медосмотры, соут, расследование, документы, пожарная, электробезопасность, другое.

Вопрос: %s`

// SystemPrompt returns the system prompt for a user role; unknown roles get
// the base prompt only.
func SystemPrompt(role models.UserRole) string {
	if extra, ok := rolePrompts[role]; ok {
		return basePrompt + "\n\n" + extra
	}
	return basePrompt
}

func AssistantPrompt(role models.UserRole) string {
	return SystemPrompt(role) + "\n\n" + assistantPrompt
}

func CategorizationPrompt(question string) string {
	return fmt.Sprintf(categorizationPrompt, question)
}

// ExpandPrompt asks the model to build on a knowledge base answer.
func ExpandPrompt(entry knowledge.FAQEntry, question string) string {
	var b strings.Builder
	b.WriteString("Релевантная информация из базы знаний:\n")
	b.WriteString("Вопрос: " + entry.Question + "\n")
	b.WriteString("Ответ: " + entry.ShortAnswer + "\n")
	if entry.LegalReference != "" {
		b.WriteString("Правовая база: " + entry.LegalReference + "\n")
	}
	if entry.LegalURL != "" {
		b.WriteString("Ссылка: " + entry.LegalURL + "\n")
	}
	b.WriteString("\nВопрос пользователя: " + question + "\n\n")
	b.WriteString("Пожалуйста, дополни и расширь ответ из базы знаний, предоставь дополнительные детали, " +
		"практические рекомендации или разъяснения.")
	return b.String()
}

// contextQuery prefixes the question with the last two dialog turns so a
// follow-up like "а для водителей?" can still hit the FAQ.
func contextQuery(question string, history []*models.Message) string {
	if len(history) > 2 {
		history = history[len(history)-2:]
	}

	var parts []string
	for _, msg := range history {
		switch msg.Role {
		case models.MessageRoleUser:
			parts = append(parts, "Предыдущий вопрос: "+msg.Content)
		case models.MessageRoleAssistant:
			parts = append(parts, "Предыдущий ответ: "+truncateRunes(msg.Content, 100))
		}
	}
	if len(parts) == 0 {
		return question
	}
	return strings.Join(parts, " ") + " Текущий вопрос: " + question
}
