package knowledge

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGovernmentSource(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.consultant.ru/document/cons_doc_LAW_34683/", true},
		{"http://pravo.gov.ru/proxy/ips/", true},
		{"https://regulation.gov.ru/projects", true},
		{"https://MINTRUD.GOV.RU/docs", true},
		{"https://docs.cntd.ru/document/1200000000", true},
		{"mintrud.gov.ru/docs", true},
		{"www.consultant.ru/document/cons_doc_LAW_34683/", true},
		{"example-blog.ru/article", false},
		{"https://example-blog.ru/article", false},
		{"https://consultant.ru.example.com/", false},
		{"https://notgost.ru/", false},
		{"", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGovernmentSource(tt.url))
		})
	}
}

func TestLaborCodeArticleURL(t *testing.T) {
	assert.Equal(t, "https://www.consultant.ru/document/cons_doc_LAW_34683/st-225/", LaborCodeArticleURL("ТК РФ ст. 225"))
	assert.Equal(t, "https://www.consultant.ru/document/cons_doc_LAW_34683/st-214.1/", LaborCodeArticleURL("ТК РФ ст.214.1"))
	assert.Empty(t, LaborCodeArticleURL("ТК РФ, глава 36"))
	assert.Empty(t, LaborCodeArticleURL("ГОСТ 12.0.004 ст. 5"))
}

func TestFormatAnswer_NonGovernmentURLIsHidden(t *testing.T) {
	valid := true
	match := &Match{Entry: sizEntry, SimilarityScore: 0.8, URLValid: &valid}

	text := FormatAnswer(match)
	assert.NotContains(t, text, "example-blog.ru")
	assert.NotContains(t, text, "Ссылка")
	assert.Contains(t, text, "<b>Правовая база:</b> Приказ Минтруда № 766н")
	assert.Contains(t, text, "обратитесь к официальным источникам")
	assert.Contains(t, text, "Степень совпадения: 80%")
	assert.Contains(t, text, "Актуально на: 2025-01-01")
}

func TestFormatAnswer_TrustedURL(t *testing.T) {
	entry := FAQEntry{
		Question:       "Кто расследует несчастные случаи?",
		ShortAnswer:    "Комиссия работодателя.",
		LegalReference: "Постановление Минтруда № 73",
		LegalURL:       "https://mintrud.gov.ru/docs/73",
		Block:          "Расследования",
		CurrentAsOf:    "2024-09-01",
	}

	valid := true
	text := FormatAnswer(&Match{Entry: entry, SimilarityScore: 0.5, URLValid: &valid})
	assert.Contains(t, text, "✅ <b>Ссылка:</b> https://mintrud.gov.ru/docs/73")
	assert.NotContains(t, text, "Внимание")

	invalid := false
	status := http.StatusNotFound
	text = FormatAnswer(&Match{Entry: entry, SimilarityScore: 0.5, URLValid: &invalid, URLStatus: &status})
	assert.Contains(t, text, "⚠️ <b>Ссылка:</b> https://mintrud.gov.ru/docs/73")
	assert.Contains(t, text, "(код 404)")

	text = FormatAnswer(&Match{Entry: entry, SimilarityScore: 0.5, URLValid: &invalid})
	assert.Contains(t, text, "(код N/A)")
}

func TestFormatAnswer_LaborCodeWithoutArticle(t *testing.T) {
	entry := FAQEntry{Question: "q", ShortAnswer: "a", LegalReference: "ТК РФ, раздел X", Block: "b"}

	text := FormatAnswer(&Match{Entry: entry, SimilarityScore: 1})
	assert.NotContains(t, text, "Ссылка")
	assert.Contains(t, text, "обратитесь к официальным источникам")
	assert.Contains(t, text, "Степень совпадения: 100%")
}

func TestFormatAnswer_NoReference(t *testing.T) {
	entry := FAQEntry{Question: "q", ShortAnswer: "a", Block: "b"}

	text := FormatAnswer(&Match{Entry: entry, SimilarityScore: 0.6})
	assert.NotContains(t, text, "Правовая база")
	assert.Contains(t, text, "обратитесь к официальным источникам")
	assert.Empty(t, FormatAnswer(nil))
}
