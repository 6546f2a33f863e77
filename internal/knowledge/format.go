package knowledge

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// TrustedDomains are the government and legal-portal hosts whose links may be
// shown to users. Any *.gov.ru host is trusted as well.
var TrustedDomains = []string{
	"kremlin.ru",
	"government.ru",
	"duma.gov.ru",
	"council.gov.ru",
	"minjust.gov.ru",
	"mintrud.gov.ru",
	"rostrud.gov.ru",
	"gks.ru",
	"consultant.ru",
	"pravo.gov.ru",
	"fzrf.sudrf.ru",
	"docs.cntd.ru",
	"rulaws.ru",
	"zakonrf.info",
	"fstec.ru",
	"fsb.ru",
	"mvd.ru",
	"rosgvard.ru",
	"gost.ru",
	"rospotrebnadzor.ru",
	"roszdravnadzor.gov.ru",
	"minzdrav.gov.ru",
	"edu.gov.ru",
	"minobrnauki.gov.ru",
}

const (
	laborCodeMarker  = "ТК РФ"
	laborCodeURLBase = "https://www.consultant.ru/document/cons_doc_LAW_34683/"
	advisoryNote     = "<i>ℹ️ Для получения актуальной информации обратитесь к официальным источникам</i>"
)

var articlePattern = regexp.MustCompile(`ст\.\s*(\d+(?:\.\d+)?)`)

// IsGovernmentSource reports whether rawURL points at a trusted host.
// Matching is on the parsed host, so "consultant.ru.example.com" is rejected.
// Links stored without a scheme ("mintrud.gov.ru/docs") are accepted.
func IsGovernmentSource(rawURL string) bool {
	host := hostOf(strings.TrimSpace(rawURL))
	if host == "" {
		return false
	}
	if strings.HasSuffix(host, ".gov.ru") {
		return true
	}
	for _, d := range TrustedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err == nil && u.Host == "" && u.Scheme == "" {
		u, err = url.Parse("//" + raw)
	}
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if !strings.Contains(host, ".") {
		return ""
	}
	return host
}

// LaborCodeArticleURL builds the article link for a Labor Code citation such
// as "ТК РФ ст. 225". It returns "" when no article number can be extracted.
func LaborCodeArticleURL(legalReference string) string {
	if !strings.Contains(legalReference, laborCodeMarker) {
		return ""
	}
	m := articlePattern.FindStringSubmatch(legalReference)
	if m == nil {
		return ""
	}
	return laborCodeURLBase + "st-" + m[1] + "/"
}

// FormatAnswer renders a match as Telegram HTML. Links outside the trusted
// domains are never shown.
func FormatAnswer(m *Match) string {
	if m == nil {
		return ""
	}
	e := m.Entry

	var parts []string
	parts = append(parts,
		"📚 <b>Найдено в базе знаний</b>",
		"<b>Категория:</b> "+e.Block,
		"",
		"<b>Вопрос:</b> "+e.Question,
		"",
		"<b>Ответ:</b> "+e.ShortAnswer,
		"",
	)

	switch {
	case e.LegalReference != "" && strings.Contains(e.LegalReference, laborCodeMarker):
		parts = append(parts, "<b>Правовая база:</b> "+e.LegalReference)
		if link := LaborCodeArticleURL(e.LegalReference); link != "" {
			parts = append(parts, "✅ <b>Ссылка:</b> "+link)
		} else {
			parts = append(parts, advisoryNote)
		}
	case e.LegalURL != "" && IsGovernmentSource(e.LegalURL):
		parts = append(parts, "<b>Правовая база:</b> "+e.LegalReference)
		glyph := "⚠️"
		if m.URLValid != nil && *m.URLValid {
			glyph = "✅"
		}
		parts = append(parts, glyph+" <b>Ссылка:</b> "+e.LegalURL)
		if m.URLValid != nil && !*m.URLValid {
			status := "N/A"
			if m.URLStatus != nil {
				status = fmt.Sprintf("%d", *m.URLStatus)
			}
			parts = append(parts, fmt.Sprintf("<i>⚠️ Внимание: ссылка может быть недоступна (код %s)</i>", status))
		}
	case e.LegalReference != "":
		parts = append(parts, "<b>Правовая база:</b> "+e.LegalReference, advisoryNote)
	default:
		parts = append(parts, advisoryNote)
	}

	parts = append(parts,
		"",
		"<i>Актуально на: "+e.CurrentAsOf+"</i>",
		fmt.Sprintf("<i>Степень совпадения: %.0f%%</i>", m.SimilarityScore*100),
	)

	return strings.Join(parts, "\n")
}
