// Package knowledge serves cached occupational-safety answers from an FAQ
// corpus before the bot falls back to a paid AI call.
package knowledge

// FAQEntry is one record of the FAQ document. The JSON shape is the on-disk
// format of faq_ohs_ru_links.json.
type FAQEntry struct {
	Question       string `json:"question"`
	ShortAnswer    string `json:"short_answer"`
	LegalReference string `json:"legal_reference"`
	LegalURL       string `json:"legal_url"`
	Block          string `json:"block"`
	CurrentAsOf    string `json:"current_as_of"`
}

// Match is a scored search hit. URLValid and URLStatus stay nil until the
// legal URL has been checked; a failed check leaves URLStatus nil.
type Match struct {
	Entry           FAQEntry `json:"entry"`
	SimilarityScore float64  `json:"similarity_score"`
	URLValid        *bool    `json:"url_valid"`
	URLStatus       *int     `json:"url_status"`
}

// Statistics summarises the loaded corpus.
type Statistics struct {
	TotalQuestions       int            `json:"total_questions"`
	Blocks               map[string]int `json:"blocks"`
	QuestionsWithURLs    int            `json:"questions_with_urls"`
	QuestionsWithoutURLs int            `json:"questions_without_urls"`
}
