package domain

// Transaction is one structured record extracted from translated document
// text. Every field is best-effort free text pulled from model output; any
// of them may be empty. Date is expected in "YYYY-MM-DD" form but is not
// validated beyond being a string.
type Transaction struct {
	Buyer          string `json:"buyer"`
	Seller         string `json:"seller"`
	HouseNumber    string `json:"house_number"`
	SurveyNumber   string `json:"survey_number"`
	DocumentNumber string `json:"document_number"`
	Date           string `json:"date"`
	Value          string `json:"value"`
}
