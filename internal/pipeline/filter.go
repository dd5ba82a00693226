package pipeline

import (
	"strings"

	"github.com/nvelusamy/deed-translator/internal/domain"
)

// RecordFilter narrows extracted records by case-insensitive substring
// match. All set fields must match (AND); unset fields pass through.
type RecordFilter struct {
	Buyer          string `json:"buyer,omitempty"`
	Seller         string `json:"seller,omitempty"`
	HouseNumber    string `json:"houseNumber,omitempty"`
	SurveyNumber   string `json:"surveyNumber,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
}

// IsZero reports whether no filter fields are set.
func (f RecordFilter) IsZero() bool {
	return f == RecordFilter{}
}

// Matches reports whether a single transaction passes the filter.
func (f RecordFilter) Matches(tx domain.Transaction) bool {
	return matchField(tx.Buyer, f.Buyer) &&
		matchField(tx.Seller, f.Seller) &&
		matchField(tx.HouseNumber, f.HouseNumber) &&
		matchField(tx.SurveyNumber, f.SurveyNumber) &&
		matchField(tx.DocumentNumber, f.DocumentNumber)
}

// Apply returns the records passing the filter, preserving order. The
// result is never nil.
func (f RecordFilter) Apply(records []domain.Transaction) []domain.Transaction {
	filtered := make([]domain.Transaction, 0, len(records))
	if f.IsZero() {
		return append(filtered, records...)
	}
	for _, tx := range records {
		if f.Matches(tx) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

func matchField(value, want string) bool {
	if want == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(want))
}
