package domain

import "time"

// Processing status values for a document. A document enters "processing"
// at upload time and the pipeline moves it to exactly one terminal state
// per invocation.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document represents one uploaded file and its processing lifecycle.
type Document struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	StoragePath      string        `json:"storage_path"`
	OriginalText     string        `json:"original_text"`
	TranslatedText   string        `json:"translated_text"`
	DetectedLanguage string        `json:"detected_language"`
	Status           string        `json:"status"`
	Transactions     []Transaction `json:"transactions"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
