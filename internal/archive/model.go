package archive

import "time"

type Record struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ObservedAt  string    `gorm:"index" json:"observed_at"`
	ObjectCount int       `gorm:"not null" json:"object_count"`
	Variant     string    `gorm:"not null" json:"variant"`
	Model       string    `json:"model,omitempty"`
	Narration   *string   `json:"narration,omitempty"`
	Error       *string   `json:"error,omitempty"`
	ErrorKind   string    `gorm:"index" json:"error_kind,omitempty"`
	LatencyMs   int64     `json:"latency_ms"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Record) TableName() string {
	return "narration_records"
}

func (r *Record) Succeeded() bool {
	return r.Error == nil
}
