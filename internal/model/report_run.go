package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunStatus enum constants
const (
	RunSuccess = "SUCCESS"
	RunFailed  = "FAILED"
)

// ReportRun records one invocation of the tax-report pipeline: Who ran What
// against Which file, and the invoice range that was handed out. Invoice
// numbers are NOT guaranteed unique across runs; this history is what lets
// an operator spot overlapping seeds after the fact.
type ReportRun struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Seed         string    `gorm:"type:varchar(50);not null;index" json:"seed"`
	SourceFile   string    `gorm:"type:varchar(255)" json:"source_file"`
	RowCount     int       `gorm:"not null;default:0" json:"row_count"`
	OrderCount   int       `gorm:"not null;default:0" json:"order_count"`
	FirstInvoice string    `gorm:"type:varchar(50)" json:"first_invoice"`
	LastInvoice  string    `gorm:"type:varchar(50)" json:"last_invoice"`
	Status       string    `gorm:"type:varchar(20);not null;index" json:"status"` // SUCCESS, FAILED
	Error        string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns the ID application-side so the model works on both
// PostgreSQL and the sqlite driver used in tests.
func (r *ReportRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
