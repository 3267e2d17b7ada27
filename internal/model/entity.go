package model

import (
	"fmt"
	"math/rand/v2"
	"time"
)

type Status string

const (
	StatusInprocess Status = "Inprocess"
	StatusAccepted  Status = "Accepted"
	StatusClosed    Status = "Closed"
	StatusWithdrawn Status = "Withdrawn"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusInprocess, StatusAccepted, StatusClosed, StatusWithdrawn:
		return true
	}
	return false
}

type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityUrgent Priority = "Urgent"
)

func ValidPriority(p Priority) bool {
	return p == PriorityNormal || p == PriorityUrgent
}

// operatorCountries maps each carrier to its market. Country is always
// derived from the operator, never set independently.
var operatorCountries = map[string]string{
	"Bitel":   "Peru",
	"Natcom":  "Haiti",
	"Nexttel": "Cameroon",
	"Lumitel": "Burundi",
	"Movitel": "Mozambique",
	"Halotel": "Tanzania",
	"Unitel":  "Laos",
	"Mytel":   "Myanmar",
	"Telemor": "East Timor",
	"Metfone": "Cambodia",
}

// CountryFor returns the market country for a carrier, or false for an
// unknown operator.
func CountryFor(operator string) (string, bool) {
	c, ok := operatorCountries[operator]
	return c, ok
}

// Operators returns the supported carriers in their canonical order.
func Operators() []string {
	return []string{
		"Bitel", "Natcom", "Nexttel", "Lumitel", "Movitel",
		"Halotel", "Unitel", "Mytel", "Telemor", "Metfone",
	}
}

// NewCode builds the human-readable ticket code: country, submission date and
// a random 3-digit suffix, e.g. "Peru-20241010-123". Assigned once at
// creation and never changed.
func NewCode(country string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%03d", country, now.Format("20060102"), rand.IntN(1000))
}

type Accepter struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Email string `gorm:"type:varchar(255);not null" json:"email"`
	Phone string `gorm:"type:varchar(64)" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Ticket struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Code string `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`

	Operator string `gorm:"type:varchar(32);index;not null" json:"operator"`
	Country  string `gorm:"type:varchar(64);not null" json:"country"`
	Issue    string `gorm:"type:varchar(255);not null" json:"issue"`

	IssueDescription    string `gorm:"type:text" json:"issue_description"`
	KPIsAffected        string `gorm:"column:kpis_affected;type:text" json:"kpis_affected"`
	CounterEvaluation   string `gorm:"type:text" json:"counter_evaluation"`
	OptimizationActions string `gorm:"type:text" json:"optimization_actions"`

	Attachments []string `gorm:"serializer:json" json:"attachments,omitempty"`

	Priority  Priority   `gorm:"type:varchar(32);index;not null" json:"priority"`
	Status    Status     `gorm:"type:varchar(32);index;not null" json:"status"`
	StartTime time.Time  `gorm:"index;not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Creator     string `gorm:"type:varchar(255);index;not null" json:"creator"`
	PhoneNumber string `gorm:"type:varchar(64)" json:"phone_number"`

	AccepterID *string   `gorm:"type:uuid;index" json:"accepter_id,omitempty"`
	Accepter   *Accepter `gorm:"foreignKey:AccepterID" json:"accepter,omitempty"`

	Response          *string    `gorm:"type:text" json:"response,omitempty"`
	ResponseCreatedAt *time.Time `json:"response_created_at,omitempty"`
	ResponseUpdatedAt *time.Time `json:"response_updated_at,omitempty"`
	ResponseImages    []string   `gorm:"serializer:json" json:"response_images,omitempty"`
	ResponseFiles     []string   `gorm:"serializer:json" json:"response_files,omitempty"`
	ResponseRead      bool       `json:"is_response_read"`

	Solution          *string    `gorm:"type:text" json:"solution,omitempty"`
	SolutionCreatedAt *time.Time `json:"solution_created_at,omitempty"`
	SolutionUpdatedAt *time.Time `json:"solution_updated_at,omitempty"`
	SolutionImages    []string   `gorm:"serializer:json" json:"solution_images,omitempty"`
	SolutionFiles     []string   `gorm:"serializer:json" json:"solution_files,omitempty"`
	SolutionRead      bool       `json:"is_solution_read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasResponse reports whether an accepter has written a progress response.
func (t *Ticket) HasResponse() bool { return t.Response != nil && *t.Response != "" }

// HasSolution reports whether a final solution has been recorded.
func (t *Ticket) HasSolution() bool { return t.Solution != nil && *t.Solution != "" }
