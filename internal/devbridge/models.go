package devbridge

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
)

// Patient is the demographics row.
type Patient struct {
	ID          uuid.UUID  `gorm:"column:id;primaryKey"`
	FullName    string     `gorm:"column:full_name;not null"`
	Phone       string     `gorm:"column:phone"`
	Email       string     `gorm:"column:email"`
	Gender      string     `gorm:"column:gender"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth"`
	Address     string     `gorm:"column:address"`
	Notes       string     `gorm:"column:notes"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Appointment is a booked calendar slot.
type Appointment struct {
	ID        uuid.UUID               `gorm:"column:id;primaryKey"`
	PatientID uuid.UUID               `gorm:"column:patient_id;not null;index"`
	Title     string                  `gorm:"column:title;not null"`
	StartTime time.Time               `gorm:"column:start_time;not null"`
	EndTime   time.Time               `gorm:"column:end_time;not null"`
	Status    enums.AppointmentStatus `gorm:"column:status;not null"`
	Cost      decimal.Decimal         `gorm:"column:cost;type:numeric(12,2)"`
	Notes     string                  `gorm:"column:notes"`
	Patient   *Patient                `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// InventoryItem is a stocked supply row.
type InventoryItem struct {
	ID           uuid.UUID       `gorm:"column:id;primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Category     string          `gorm:"column:category"`
	Quantity     int             `gorm:"column:quantity;not null;default:0"`
	Unit         string          `gorm:"column:unit"`
	CostPerUnit  decimal.Decimal `gorm:"column:cost_per_unit;type:numeric(12,2)"`
	MinimumStock int             `gorm:"column:minimum_stock;not null;default:0"`
	ExpiryDate   *time.Time      `gorm:"column:expiry_date"`
	Supplier     string          `gorm:"column:supplier"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Payment is one receipt row. The patient-level balance figures are derived
// at read time from the sibling rows and the patient's appointment costs.
type Payment struct {
	ID               uuid.UUID           `gorm:"column:id;primaryKey"`
	PatientID        uuid.UUID           `gorm:"column:patient_id;not null;index"`
	AppointmentID    *uuid.UUID          `gorm:"column:appointment_id"`
	ToothTreatmentID *uuid.UUID          `gorm:"column:tooth_treatment_id"`
	Amount           decimal.Decimal     `gorm:"column:amount;type:numeric(12,2)"`
	Discount         decimal.Decimal     `gorm:"column:discount;type:numeric(12,2)"`
	Tax              decimal.Decimal     `gorm:"column:tax;type:numeric(12,2)"`
	Method           enums.PaymentMethod `gorm:"column:method"`
	ReceiptNumber    string              `gorm:"column:receipt_number;uniqueIndex"`
	PaymentDate      time.Time           `gorm:"column:payment_date"`
	Notes            string              `gorm:"column:notes"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// LabOrder is work sent to an external lab.
type LabOrder struct {
	ID                   uuid.UUID              `gorm:"column:id;primaryKey"`
	LabID                uuid.UUID              `gorm:"column:lab_id;not null"`
	LabName              string                 `gorm:"column:lab_name"`
	PatientID            uuid.UUID              `gorm:"column:patient_id;not null;index"`
	ServiceName          string                 `gorm:"column:service_name;not null"`
	Cost                 decimal.Decimal        `gorm:"column:cost;type:numeric(12,2)"`
	PaidAmount           decimal.Decimal        `gorm:"column:paid_amount;type:numeric(12,2)"`
	Status               enums.LabOrderStatus   `gorm:"column:status;not null"`
	Priority             enums.LabOrderPriority `gorm:"column:priority;not null"`
	Material             string                 `gorm:"column:material"`
	Shade                string                 `gorm:"column:shade"`
	OrderDate            time.Time              `gorm:"column:order_date"`
	ExpectedDeliveryDate *time.Time             `gorm:"column:expected_delivery_date"`
	CreatedAt            time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *LabOrder) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ClinicSettings is the single configuration row.
type ClinicSettings struct {
	ID         uuid.UUID `gorm:"column:id;primaryKey"`
	ClinicName string    `gorm:"column:clinic_name;not null"`
	DoctorName string    `gorm:"column:doctor_name"`
	Phone      string    `gorm:"column:phone"`
	Address    string    `gorm:"column:address"`
	Currency   string    `gorm:"column:currency;not null"`
	Language   string    `gorm:"column:language;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *ClinicSettings) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
