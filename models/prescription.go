package models

import "time"

// PrescriptionStatus is the lifecycle state of a prescription.
type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionCompleted PrescriptionStatus = "completed"
	PrescriptionCancelled PrescriptionStatus = "cancelled"
	PrescriptionExpired   PrescriptionStatus = "expired"
)

// Medication is a single prescribed item.
type Medication struct {
	Name         string `bson:"name" json:"name" binding:"required"`
	Dosage       string `bson:"dosage" json:"dosage" binding:"required"`
	Frequency    string `bson:"frequency" json:"frequency" binding:"required"`
	Duration     string `bson:"duration" json:"duration" binding:"required"`
	Instructions string `bson:"instructions,omitempty" json:"instructions,omitempty"`
}

// PrescriptionFile holds metadata for an attached document; the file itself
// lives in external storage.
type PrescriptionFile struct {
	Name string `bson:"name" json:"name"`
	Type string `bson:"type,omitempty" json:"type,omitempty"`
	Size int64  `bson:"size,omitempty" json:"size,omitempty"`
	URL  string `bson:"url,omitempty" json:"url,omitempty"`
}

// Prescription is issued by a doctor against an approved appointment and is
// immutable except for its status.
type Prescription struct {
	ID            string             `bson:"id" json:"id"`
	PatientID     string             `bson:"patientId" json:"patient_id"`
	DoctorID      string             `bson:"doctorId" json:"doctor_id"`
	AppointmentID string             `bson:"appointmentId" json:"appointment_id"`
	Medications   []Medication       `bson:"medications" json:"medications"`
	Files         []PrescriptionFile `bson:"files,omitempty" json:"files,omitempty"`
	IssueDate     string             `bson:"issueDate" json:"issue_date"` // "2006-01-02"
	ExpiryDate    string             `bson:"expiryDate" json:"expiry_date"`
	Status        PrescriptionStatus `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExpiredAt reports whether the prescription's expiry date has passed at the
// given instant. Expiry is date-granular: the prescription stays usable
// through the whole expiry day.
func (p Prescription) ExpiredAt(now time.Time) bool {
	return p.ExpiryDate < now.Format(DateLayout)
}
