package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentApproved  AppointmentStatus = "approved"
	AppointmentRejected  AppointmentStatus = "rejected"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted out of s.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentRejected || s == AppointmentCancelled
}

// AppointmentType classifies the visit being requested.
type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeFollowUp     AppointmentType = "follow-up"
	TypeCheckup      AppointmentType = "checkup"
	TypeEmergency    AppointmentType = "emergency"
)

// ValidAppointmentType reports whether t is one of the accepted visit types.
func ValidAppointmentType(t AppointmentType) bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypeCheckup, TypeEmergency:
		return true
	}
	return false
}

// Appointment is a patient's booking request against a doctor's slot,
// mutated only through the appointment lifecycle service.
type Appointment struct {
	ID          string            `bson:"id" json:"id"`
	UserID      string            `bson:"userId" json:"userId"`
	DoctorID    string            `bson:"doctorId" json:"doctorId"`
	PatientName string            `bson:"patientName" json:"patientName"`
	Date        string            `bson:"date" json:"date"` // "2006-01-02"
	Time        string            `bson:"time" json:"time"` // "15:04"
	Type        AppointmentType   `bson:"type" json:"type"`
	Symptoms    string            `bson:"symptoms,omitempty" json:"symptoms,omitempty"`
	Notes       string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Status      AppointmentStatus `bson:"status" json:"status"`
	CreatedAt   time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentFilter narrows listing queries. Zero fields are ignored.
type AppointmentFilter struct {
	UserID   string
	DoctorID string
	Status   AppointmentStatus
	Date     string
}
