package rdv

import (
	"time"

	"github.com/isi/clinic/pkg/localtime"
)

// Rdv is a stored appointment between a patient and a doctor. PatientID and
// MedecinID point at records owned by the patient and medecin services.
type Rdv struct {
	ID        int64
	PatientID int64
	MedecinID int64
	Date      localtime.DateTime
	Motif     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RdvRequest is the body of create and update calls. ID is only read by
// update.
type RdvRequest struct {
	ID        int64              `json:"id,omitempty"`
	PatientID int64              `json:"patientId" validate:"required"`
	MedecinID int64              `json:"medecinId" validate:"required"`
	Date      localtime.DateTime `json:"date" validate:"required"`
	Motif     string             `json:"motif"`
}

type RdvResponse struct {
	ID        int64              `json:"id"`
	PatientID int64              `json:"patientId"`
	MedecinID int64              `json:"medecinId"`
	Date      localtime.DateTime `json:"date"`
	Motif     string             `json:"motif"`
}
