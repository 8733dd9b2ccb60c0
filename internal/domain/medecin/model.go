package medecin

import (
	"strings"
	"time"
)

type Medecin struct {
	ID          int64
	Nom         string
	Prenom      string
	Specialite  string
	Telephone   string
	Email       string
	LieuTravail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MedecinRequest struct {
	Nom         string `json:"nom" validate:"required"`
	Prenom      string `json:"prenom" validate:"required"`
	Specialite  string `json:"specialite" validate:"required"`
	Telephone   string `json:"telephone" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	LieuTravail string `json:"lieuTravail" validate:"required"`
}

type MedecinResponse struct {
	ID          int64  `json:"id"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Specialite  string `json:"specialite"`
	Telephone   string `json:"telephone"`
	Email       string `json:"email"`
	LieuTravail string `json:"lieuTravail"`
}

func (r *MedecinRequest) normalize() {
	for _, f := range []*string{&r.Nom, &r.Prenom, &r.Specialite, &r.Telephone, &r.Email, &r.LieuTravail} {
		*f = strings.TrimSpace(*f)
	}
}

func (r *MedecinRequest) apply(m *Medecin) {
	m.Nom = r.Nom
	m.Prenom = r.Prenom
	m.Specialite = r.Specialite
	m.Telephone = r.Telephone
	m.Email = r.Email
	m.LieuTravail = r.LieuTravail
}

func toResponse(m *Medecin) *MedecinResponse {
	return &MedecinResponse{
		ID:          m.ID,
		Nom:         m.Nom,
		Prenom:      m.Prenom,
		Specialite:  m.Specialite,
		Telephone:   m.Telephone,
		Email:       m.Email,
		LieuTravail: m.LieuTravail,
	}
}
