package patient

import (
	"strings"
	"time"

	"github.com/isi/clinic/pkg/localtime"
)

type Patient struct {
	ID            int64
	Nom           string
	Prenom        string
	DateNaissance localtime.Date
	Sexe          string
	Adresse       string
	Telephone     string
	Email         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PatientRequest is the body of create and update calls. Every field is
// mandatory.
type PatientRequest struct {
	Nom           string         `json:"nom" validate:"required"`
	Prenom        string         `json:"prenom" validate:"required"`
	DateNaissance localtime.Date `json:"dateNaissance" validate:"required"`
	Sexe          string         `json:"sexe" validate:"required"`
	Adresse       string         `json:"adresse" validate:"required"`
	Telephone     string         `json:"telephone" validate:"required"`
	Email         string         `json:"email" validate:"required,email"`
}

// normalize trims surrounding blanks so whitespace-only values fail
// "required".
func (r *PatientRequest) normalize() {
	r.Nom = strings.TrimSpace(r.Nom)
	r.Prenom = strings.TrimSpace(r.Prenom)
	r.Sexe = strings.TrimSpace(r.Sexe)
	r.Adresse = strings.TrimSpace(r.Adresse)
	r.Telephone = strings.TrimSpace(r.Telephone)
	r.Email = strings.TrimSpace(r.Email)
}

type PatientResponse struct {
	ID            int64          `json:"id"`
	Nom           string         `json:"nom"`
	Prenom        string         `json:"prenom"`
	DateNaissance localtime.Date `json:"dateNaissance"`
	Sexe          string         `json:"sexe"`
	Adresse       string         `json:"adresse"`
	Telephone     string         `json:"telephone"`
	Email         string         `json:"email"`
}

func (r *PatientRequest) apply(p *Patient) {
	p.Nom = r.Nom
	p.Prenom = r.Prenom
	p.DateNaissance = r.DateNaissance
	p.Sexe = r.Sexe
	p.Adresse = r.Adresse
	p.Telephone = r.Telephone
	p.Email = r.Email
}

func toResponse(p *Patient) *PatientResponse {
	return &PatientResponse{
		ID:            p.ID,
		Nom:           p.Nom,
		Prenom:        p.Prenom,
		DateNaissance: p.DateNaissance,
		Sexe:          p.Sexe,
		Adresse:       p.Adresse,
		Telephone:     p.Telephone,
		Email:         p.Email,
	}
}

func toResponseList(ps []*Patient) []*PatientResponse {
	out := make([]*PatientResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toResponse(p))
	}
	return out
}
