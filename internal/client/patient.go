package client

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/isi/clinic/pkg/localtime"
)

// Patient is the patient record as served by the patient service.
type Patient struct {
	ID            int64          `json:"id"`
	Nom           string         `json:"nom"`
	Prenom        string         `json:"prenom"`
	DateNaissance localtime.Date `json:"dateNaissance"`
	Sexe          string         `json:"sexe"`
	Adresse       string         `json:"adresse"`
	Telephone     string         `json:"telephone"`
	Email         string         `json:"email"`
}

type PatientClient struct {
	lookup lookup
}

func NewPatientClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *PatientClient {
	return &PatientClient{lookup: newLookup("patient", baseURL, "/api/v1/patients", httpClient, logger)}
}

// FindPatientByID returns the patient with the given id; ok is false when the
// patient service does not know it.
func (c *PatientClient) FindPatientByID(ctx context.Context, id int64) (*Patient, bool, error) {
	var p Patient
	found, err := c.lookup.get(ctx, id, &p)
	if err != nil || !found {
		return nil, false, err
	}
	return &p, true, nil
}
