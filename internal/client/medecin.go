package client

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

// Medecin is the doctor record as served by the medecin service.
type Medecin struct {
	ID          int64  `json:"id"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Specialite  string `json:"specialite"`
	Telephone   string `json:"telephone"`
	Email       string `json:"email"`
	LieuTravail string `json:"lieuTravail"`
}

type MedecinClient struct {
	lookup lookup
}

func NewMedecinClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *MedecinClient {
	return &MedecinClient{lookup: newLookup("medecin", baseURL, "/api/v1/medecins", httpClient, logger)}
}

// FindMedecinByID returns the doctor with the given id; ok is false when the
// medecin service does not know it.
func (c *MedecinClient) FindMedecinByID(ctx context.Context, id int64) (*Medecin, bool, error) {
	var m Medecin
	found, err := c.lookup.get(ctx, id, &m)
	if err != nil || !found {
		return nil, false, err
	}
	return &m, true, nil
}
