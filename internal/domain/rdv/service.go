package rdv

import (
	"context"

	"github.com/isi/clinic/internal/client"
	"github.com/isi/clinic/internal/platform/apperr"
	"github.com/isi/clinic/internal/platform/i18n"
)

// Validator is satisfied by *validation.Validator.
type Validator interface {
	ValidateCtx(ctx context.Context, i interface{}) error
}

// PatientFinder is satisfied by *client.PatientClient.
type PatientFinder interface {
	FindPatientByID(ctx context.Context, id int64) (*client.Patient, bool, error)
}

// MedecinFinder is satisfied by *client.MedecinClient.
type MedecinFinder interface {
	FindMedecinByID(ctx context.Context, id int64) (*client.Medecin, bool, error)
}

type Service struct {
	repo      Repository
	validator Validator
	patients  PatientFinder
	medecins  MedecinFinder
	messages  i18n.Resolver
}

func NewService(repo Repository, v Validator, patients PatientFinder, medecins MedecinFinder, messages i18n.Resolver) *Service {
	return &Service{repo: repo, validator: v, patients: patients, medecins: medecins, messages: messages}
}

// Create stores a new appointment once both the patient and the doctor are
// known to their services. The patient is checked first.
func (s *Service) Create(ctx context.Context, req *RdvRequest) (*RdvResponse, error) {
	if err := s.validator.ValidateCtx(ctx, req); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	r := ToRdv(req)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return ToRdvResponse(r), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*RdvResponse, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToRdvResponse(r), nil
}

// GetAll returns every appointment ordered by id.
func (s *Service) GetAll(ctx context.Context) ([]*RdvResponse, error) {
	rdvs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ToRdvResponseList(rdvs), nil
}

// Update replaces patient, doctor, date and motif of the appointment named by
// req.ID. The body is validated first; references are only checked once the
// appointment is known to exist.
func (s *Service) Update(ctx context.Context, req *RdvRequest) (*RdvResponse, error) {
	if err := s.validator.ValidateCtx(ctx, req); err != nil {
		return nil, err
	}
	r, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	applyRequest(r, req)
	ok, err := s.repo.Update(ctx, r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.notFound(ctx, i18n.KeyRdvNotFound, r.ID)
	}
	return ToRdvResponse(r), nil
}

func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) find(ctx context.Context, id int64) (*Rdv, error) {
	r, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.notFound(ctx, i18n.KeyRdvNotFound, id)
	}
	return r, nil
}

func (s *Service) checkReferences(ctx context.Context, req *RdvRequest) error {
	_, ok, err := s.patients.FindPatientByID(ctx, req.PatientID)
	if err != nil {
		return err
	}
	if !ok {
		return s.notFound(ctx, i18n.KeyPatientNotFound, req.PatientID)
	}

	_, ok, err = s.medecins.FindMedecinByID(ctx, req.MedecinID)
	if err != nil {
		return err
	}
	if !ok {
		return s.notFound(ctx, i18n.KeyMedecinNotFound, req.MedecinID)
	}
	return nil
}

func (s *Service) notFound(ctx context.Context, key string, id int64) error {
	msg := s.messages.Resolve(i18n.LocaleFromContext(ctx), key, id)
	return apperr.NotFound(key, id, msg)
}
