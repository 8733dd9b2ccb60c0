package patient

import (
	"context"

	"github.com/isi/clinic/internal/platform/apperr"
	"github.com/isi/clinic/internal/platform/i18n"
)

// Validator is satisfied by *validation.Validator.
type Validator interface {
	ValidateCtx(ctx context.Context, i interface{}) error
}

type Service struct {
	repo      Repository
	validator Validator
	messages  i18n.Resolver
}

func NewService(repo Repository, v Validator, messages i18n.Resolver) *Service {
	return &Service{repo: repo, validator: v, messages: messages}
}

func (s *Service) Create(ctx context.Context, req *PatientRequest) (*PatientResponse, error) {
	req.normalize()
	if err := s.validator.ValidateCtx(ctx, req); err != nil {
		return nil, err
	}
	var p Patient
	req.apply(&p)
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return toResponse(&p), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*PatientResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*PatientResponse, int, error) {
	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return toResponseList(items), total, nil
}

// Update replaces every field of patient id. The body is validated before the
// patient is looked up.
func (s *Service) Update(ctx context.Context, id int64, req *PatientRequest) (*PatientResponse, error) {
	req.normalize()
	if err := s.validator.ValidateCtx(ctx, req); err != nil {
		return nil, err
	}
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) find(ctx context.Context, id int64) (*Patient, error) {
	p, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		msg := s.messages.Resolve(i18n.LocaleFromContext(ctx), i18n.KeyPatientNotFound, id)
		return nil, apperr.NotFound(i18n.KeyPatientNotFound, id, msg)
	}
	return p, nil
}
