package medecin

import (
	"context"

	"github.com/isi/clinic/internal/platform/apperr"
	"github.com/isi/clinic/internal/platform/i18n"
)

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

func (s *Service) Create(ctx context.Context, req *MedecinRequest) (*MedecinResponse, error) {
	req.normalize()
	if err := s.validator.ValidateCtx(ctx, req); err != nil {
		return nil, err
	}
	var m Medecin
	req.apply(&m)
	if err := s.repo.Create(ctx, &m); err != nil {
		return nil, err
	}
	return toResponse(&m), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*MedecinResponse, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(m), nil
}

func (s *Service) List(ctx context.Context, specialite string, limit, offset int) ([]*MedecinResponse, int, error) {
	items, total, err := s.repo.List(ctx, specialite, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*MedecinResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toResponse(m))
	}
	return out, total, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *MedecinRequest) (*MedecinResponse, error) {
	req.normalize()
	if err := s.validator.ValidateCtx(ctx, req); err != nil {
		return nil, err
	}
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(m)
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toResponse(m), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) find(ctx context.Context, id int64) (*Medecin, error) {
	m, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		msg := s.messages.Resolve(i18n.LocaleFromContext(ctx), i18n.KeyMedecinNotFound, id)
		return nil, apperr.NotFound(i18n.KeyMedecinNotFound, id, msg)
	}
	return m, nil
}
