package service

import (
	"context"
	"errors"

	"github.com/madecodebrazil/masioticas-sub005/internal/dto"
	"github.com/madecodebrazil/masioticas-sub005/internal/model"
	"github.com/madecodebrazil/masioticas-sub005/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LojaService interface {
	Criar(ctx context.Context, req dto.CriarLojaRequest) (*dto.LojaResponse, error)
	Listar(ctx context.Context) ([]dto.LojaResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.LojaResponse, error)
}

type lojaService struct {
	repo repository.LojaRepository
}

func NewLojaService(repo repository.LojaRepository) LojaService {
	return &lojaService{repo: repo}
}

func (s *lojaService) Criar(ctx context.Context, req dto.CriarLojaRequest) (*dto.LojaResponse, error) {
	loja := &model.Loja{
		Nome:     req.Nome,
		Codigo:   req.Codigo,
		Timezone: req.Timezone,
		Ativa:    true,
	}
	if err := s.repo.Create(ctx, loja); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("já existe uma loja com este código")
		}
		return nil, err
	}
	return lojaToResponse(loja), nil
}

func (s *lojaService) Listar(ctx context.Context) ([]dto.LojaResponse, error) {
	lojas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LojaResponse, 0, len(lojas))
	for i := range lojas {
		out = append(out, *lojaToResponse(&lojas[i]))
	}
	return out, nil
}

func (s *lojaService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.LojaResponse, error) {
	loja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLojaNaoEncontrada
		}
		return nil, err
	}
	return lojaToResponse(loja), nil
}

func lojaToResponse(l *model.Loja) *dto.LojaResponse {
	return &dto.LojaResponse{
		ID:       l.ID.String(),
		Nome:     l.Nome,
		Codigo:   l.Codigo,
		Timezone: l.Timezone,
		Ativa:    l.Ativa,
	}
}
