package service

import (
	"context"
	"io"
	"time"

	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"github.com/willjrcristo/pdv-assinatura/internal/relatorio"
	"github.com/willjrcristo/pdv-assinatura/internal/repository"
)

// ReceitaService dá ao administrador a visão do livro de receitas.
type ReceitaService struct {
	repo repository.ReceitaRepository
}

func NewReceitaService(repo repository.ReceitaRepository) *ReceitaService {
	return &ReceitaService{repo: repo}
}

// List devolve os lançamentos no intervalo [de, ate). Zeros não filtram.
func (s *ReceitaService) List(ctx context.Context, de, ate time.Time, operadorID string) ([]domain.LancamentoReceita, error) {
	if !de.IsZero() && !ate.IsZero() && ate.Before(de) {
		return nil, ErrDadosInvalidos
	}
	return s.repo.List(ctx, repository.FiltroReceita{De: de, Ate: ate, OperadorID: operadorID})
}

// Export escreve a planilha XLSX com os mesmos lançamentos de List.
func (s *ReceitaService) Export(ctx context.Context, w io.Writer, de, ate time.Time, operadorID string) error {
	lancamentos, err := s.List(ctx, de, ate, operadorID)
	if err != nil {
		return err
	}
	return relatorio.ExportReceitas(w, lancamentos)
}
