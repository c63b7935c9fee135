package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/willjrcristo/pdv-assinatura/internal/assinatura"
	"github.com/willjrcristo/pdv-assinatura/internal/cache"
	"github.com/willjrcristo/pdv-assinatura/internal/domain"
	"github.com/willjrcristo/pdv-assinatura/internal/repository"
)

// OperadorService encapsula o cadastro de operadores e o portão de assinatura.
type OperadorService struct {
	repo       repository.OperadorRepository
	pagamentos repository.PagamentoRepository
	cache      cache.AcessoCache
	now        func() time.Time
}

// NewOperadorService cria uma nova instância do OperadorService. cache pode ser nil.
func NewOperadorService(repo repository.OperadorRepository, pagamentos repository.PagamentoRepository, c cache.AcessoCache, now func() time.Time) *OperadorService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &OperadorService{repo: repo, pagamentos: pagamentos, cache: c, now: now}
}

func validarOperador(op domain.Operador) error {
	if strings.TrimSpace(op.Nome) == "" || op.Email == "" {
		return ErrDadosInvalidos
	}
	if !strings.Contains(op.Email, "@") {
		return ErrDadosInvalidos
	}
	return nil
}

// CreateOperador cadastra o operador aguardando o primeiro pagamento.
func (s *OperadorService) CreateOperador(ctx context.Context, nome, email string) (*domain.Operador, error) {
	now := s.now()
	op := domain.Operador{
		ID:              uuid.NewString(),
		Nome:            strings.TrimSpace(nome),
		Email:           strings.ToLower(strings.TrimSpace(email)),
		AwaitingPayment: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := validarOperador(op); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, op); err != nil {
		if errors.Is(err, repository.ErrEmailDuplicado) {
			return nil, ErrEmailEmUso
		}
		return nil, err
	}
	slog.Info("Operador cadastrado", "operador_id", op.ID)
	return &op, nil
}

func (s *OperadorService) GetOperador(ctx context.Context, id string) (*domain.Operador, error) {
	op, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, ErrOperadorNaoEncontrado
	}
	return op, nil
}

func (s *OperadorService) GetAllOperadores(ctx context.Context) ([]domain.Operador, error) {
	return s.repo.GetAll(ctx)
}

// UpdateOperador altera só os dados cadastrais. A assinatura muda apenas pela conciliação.
func (s *OperadorService) UpdateOperador(ctx context.Context, id, nome, email string) (*domain.Operador, error) {
	op, err := s.GetOperador(ctx, id)
	if err != nil {
		return nil, err
	}
	op.Nome = strings.TrimSpace(nome)
	op.Email = strings.ToLower(strings.TrimSpace(email))
	op.UpdatedAt = s.now()
	if err := validarOperador(*op); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, *op); err != nil {
		if errors.Is(err, repository.ErrEmailDuplicado) {
			return nil, ErrEmailEmUso
		}
		return nil, err
	}
	return op, nil
}

// Suspend bloqueia o operador independentemente da assinatura.
func (s *OperadorService) Suspend(ctx context.Context, id string) error {
	return s.setSuspended(ctx, id, true)
}

func (s *OperadorService) Reactivate(ctx context.Context, id string) error {
	return s.setSuspended(ctx, id, false)
}

func (s *OperadorService) setSuspended(ctx context.Context, id string, suspended bool) error {
	if _, err := s.GetOperador(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetSuspended(ctx, id, suspended, s.now()); err != nil {
		return err
	}
	slog.Info("Suspensão do operador alterada", "operador_id", id, "suspended", suspended)
	s.invalidar(ctx, id)
	return nil
}

// CheckAccess responde se o operador pode usar o PDV agora. Consulta o cache
// primeiro; erro no Redis cai para o banco.
// Só acessos liberados vão para o cache.
func (s *OperadorService) CheckAccess(ctx context.Context, id string) (*domain.Acesso, error) {
	now := s.now()

	if s.cache != nil {
		a, err := s.cache.Get(ctx, id)
		if err != nil {
			slog.Warn("Falha ao ler cache de acesso", "operador_id", id, "error", err)
		}
		// a entrada nunca passa do vencimento, mas o relógio pode ter andado
		if a != nil && a.Liberado && a.NextDueAt != nil && now.Before(*a.NextDueAt) {
			return a, nil
		}
	}

	op, err := s.GetOperador(ctx, id)
	if err != nil {
		return nil, err
	}
	a := assinatura.Access(*op, now)

	if s.cache != nil && a.Liberado {
		if err := s.cache.Set(ctx, a, now); err != nil {
			slog.Warn("Falha ao gravar cache de acesso", "operador_id", id, "error", err)
		}
	}
	return &a, nil
}

// ListPagamentos devolve as tentativas de pagamento do operador, mais recentes primeiro.
func (s *OperadorService) ListPagamentos(ctx context.Context, id string) ([]domain.Pagamento, error) {
	if _, err := s.GetOperador(ctx, id); err != nil {
		return nil, err
	}
	return s.pagamentos.ListByOperador(ctx, id)
}

func (s *OperadorService) invalidar(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		slog.Warn("Falha ao invalidar cache de acesso", "operador_id", id, "error", err)
	}
}
