package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrPagamentoDuplicado: já existe pagamento com o mesmo (provedor, external_payment_id).
	ErrPagamentoDuplicado = errors.New("pagamento já registrado para este provedor")

	// ErrPagamentoJaFinalizado: o pagamento não estava mais pendente quando tentamos mudá-lo.
	ErrPagamentoJaFinalizado = errors.New("pagamento não está mais pendente")

	// ErrOperadorAlterado: outra renovação gravou o operador entre a leitura e a escrita.
	ErrOperadorAlterado = errors.New("operador alterado por outra transação")

	ErrLancamentoDuplicado = errors.New("pagamento já lançado na receita")
	ErrEmailDuplicado      = errors.New("e-mail já cadastrado")
	ErrSKUDuplicado        = errors.New("sku já cadastrado")
	ErrEstoqueInsuficiente = errors.New("estoque insuficiente")
	ErrProdutoInexistente  = errors.New("produto inexistente")
)

// isUniqueViolation reconhece violação de UNIQUE nos dois drivers suportados.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
