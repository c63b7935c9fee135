package repository

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Drivers aceitos em database.driver.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

//go:embed migrations
var migrationsFS embed.FS

// Open abre a conexão e confere se o banco responde.
// No SQLite usamos uma única conexão: o banco em memória dos testes vive nela
// e as escritas não disputam o lock do arquivo.
func Open(driver, dsn string) (*sqlx.DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("driver de banco não suportado: %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no banco: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("erro ao ativar foreign keys: %w", err)
		}
	}

	return db, nil
}

// Migrate aplica as migrações embutidas do dialeto do banco.
// O migrate não é fechado aqui porque fecharia também o *sql.DB compartilhado.
func Migrate(db *sqlx.DB) error {
	dir := "migrations/sqlite"
	if db.DriverName() == DriverPostgres {
		dir = "migrations/postgres"
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("erro ao ler migrações: %w", err)
	}

	var m *migrate.Migrate
	switch db.DriverName() {
	case DriverPostgres:
		drv, err := pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{})
		if err != nil {
			return fmt.Errorf("erro ao preparar migrações: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "pgx5", drv)
		if err != nil {
			return err
		}
	default:
		drv, err := sqlitemigrate.WithInstance(db.DB, &sqlitemigrate.Config{})
		if err != nil {
			return fmt.Errorf("erro ao preparar migrações: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite3", drv)
		if err != nil {
			return err
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	return nil
}
