package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
)

const accountColumns = `account_id, entity_id, code, name, account_type, parent_account_id, description, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.EntityID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return toDomainAccount(m), nil
}

func queryAccounts(ctx context.Context, q querier, query string, args ...any) ([]domain.Account, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "query accounts")
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapPgError(err, "scan account")
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate accounts")
	}
	return accounts, nil
}

const insertAccountQuery = `INSERT INTO accounts (` + accountColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func accountInsertArgs(account domain.Account) []any {
	m := toModelAccount(account)
	return []any{
		m.AccountID,
		m.EntityID,
		m.Code,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// SaveAccount inserts a new account. A code already used in the entity maps to ErrDuplicate.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	_, err := r.Pool.Exec(ctx, insertAccountQuery+";", accountInsertArgs(account)...)
	return mapPgError(err, "save account "+account.Code)
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapPgError(err, "find account "+accountID)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, entityID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE entity_id = $1 AND code = $2;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, entityID, code))
	if err != nil {
		return nil, mapPgError(err, "find account by code "+code)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountsByEntity(ctx context.Context, entityID string, types []domain.AccountType) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE entity_id = $1
			AND ($2::text[] IS NULL OR cardinality($2::text[]) = 0 OR account_type = ANY($2::text[]))
		ORDER BY code;
	`
	return queryAccounts(ctx, r.Pool, query, entityID, typeStrings(types))
}

// UpdateAccount takes the row lock before looking for posted lines. Postings hold the
// account row FOR SHARE, so the lookup runs after any in-flight posting has committed.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account, retype *domain.AccountType) (*domain.Account, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	current, err := scanAccount(tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1 FOR UPDATE;`, account.AccountID))
	if err != nil {
		return nil, mapPgError(err, "lock account "+account.AccountID)
	}

	if retype != nil && *retype != current.AccountType {
		var posted bool
		err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1);`, account.AccountID).Scan(&posted)
		if err != nil {
			return nil, mapPgError(err, "check posted lines")
		}
		if posted {
			return nil, apperrors.ErrAccountTypeLocked
		}
		current.AccountType = *retype
	}
	current.Name = account.Name
	current.Description = account.Description
	current.LastUpdatedAt = account.LastUpdatedAt
	current.LastUpdatedBy = account.LastUpdatedBy

	query := `
		UPDATE accounts
		SET name = $2, description = $3, account_type = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1;
	`
	_, err = tx.Exec(ctx, query,
		current.AccountID,
		current.Name,
		current.Description,
		string(current.AccountType),
		current.LastUpdatedAt,
		current.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "update account "+account.AccountID)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &current, nil
}

func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID, userID string, at time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, at, userID)
	if err != nil {
		return mapPgError(err, "deactivate account "+accountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func typeStrings(types []domain.AccountType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
