package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// PgxUnitOfWork runs ledger operations inside one pgx transaction.
type PgxUnitOfWork struct {
	BaseRepository
}

func newPgxUnitOfWork(pool *pgxpool.Pool) portsrepo.UnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)
	_ portsrepo.LedgerTx   = (*pgxLedgerTx)(nil)
)

func (u *PgxUnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	// no-op once committed
	defer u.Rollback(ctx, tx)

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}

type pgxLedgerTx struct {
	tx pgx.Tx
}

func (t *pgxLedgerTx) FindPeriodForShare(ctx context.Context, periodID string) (*domain.Period, error) {
	return scanPeriod(t.tx.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods WHERE period_id = $1 FOR SHARE;`, periodID))
}

func (t *pgxLedgerTx) FindOpenPeriodForShare(ctx context.Context, entityID string) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE entity_id = $1 AND status = 'OPEN' FOR SHARE;`
	return scanPeriod(t.tx.QueryRow(ctx, query, entityID))
}

func (t *pgxLedgerTx) FindPeriodForUpdate(ctx context.Context, periodID string) (*domain.Period, error) {
	return scanPeriod(t.tx.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods WHERE period_id = $1 FOR UPDATE;`, periodID))
}

func (t *pgxLedgerTx) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string, at time.Time) error {
	query := `UPDATE periods SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE period_id = $1;`
	tag, err := t.tx.Exec(ctx, query, periodID, string(status), at, userID)
	if err != nil {
		return mapPgError(err, "update period status")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsByIDs holds the rows FOR SHARE so a concurrent type change waits for the posting.
func (t *pgxLedgerTx) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := queryAccounts(ctx, t.tx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1) FOR SHARE;`, accountIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountID] = a
	}
	return byID, nil
}

// EnsureAccount inserts template unless the entity already has an account with its code,
// then reads the stored row FOR SHARE.
func (t *pgxLedgerTx) EnsureAccount(ctx context.Context, template domain.Account) (domain.Account, error) {
	_, err := t.tx.Exec(ctx, insertAccountQuery+" ON CONFLICT (entity_id, code) DO NOTHING;", accountInsertArgs(template)...)
	if err != nil {
		return domain.Account{}, mapPgError(err, "ensure account "+template.Code)
	}
	acc, err := scanAccount(t.tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE entity_id = $1 AND code = $2 FOR SHARE;`,
		template.EntityID, template.Code))
	if err != nil {
		return domain.Account{}, mapPgError(err, "find account "+template.Code)
	}
	return acc, nil
}

// InsertJournalEntry writes the entry row and queues its lines in one batch.
func (t *pgxLedgerTx) InsertJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := toModelJournalEntry(entry)
	entryQuery := `INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := t.tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.EntityID,
		m.PeriodID,
		m.EntryDate,
		m.Description,
		m.SourceModule,
		m.SourceID,
		m.Status,
		m.ApprovedBy,
		m.ApprovedAt,
		m.ReversalOfEntryID,
		m.Annotation,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapInsertError(err, entry.EntryID)
	}

	batch := &pgx.Batch{}
	lineQuery := `INSERT INTO journal_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	for _, l := range entry.Lines {
		ml := toModelJournalLine(l)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.AccountID,
			ml.LineNo,
			ml.Side,
			ml.Amount,
			ml.CurrencyCode,
			ml.ExchangeRate,
			ml.BaseAmount,
			ml.Memo,
		)
	}
	br := t.tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapInsertError(err, entry.EntryID)
	}
	return nil
}

func mapInsertError(err error, entryID string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.ConstraintName == "journal_entries_one_reversal":
			return fmt.Errorf("%w: entry is already reversed", apperrors.ErrConflict)
		case pgErr.Code == pgCheckViolation && pgErr.TableName == "journal_lines":
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidLineAmount, pgErr.ConstraintName)
		}
	}
	return mapPgError(err, "insert journal entry "+entryID)
}

func (t *pgxLedgerTx) FindJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return findEntry(ctx, t.tx, entryID, true)
}

// ApproveJournalEntry only matches PENDING rows, so concurrent approvals cannot both win.
func (t *pgxLedgerTx) ApproveJournalEntry(ctx context.Context, entryID, approverID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'APPROVED', approved_by = $2, approved_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE entry_id = $1 AND status = 'PENDING';
	`
	tag, err := t.tx.Exec(ctx, query, entryID, approverID, at)
	if err != nil {
		return mapPgError(err, "approve journal entry "+entryID)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE entry_id = $1);`, entryID).Scan(&exists); err != nil {
		return mapPgError(err, "check journal entry")
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrAlreadyApproved
}

func (t *pgxLedgerTx) HasReversal(ctx context.Context, entryID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE reversal_of_entry_id = $1);`, entryID).Scan(&exists)
	if err != nil {
		return false, mapPgError(err, "check reversal")
	}
	return exists, nil
}
