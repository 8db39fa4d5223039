package postgres

import (
	"context"
	"errors"
	"fmt"
)

type execCall struct {
	sql  string
	args []any
}

type fakeTag int64

func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRow struct {
	id  int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return fmt.Errorf("scan into %d values", len(dest))
	}
	p, ok := dest[0].(*int64)
	if !ok {
		return errors.New("unexpected scan target")
	}
	*p = r.id
	return nil
}

type fakeTx struct {
	db         *fakeDB
	committed  bool
	rolledBack bool
}

func (t *fakeTx) QueryRow(_ context.Context, sql string, args ...any) Row {
	t.db.queries = append(t.db.queries, execCall{sql: sql, args: args})
	if t.db.insertErr != nil {
		return fakeRow{err: t.db.insertErr}
	}
	t.db.nextID++
	return fakeRow{id: t.db.nextID}
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (CommandTag, error) {
	t.db.execs = append(t.db.execs, execCall{sql: sql, args: args})
	return fakeTag(1), nil
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	queries   []execCall
	execs     []execCall
	txs       []*fakeTx
	nextID    int64
	insertErr error
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return (&fakeTx{db: db}).QueryRow(ctx, sql, args...)
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (CommandTag, error) {
	db.execs = append(db.execs, execCall{sql: sql, args: args})
	return fakeTag(0), nil
}

func (db *fakeDB) Begin(context.Context) (Tx, error) {
	tx := &fakeTx{db: db}
	db.txs = append(db.txs, tx)
	return tx, nil
}

func (db *fakeDB) Close() {}
