package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore maps collections to tables and records to rows.
type PostgresStore struct {
	db pgxQuerier
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("store: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

func newPostgresStoreWithQuerier(q pgxQuerier) *PostgresStore {
	if q == nil {
		panic("store: querier required")
	}
	return &PostgresStore{db: q}
}

func (s *PostgresStore) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	if len(rec) == 0 {
		return nil, wrap("insert", collection, errors.New("record must not be empty"))
	}
	keys := rec.Keys()
	cols := make([]string, len(keys))
	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		cols[i] = ident(k)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rec[k]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		ident(collection), strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	rows, err := s.collect(ctx, query, args)
	if err != nil {
		return nil, wrap("insert", collection, err)
	}
	if len(rows) == 0 {
		return nil, NoMatch("insert", collection)
	}
	return rows[0], nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, filter Filter, columns ...string) ([]Record, error) {
	selectList := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = ident(c)
		}
		selectList = strings.Join(quoted, ", ")
	}
	where, args := whereClause(filter, 1)
	query := fmt.Sprintf("SELECT %s FROM %s%s", selectList, ident(collection), where)

	rows, err := s.collect(ctx, query, args)
	if err != nil {
		return nil, wrap("query", collection, err)
	}
	return rows, nil
}

func (s *PostgresStore) Update(ctx context.Context, collection string, filter Filter, fields Record) ([]Record, error) {
	if len(filter) == 0 {
		return nil, wrap("update", collection, ErrEmptyFilter)
	}
	if len(fields) == 0 {
		return s.Query(ctx, collection, filter)
	}
	keys := fields.Keys()
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+len(filter))
	for i, k := range keys {
		sets[i] = fmt.Sprintf("%s = $%d", ident(k), i+1)
		args = append(args, fields[k])
	}
	where, whereArgs := whereClause(filter, len(keys)+1)
	args = append(args, whereArgs...)
	query := fmt.Sprintf("UPDATE %s SET %s%s RETURNING *", ident(collection), strings.Join(sets, ", "), where)

	rows, err := s.collect(ctx, query, args)
	if err != nil {
		return nil, wrap("update", collection, err)
	}
	return rows, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	if len(filter) == 0 {
		return nil, wrap("delete", collection, ErrEmptyFilter)
	}
	where, args := whereClause(filter, 1)
	query := fmt.Sprintf("DELETE FROM %s%s RETURNING *", ident(collection), where)

	rows, err := s.collect(ctx, query, args)
	if err != nil {
		return nil, wrap("delete", collection, err)
	}
	return rows, nil
}

func (s *PostgresStore) collect(ctx context.Context, query string, args []any) ([]Record, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, rowToRecord)
}

func rowToRecord(row pgx.CollectableRow) (Record, error) {
	m, err := pgx.RowToMap(row)
	return Record(m), err
}

// whereClause renders filter as " WHERE a = $n AND b = $n+1" with keys in
// sorted order so generated SQL is stable.
func whereClause(filter Filter, start int) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	keys := filter.Keys()
	conds := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		conds[i] = fmt.Sprintf("%s = $%d", ident(k), start+i)
		args[i] = filter[k]
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
