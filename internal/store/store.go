// Package store keeps checked units and their function signatures in a
// SQLite database so hosts can look them up without re-running analysis.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"fortio.org/safecast"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	_ "modernc.org/sqlite"

	"github.com/funvibe/finlang/internal/analyzer"
	"github.com/funvibe/finlang/internal/transport"
)

const schema = `
CREATE TABLE IF NOT EXISTS units (
	id           TEXT PRIMARY KEY,
	namespace    TEXT NOT NULL,
	file         TEXT NOT NULL,
	architecture TEXT NOT NULL,
	cost         INTEGER NOT NULL,
	digest       TEXT NOT NULL UNIQUE,
	created_at   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS functions (
	unit_id   TEXT NOT NULL REFERENCES units(id) ON DELETE CASCADE,
	name      TEXT NOT NULL,
	signature BLOB NOT NULL,
	PRIMARY KEY (unit_id, name)
);
CREATE INDEX IF NOT EXISTS functions_by_name ON functions(name);
`

// Store is a signature database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	// One connection keeps SQLite writes serialized.
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{"PRAGMA foreign_keys = ON", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initialising store %s: %w", path, err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Unit is a stored unit.
type Unit struct {
	ID           uuid.UUID
	Namespace    string
	File         string
	Architecture string
	Cost         uint64
	Digest       string
	CreatedAt    time.Time
}

// Save stores art and its signatures. Content already present under the
// same digest is not stored again; the earlier unit is returned with
// inserted set to false.
func (s *Store) Save(ctx context.Context, art *analyzer.Artifacts) (u Unit, inserted bool, err error) {
	sigs := transport.Signatures(art)
	encoded := make([][]byte, len(sigs))
	for i, sig := range sigs {
		st, err := transport.EncodeSignature(sig)
		if err != nil {
			return Unit{}, false, err
		}
		if encoded[i], err = (proto.MarshalOptions{Deterministic: true}).Marshal(st); err != nil {
			return Unit{}, false, fmt.Errorf("encoding %s: %w", sig.Name, err)
		}
	}
	cost, err := safecast.Convert[int64](art.CostValue)
	if err != nil {
		return Unit{}, false, fmt.Errorf("cost %d does not fit the store: %w", art.CostValue, err)
	}

	u = Unit{
		ID:           art.ID,
		Namespace:    art.Unit.NamespacePath(),
		File:         art.Unit.File,
		Architecture: art.Architecture.Name,
		Cost:         art.CostValue,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	u.Digest = digest(u.Namespace, u.Architecture, u.Cost, encoded)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Unit{}, false, err
	}
	defer tx.Rollback()

	if prior, err := scanUnit(tx.QueryRowContext(ctx, selectUnit+` WHERE digest = ?`, u.Digest)); err == nil {
		return prior, false, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Unit{}, false, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO units (id, namespace, file, architecture, cost, digest, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Namespace, u.File, u.Architecture, cost, u.Digest, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Unit{}, false, fmt.Errorf("saving unit %s: %w", u.File, err)
	}
	for i, sig := range sigs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO functions (unit_id, name, signature) VALUES (?, ?, ?)`,
			u.ID.String(), sig.Name, encoded[i])
		if err != nil {
			return Unit{}, false, fmt.Errorf("saving %s: %w", sig.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Unit{}, false, err
	}
	return u, true, nil
}

// digest identifies a unit's public content.
func digest(namespace, arch string, cost uint64, sigs [][]byte) string {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00", namespace, arch, cost)
	for _, s := range sigs {
		fmt.Fprintf(h, "%d\x00", len(s))
		h.Write(s)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the most recently stored signature of name. It makes the
// store a transport.SignatureSource.
func (s *Store) Lookup(ctx context.Context, name string) (transport.FunctionSignature, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT f.signature FROM functions f JOIN units u ON u.id = f.unit_id
		WHERE f.name = ? ORDER BY u.created_at DESC, u.rowid DESC LIMIT 1`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return transport.FunctionSignature{}, false, nil
	}
	if err != nil {
		return transport.FunctionSignature{}, false, fmt.Errorf("looking up %s: %w", name, err)
	}
	sig, err := decode(data)
	if err != nil {
		return transport.FunctionSignature{}, false, fmt.Errorf("stored signature %s: %w", name, err)
	}
	return sig, true, nil
}

// Units lists the stored units, oldest first.
func (s *Store) Units(ctx context.Context) ([]Unit, error) {
	rows, err := s.db.QueryContext(ctx, selectUnit+` ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Functions lists the names of the functions stored for a unit.
func (s *Store) Functions(ctx context.Context, id uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM functions WHERE unit_id = ? ORDER BY name`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func decode(data []byte) (transport.FunctionSignature, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return transport.FunctionSignature{}, err
	}
	return transport.DecodeSignature(&st)
}

const selectUnit = `SELECT id, namespace, file, architecture, cost, digest, created_at FROM units`

type scanner interface {
	Scan(dest ...any) error
}

func scanUnit(row scanner) (Unit, error) {
	var (
		u           Unit
		id, created string
		cost        int64
	)
	if err := row.Scan(&id, &u.Namespace, &u.File, &u.Architecture, &cost, &u.Digest, &created); err != nil {
		return Unit{}, err
	}
	var err error
	if u.ID, err = uuid.Parse(id); err != nil {
		return Unit{}, fmt.Errorf("stored unit id %q: %w", id, err)
	}
	if u.Cost, err = safecast.Convert[uint64](cost); err != nil {
		return Unit{}, fmt.Errorf("stored cost of %s: %w", id, err)
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return Unit{}, fmt.Errorf("stored time of %s: %w", id, err)
	}
	return u, nil
}
