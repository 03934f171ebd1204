package postgres

import (
	"context"
	"encoding/json"

	"github.com/turtacn/rxndb-explorer/internal/domain/reaction"
	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

// ReactionRepository loads reaction rows from PostgreSQL.  It implements
// reaction.Repository.
type ReactionRepository struct {
	conn *Connection
}

// NewReactionRepository builds a repository over an open connection.
func NewReactionRepository(conn *Connection) *ReactionRepository {
	return &ReactionRepository{conn: conn}
}

// LoadRows reads every reaction, ordered by id for a stable table order.
func (r *ReactionRepository) LoadRows(ctx context.Context) ([]reaction.Reaction, error) {
	const q = `
		SELECT id, type, plot_type, rxn, reactants, products, ref, data
		FROM reactions
		ORDER BY id`

	rows, err := r.conn.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query reactions")
	}
	defer rows.Close()

	var out []reaction.Reaction
	for rows.Next() {
		var (
			rec                       reaction.Reaction
			reactants, products, data []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.PlotType, &rec.Equation,
			&reactants, &products, &rec.Reference, &data); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan reaction row")
		}
		if err := json.Unmarshal(reactants, &rec.Reactants); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "malformed reactants column")
		}
		if err := json.Unmarshal(products, &rec.Products); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "malformed products column")
		}
		if err := json.Unmarshal(data, &rec.Data); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "malformed data column")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read reactions")
	}
	return out, nil
}

// LoadLexicon reads the phase cross-reference table.
func (r *ReactionRepository) LoadLexicon(ctx context.Context) ([]reaction.PhaseEntry, error) {
	const q = `SELECT abbrev, name, formula FROM phases ORDER BY abbrev`

	rows, err := r.conn.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query phases")
	}
	defer rows.Close()

	var out []reaction.PhaseEntry
	for rows.Next() {
		var e reaction.PhaseEntry
		if err := rows.Scan(&e.Abbrev, &e.Name, &e.Formula); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan phase row")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read phases")
	}
	return out, nil
}

// ImportRows upserts a batch of reactions, typically from the dataset CLI.
func (r *ReactionRepository) ImportRows(ctx context.Context, recs []reaction.Reaction) error {
	const q = `
		INSERT INTO reactions (id, type, plot_type, rxn, reactants, products, ref, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			plot_type = EXCLUDED.plot_type,
			rxn = EXCLUDED.rxn,
			reactants = EXCLUDED.reactants,
			products = EXCLUDED.products,
			ref = EXCLUDED.ref,
			data = EXCLUDED.data`

	tx, err := r.conn.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin import transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range recs {
		reactants, err := json.Marshal(rec.Reactants)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal reactants")
		}
		products, err := json.Marshal(rec.Products)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal products")
		}
		data, err := json.Marshal(rec.Data)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal conditions")
		}
		if _, err := tx.ExecContext(ctx, q, rec.ID, rec.Type, rec.PlotType, rec.Equation,
			reactants, products, rec.Reference, data); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert reaction")
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit import")
	}
	return nil
}
