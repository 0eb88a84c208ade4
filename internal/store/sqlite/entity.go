package sqlite

import (
	"context"
	"strings"

	"github.com/longbox/longbox-server/internal/errors"
	"github.com/longbox/longbox-server/internal/normalize"
	"github.com/longbox/longbox-server/internal/store"
)

// rowScanner abstracts sql.Row and sql.Rows for shared scan helpers.
type rowScanner interface{ Scan(dest ...any) error }

// entityDef maps an entity onto its table with explicit configuration —
// table, columns, sort order, and owning key are all spelled out here
// rather than inferred from type names at runtime.
type entityDef[T any] struct {
	table string
	// name is the singular entity name used in operation contexts, e.g.
	// "author" yields contexts like "author.list".
	name string
	// columns is the ordered select/insert column list, id first. The
	// scan and bind funcs must follow this exact order.
	columns []string
	// sortBy is the canonical sort order for lists and pagination.
	sortBy string
	// nameKeys are the folded search-key columns matched by the name
	// filter. Exactly two keys means a two-token filter splits into
	// independent per-column matches (authors: first/last name).
	nameKeys []string
	// scoped marks entities owned by a library.
	scoped bool

	scan func(rowScanner) (*T, error)
	bind func(*T) []any
	// setOwner forces the owning library id onto the entity; nil for
	// top-level entities.
	setOwner func(*T, string)
	// loaders resolve eager includes by relation name.
	loaders map[string]func(context.Context, *Store, *T) error
}

func (d *entityDef[T]) selectColumns() string {
	return strings.Join(d.columns, ", ")
}

// requireLibrary resolves the owning library for scoped operations. A bad
// library id is NotFound before anything else happens.
func requireLibrary[T any](ctx context.Context, s *Store, def *entityDef[T], libraryID, op string) error {
	if !def.scoped {
		return nil
	}
	if _, err := s.GetLibrary(ctx, libraryID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.NotFound("library %q does not exist", libraryID).WithContext(op)
		}
		return err
	}
	return nil
}

// listEntities runs a filtered, paginated list query.
func listEntities[T any](ctx context.Context, s *Store, def *entityDef[T], libraryID string, opts store.ListOptions) ([]*T, error) {
	op := def.name + ".list"
	if err := requireLibrary(ctx, s, def, libraryID, op); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if def.scoped {
		where = append(where, "library_id = ?")
		args = append(args, libraryID)
	}
	if opts.ActiveOnly {
		where = append(where, "active = 1")
	}
	if opts.Name != "" {
		clause, clauseArgs := nameFilter(def.nameKeys, opts.Name)
		where = append(where, clause)
		args = append(args, clauseArgs...)
	}

	q := "SELECT " + def.selectColumns() + " FROM " + def.table
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + def.sortBy + " LIMIT ? OFFSET ?"
	limit := opts.Limit
	if limit == 0 {
		limit = -1 // sqlite: no limit
	}
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		e, err := def.scan(rows)
		if err != nil {
			return nil, translateErr(err).WithContext(op)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err).WithContext(op)
	}

	if err := applyIncludes(ctx, s, def, out, opts.Include); err != nil {
		return nil, err
	}
	return out, nil
}

// getEntity fetches one row, re-verifying library scoping for scoped
// entities: a cross-library id is NotFound, never a leak.
func getEntity[T any](ctx context.Context, s *Store, def *entityDef[T], libraryID, id string, opts store.ListOptions) (*T, error) {
	op := def.name + ".get"
	if err := requireLibrary(ctx, s, def, libraryID, op); err != nil {
		return nil, err
	}

	q := "SELECT " + def.selectColumns() + " FROM " + def.table + " WHERE id = ?"
	args := []any{id}
	if def.scoped {
		q += " AND library_id = ?"
		args = append(args, libraryID)
	}

	e, err := def.scan(s.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, translateErr(err).WithContext(op)
	}

	if err := applyIncludes(ctx, s, def, []*T{e}, opts.Include); err != nil {
		return nil, err
	}
	return e, nil
}

// insertEntity inserts a row. For scoped entities the owning library comes
// from the path, overwriting whatever the payload claimed.
func insertEntity[T any](ctx context.Context, s *Store, def *entityDef[T], libraryID string, e *T) error {
	op := def.name + ".create"
	if err := requireLibrary(ctx, s, def, libraryID, op); err != nil {
		return err
	}
	if def.setOwner != nil {
		def.setOwner(e, libraryID)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(def.columns)), ", ")
	q := "INSERT INTO " + def.table + " (" + def.selectColumns() + ") VALUES (" + placeholders + ")"
	if _, err := s.db.ExecContext(ctx, q, def.bind(e)...); err != nil {
		return translateErr(err).WithContext(op)
	}
	return nil
}

// updateEntity updates a row in place. NotFound when no row matched, which
// covers both a missing id and an id owned by a different library.
func updateEntity[T any](ctx context.Context, s *Store, def *entityDef[T], libraryID, id string, e *T) error {
	op := def.name + ".update"
	if err := requireLibrary(ctx, s, def, libraryID, op); err != nil {
		return err
	}
	if def.setOwner != nil {
		def.setOwner(e, libraryID)
	}

	sets := make([]string, 0, len(def.columns)-1)
	for _, col := range def.columns[1:] {
		sets = append(sets, col+" = ?")
	}
	q := "UPDATE " + def.table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args := append(def.bind(e)[1:], id)
	if def.scoped {
		q += " AND library_id = ?"
		args = append(args, libraryID)
	}

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return translateErr(err).WithContext(op)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translateErr(err).WithContext(op)
	}
	if n == 0 {
		return errors.ErrNotFound.WithContext(op)
	}
	return nil
}

// deleteEntity reads then deletes, returning the removed row. The read goes
// through the scoped path, so cross-library deletes report NotFound.
func deleteEntity[T any](ctx context.Context, s *Store, def *entityDef[T], libraryID, id string) (*T, error) {
	op := def.name + ".delete"
	e, err := getEntity(ctx, s, def, libraryID, id, store.ListOptions{})
	if err != nil {
		var derr *errors.Error
		if errors.As(err, &derr) {
			return nil, derr.WithContext(op)
		}
		return nil, err
	}

	q := "DELETE FROM " + def.table + " WHERE id = ?"
	args := []any{id}
	if def.scoped {
		q += " AND library_id = ?"
		args = append(args, libraryID)
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	return e, nil
}

// entitiesByIDs batch-fetches rows by id, unscoped. Used by link queries
// that have already established ownership through the link's endpoints.
func entitiesByIDs[T any](ctx context.Context, s *Store, def *entityDef[T], ids []string) (map[string]*T, error) {
	out := make(map[string]*T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	q := "SELECT " + def.selectColumns() + " FROM " + def.table + " WHERE id IN (" + placeholders + ")"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	idOf := func(e *T) string {
		// Column 0 is always id; bind returns values in column order.
		return def.bind(e)[0].(string)
	}
	for rows.Next() {
		e, err := def.scan(rows)
		if err != nil {
			return nil, translateErr(err)
		}
		out[idOf(e)] = e
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

func applyIncludes[T any](ctx context.Context, s *Store, def *entityDef[T], entities []*T, include []string) error {
	for _, relation := range include {
		loader, ok := def.loaders[relation]
		if !ok {
			continue
		}
		for _, e := range entities {
			if err := loader(ctx, s, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// nameFilter builds the WHERE clause for the name filter. With exactly two
// key columns and a two-token filter, tokens match first/last independently;
// otherwise the whole filter matches any key column.
func nameFilter(nameKeys []string, name string) (string, []any) {
	folded := normalize.Fold(name)
	tokens := strings.Fields(folded)

	if len(nameKeys) == 2 && len(tokens) == 2 {
		return "(" + nameKeys[0] + " LIKE ? AND " + nameKeys[1] + " LIKE ?)",
			[]any{"%" + tokens[0] + "%", "%" + tokens[1] + "%"}
	}

	clauses := make([]string, len(nameKeys))
	args := make([]any, len(nameKeys))
	for i, col := range nameKeys {
		clauses[i] = col + " LIKE ?"
		args[i] = "%" + folded + "%"
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}
