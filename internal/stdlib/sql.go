package stdlib

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"forthic/internal/errors"
	"forthic/internal/value"
	"forthic/internal/words"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// dbRegistry maps connection handles to open databases. Handles are plain
// ints so scripts can hold them on the stack and in variables.
type dbRegistry struct {
	mu     sync.Mutex
	nextID int64
	conns  map[int64]*sql.DB
}

var registry = &dbRegistry{conns: map[int64]*sql.DB{}}

func (r *dbRegistry) add(db *sql.DB) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.conns[r.nextID] = db
	return r.nextID
}

func (r *dbRegistry) get(id int64) (*sql.DB, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	db, ok := r.conns[id]
	return db, ok
}

func (r *dbRegistry) remove(id int64) (*sql.DB, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	db, ok := r.conns[id]
	delete(r.conns, id)
	return db, ok
}

// NewSQLModule builds the sql module. Drivers available: sqlite3, mysql,
// postgres.
func NewSQLModule() *words.Module {
	m := words.NewModule("sql")

	addWord(m, "SQL-CONNECT", wordSQLConnect)
	addWord(m, "SQL-QUERY", wordSQLQuery)
	addWord(m, "SQL-EXEC", wordSQLExec)
	addWord(m, "SQL-CLOSE", wordSQLClose)

	return m
}

// wordSQLConnect is ( driver dsn -- handle ).
func wordSQLConnect(ctx words.Interp) error {
	dsn, err := popString(ctx)
	if err != nil {
		return err
	}
	driver, err := popString(ctx)
	if err != nil {
		return err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return &errors.InvalidType{Expected: "valid driver and DSN", Actual: fmt.Sprintf("%s %q", driver, dsn)}
	}
	ctx.StackPush(&value.Int{Value: registry.add(db)})
	return nil
}

// wordSQLQuery is ( handle sql -- rows ), where rows is an array of records
// keyed by column name.
func wordSQLQuery(ctx words.Interp) error {
	query, err := popString(ctx)
	if err != nil {
		return err
	}
	db, err := popDB(ctx)
	if err != nil {
		return err
	}

	rows, err := db.Query(query)
	if err != nil {
		return &errors.ParseError{Note: "query failed", Text: err.Error()}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return &errors.ParseError{Note: "query failed", Text: err.Error()}
	}

	var items []value.Value
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return &errors.ParseError{Note: "row scan failed", Text: err.Error()}
		}
		rec := value.NewRecord()
		for i, col := range cols {
			rec.Fields[col] = sqlToValue(raw[i])
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return &errors.ParseError{Note: "query failed", Text: err.Error()}
	}
	ctx.StackPush(&value.Array{Items: items})
	return nil
}

// wordSQLExec is ( handle sql -- affected ).
func wordSQLExec(ctx words.Interp) error {
	stmt, err := popString(ctx)
	if err != nil {
		return err
	}
	db, err := popDB(ctx)
	if err != nil {
		return err
	}
	result, err := db.Exec(stmt)
	if err != nil {
		return &errors.ParseError{Note: "exec failed", Text: err.Error()}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		affected = 0
	}
	ctx.StackPush(&value.Int{Value: affected})
	return nil
}

// wordSQLClose is ( handle -- ).
func wordSQLClose(ctx words.Interp) error {
	id, err := popInt(ctx)
	if err != nil {
		return err
	}
	db, ok := registry.remove(id)
	if !ok {
		return &errors.InvalidType{Expected: "open SQL handle", Actual: fmt.Sprintf("%d", id)}
	}
	return db.Close()
}

func popDB(ctx words.Interp) (*sql.DB, error) {
	id, err := popInt(ctx)
	if err != nil {
		return nil, err
	}
	db, ok := registry.get(id)
	if !ok {
		return nil, &errors.InvalidType{Expected: "open SQL handle", Actual: fmt.Sprintf("%d", id)}
	}
	return db, nil
}

func sqlToValue(raw any) value.Value {
	switch v := raw.(type) {
	case nil:
		return value.NULL
	case bool:
		return value.FromBool(v)
	case int64:
		return &value.Int{Value: v}
	case float64:
		return &value.Float{Value: v}
	case string:
		return &value.Str{Value: v}
	case []byte:
		return &value.Str{Value: string(v)}
	case time.Time:
		return &value.DateTime{Value: v}
	default:
		return &value.Str{Value: fmt.Sprintf("%v", v)}
	}
}
