package builtins

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/interp"
	"github.com/exin-lang/exin/internal/value"
)

// dbConns maps a script-chosen connection id to its open handle, the same
// string-keyed connection table internal/database/database.go's DBManager
// keeps, minus the scanning/credential-list machinery that table also
// carries (no home for that in a scripting language's builtin surface).
var (
	dbMu    sync.Mutex
	dbConns = map[string]*sql.DB{}
)

// RegisterDB wires the db_* family backed by database/sql. The driver
// set mirrors internal/database/database.go's blank-import block exactly.
func RegisterDB(it *interp.Interp) {
	it.Register("db_connect", dbConnect)
	it.Register("db_query", dbQuery)
	it.Register("db_exec", dbExec)
	it.Register("db_close", dbClose)
}

func strArg(it *interp.Interp, args []value.Value, i int, fn string) (string, error) {
	if i >= len(args) {
		return "", it.Raise(errors.TypeError, "%s() expects a string argument in position %d", fn, i+1)
	}
	s, ok := args[i].(*value.Str)
	if !ok {
		return "", it.Raise(errors.TypeError, "%s() expects a string argument in position %d", fn, i+1)
	}
	return s.Val, nil
}

// dbConnect opens and names a connection: db_connect(id, driver, dsn).
// Recognized drivers are "sqlite" (modernc.org/sqlite, pure Go),
// "sqlite3"/"cgo-sqlite3" (mattn/go-sqlite3's cgo build, for scripts that
// need a feature modernc.org/sqlite doesn't carry), "mysql",
// "postgres"/"pq"/"postgresql" and "mssql"/"sqlserver".
func dbConnect(it *interp.Interp, args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return nil, it.Raise(errors.TypeError, "db_connect() expects (id, driver, dsn)")
	}
	id, err := strArg(it, args, 0, "db_connect")
	if err != nil {
		return nil, err
	}
	driver, err := strArg(it, args, 1, "db_connect")
	if err != nil {
		return nil, err
	}
	dsn, err := strArg(it, args, 2, "db_connect")
	if err != nil {
		return nil, err
	}

	driverName, ok := sqlDriverName(driver)
	if !ok {
		return nil, it.Raise(errors.ValueError, "db_connect: unknown driver %q", driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "db_connect: opening %s", driver)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "db_connect: pinging %s", driver)
	}

	dbMu.Lock()
	if old, exists := dbConns[id]; exists {
		old.Close()
	}
	dbConns[id] = db
	dbMu.Unlock()

	return value.NewInt(1), nil
}

func sqlDriverName(driver string) (string, bool) {
	switch driver {
	case "sqlite":
		return "sqlite", true
	case "sqlite3", "cgo-sqlite3":
		return "sqlite3", true
	case "mysql":
		return "mysql", true
	case "postgres", "pq", "postgresql":
		return "postgres", true
	case "mssql", "sqlserver":
		return "sqlserver", true
	default:
		return "", false
	}
}

func lookupDB(it *interp.Interp, id string) (*sql.DB, error) {
	dbMu.Lock()
	db, ok := dbConns[id]
	dbMu.Unlock()
	if !ok {
		return nil, it.Raise(errors.ValueError, "no open database connection %q", id)
	}
	return db, nil
}

// sqlArgs converts already-evaluated EXIN values to the native types
// database/sql expects for parameter substitution.
func sqlArgs(args []value.Value) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case *value.Str:
			out[i] = v.Val
		case *value.Int:
			out[i] = v.Val
		case *value.Float:
			out[i] = v.Val
		case *value.Char:
			out[i] = string(rune(v.Val))
		default:
			out[i] = a.String()
		}
	}
	return out
}

// sqlValueToEXIN converts one scanned column value to an EXIN value: the
// Str/Int/Float kinds SPEC_FULL.md §B lists, plus None for SQL NULL and
// Int 1/0 for a boolean.
func sqlValueToEXIN(raw interface{}) value.Value {
	switch v := raw.(type) {
	case nil:
		return value.NewNone()
	case int64:
		return value.NewInt(v)
	case float64:
		return value.NewFloat(v)
	case bool:
		if v {
			return value.NewInt(1)
		}
		return value.NewInt(0)
	case []byte:
		return value.NewStr(string(v))
	case string:
		return value.NewStr(v)
	default:
		return value.NewStr(fmt.Sprintf("%v", v))
	}
}

// dbQuery implements db_query(id, sql, args...): a List of rows, each row
// itself a List of column values, matching the value system's own
// sequence ops with no new value kind.
func dbQuery(it *interp.Interp, args []value.Value) (value.Value, error) {
	id, err := strArg(it, args, 0, "db_query")
	if err != nil {
		return nil, err
	}
	query, err := strArg(it, args, 1, "db_query")
	if err != nil {
		return nil, err
	}
	db, err := lookupDB(it, id)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(query, sqlArgs(args[2:])...)
	if err != nil {
		return nil, errors.Wrap(err, "db_query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "db_query: reading columns")
	}

	result := value.NewList()
	for rows.Next() {
		scanned := make([]interface{}, len(cols))
		targets := make([]interface{}, len(cols))
		for i := range scanned {
			targets[i] = &scanned[i]
		}
		if err := rows.Scan(targets...); err != nil {
			value.Decref(result)
			return nil, errors.Wrap(err, "db_query: scanning row")
		}
		row := value.NewList()
		for _, raw := range scanned {
			field := sqlValueToEXIN(raw)
			row.Append(field)
			value.Decref(field)
		}
		result.Append(row)
		value.Decref(row)
	}
	if err := rows.Err(); err != nil {
		value.Decref(result)
		return nil, errors.Wrap(err, "db_query: iterating rows")
	}
	return result, nil
}

// dbExec implements db_exec(id, sql, args...): INSERT/UPDATE/DELETE,
// returning the affected row count as Int.
func dbExec(it *interp.Interp, args []value.Value) (value.Value, error) {
	id, err := strArg(it, args, 0, "db_exec")
	if err != nil {
		return nil, err
	}
	query, err := strArg(it, args, 1, "db_exec")
	if err != nil {
		return nil, err
	}
	db, err := lookupDB(it, id)
	if err != nil {
		return nil, err
	}

	res, err := db.Exec(query, sqlArgs(args[2:])...)
	if err != nil {
		return nil, errors.Wrap(err, "db_exec")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "db_exec: reading affected row count")
	}
	return value.NewInt(n), nil
}

// dbClose implements db_close(id).
func dbClose(it *interp.Interp, args []value.Value) (value.Value, error) {
	id, err := strArg(it, args, 0, "db_close")
	if err != nil {
		return nil, err
	}
	dbMu.Lock()
	db, ok := dbConns[id]
	if ok {
		delete(dbConns, id)
	}
	dbMu.Unlock()
	if !ok {
		return nil, it.Raise(errors.ValueError, "no open database connection %q", id)
	}
	if err := db.Close(); err != nil {
		return nil, errors.Wrap(err, "db_close")
	}
	return value.NewInt(1), nil
}
