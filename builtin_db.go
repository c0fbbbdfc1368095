// builtin_db.go — the sqlite and mysql builtin areas.
//
// Both areas share one engine over database/sql; only the driver, the
// connect builtin, and the handle kind differ. A query that returns rows
// materializes them into a "dbresult" handle holding a cursor:
//
//	set db to sqliteconnect("app.db")
//	set rs to sqlitequery(db, "select name, age from people where age > ?", [30])
//	set row to sqlitefetchassoc(rs)
//
// fetchone/fetchassoc advance the cursor one row per call and return null
// when exhausted; fetchall drains the remaining rows at once. Statements
// that return no rows yield the affected-row count, and the connection
// remembers the last insert id.

package easybite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// dbConn backs the "sqlite" and "mysql" handle kinds. While tx is non-nil,
// queries run inside that transaction.
type dbConn struct {
	db           *sql.DB
	tx           *sql.Tx
	lastInsertID int64
}

// dbResult backs the "dbresult" handle kind: a fully materialized row set
// with a read cursor.
type dbResult struct {
	cols   []string
	rows   [][]Value
	cursor int
}

func registerDBBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("sqliteconnect", 1, 1, func(ip *Interpreter, args []Value) Value {
		db, err := sql.Open("sqlite", argStr("sqliteconnect", args, 0))
		if err == nil {
			err = db.Ping()
		}
		if err != nil {
			fail(ErrExternal, "sqliteconnect(): %s", err)
		}
		return HandleVal("sqlite", &dbConn{db: db})
	}, `sqliteconnect(path) -> sqlite handle
Opens (creating if needed) an SQLite database file. ":memory:" opens an
in-memory database.`)

	reg("mysqlconnect", 4, 5, func(ip *Interpreter, args []Value) Value {
		host := argStr("mysqlconnect", args, 0)
		user := argStr("mysqlconnect", args, 1)
		pass := argStr("mysqlconnect", args, 2)
		name := argStr("mysqlconnect", args, 3)
		port := 3306
		if len(args) == 5 {
			port = argInt("mysqlconnect", args, 4)
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", user, pass, host, port, name)
		db, err := sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
		}
		if err != nil {
			fail(ErrExternal, "mysqlconnect(): %s", err)
		}
		return HandleVal("mysql", &dbConn{db: db})
	}, `mysqlconnect(host, user, password, database, port?) -> mysql handle
Connects to a MySQL server (default port 3306).`)

	for _, kind := range []string{"sqlite", "mysql"} {
		kind := kind
		conn := func(name string, args []Value) *dbConn {
			return asHandle(args[0], kind).Data.(*dbConn)
		}

		reg(kind+"query", 2, 3, func(ip *Interpreter, args []Value) Value {
			return dbQuery(kind+"query", conn(kind+"query", args), args)
		}, kind+`query(handle, sql, params?) -> dbresult handle or number

Runs a SQL statement; ? placeholders bind values from the optional params
array. Row-returning statements yield a result handle for the fetch
builtins; others yield the affected-row count.`)

		reg(kind+"fetchall", 1, 1, func(ip *Interpreter, args []Value) Value {
			rs := asHandle(args[0], "dbresult").Data.(*dbResult)
			out := make([]Value, 0, len(rs.rows)-rs.cursor)
			for ; rs.cursor < len(rs.rows); rs.cursor++ {
				out = append(out, Arr(append([]Value(nil), rs.rows[rs.cursor]...)))
			}
			return Arr(out)
		}, kind+`fetchall(result) -> array of the remaining rows, each an array.`)

		reg(kind+"fetchone", 1, 1, func(ip *Interpreter, args []Value) Value {
			rs := asHandle(args[0], "dbresult").Data.(*dbResult)
			if rs.cursor >= len(rs.rows) {
				return Null
			}
			row := rs.rows[rs.cursor]
			rs.cursor++
			return Arr(append([]Value(nil), row...))
		}, kind+`fetchone(result) -> the next row as an array, or null.`)

		reg(kind+"fetchassoc", 1, 1, func(ip *Interpreter, args []Value) Value {
			rs := asHandle(args[0], "dbresult").Data.(*dbResult)
			if rs.cursor >= len(rs.rows) {
				return Null
			}
			row := rs.rows[rs.cursor]
			rs.cursor++
			d := NewDict()
			for i, c := range rs.cols {
				d.Set(Str(c), row[i])
			}
			return DictVal(d)
		}, kind+`fetchassoc(result) -> the next row as a column-keyed
dictionary, or null.`)

		reg(kind+"numrows", 1, 1, func(ip *Interpreter, args []Value) Value {
			return Num(float64(len(asHandle(args[0], "dbresult").Data.(*dbResult).rows)))
		}, kind+`numrows(result) -> total number of rows in the result.`)

		reg(kind+"insertid", 1, 1, func(ip *Interpreter, args []Value) Value {
			return Num(float64(conn(kind+"insertid", args).lastInsertID))
		}, kind+`insertid(handle) -> the id generated by the last insert.`)

		reg(kind+"begin", 1, 1, func(ip *Interpreter, args []Value) Value {
			c := conn(kind+"begin", args)
			if c.tx != nil {
				fail(ErrExternal, "%sbegin(): transaction already open", kind)
			}
			tx, err := c.db.Begin()
			if err != nil {
				fail(ErrExternal, "%sbegin(): %s", kind, err)
			}
			c.tx = tx
			return Bool(true)
		}, kind+`begin(handle) -> true
Opens a transaction; later queries run inside it until commit or
rollback.`)

		reg(kind+"commit", 1, 1, func(ip *Interpreter, args []Value) Value {
			c := conn(kind+"commit", args)
			if c.tx == nil {
				fail(ErrExternal, "%scommit(): no open transaction", kind)
			}
			err := c.tx.Commit()
			c.tx = nil
			if err != nil {
				fail(ErrExternal, "%scommit(): %s", kind, err)
			}
			return Bool(true)
		}, kind+`commit(handle) -> true`)

		reg(kind+"rollback", 1, 1, func(ip *Interpreter, args []Value) Value {
			c := conn(kind+"rollback", args)
			if c.tx == nil {
				fail(ErrExternal, "%srollback(): no open transaction", kind)
			}
			err := c.tx.Rollback()
			c.tx = nil
			if err != nil {
				fail(ErrExternal, "%srollback(): %s", kind, err)
			}
			return Bool(true)
		}, kind+`rollback(handle) -> true`)

		reg(kind+"close", 1, 1, func(ip *Interpreter, args []Value) Value {
			c := conn(kind+"close", args)
			if c.tx != nil {
				c.tx.Rollback()
				c.tx = nil
			}
			if err := c.db.Close(); err != nil {
				fail(ErrExternal, "%sclose(): %s", kind, err)
			}
			return Bool(true)
		}, kind+`close(handle) -> true
Closes the connection, rolling back any open transaction.`)

		reg(kind+"escape", 1, 1, func(ip *Interpreter, args []Value) Value {
			return Str(strings.ReplaceAll(argStr(kind+"escape", args, 0), "'", "''"))
		}, kind+`escape(text) -> text with single quotes doubled.
Prefer ? placeholders with the params array of `+kind+`query.`)
	}
}

// dbQuery runs one statement, routing row-returning SQL through Query and
// the rest through Exec.
func dbQuery(name string, c *dbConn, args []Value) Value {
	query := argStr(name, args, 1)
	var params []any
	if len(args) == 3 {
		for _, p := range argArr(name, args, 2).Elems {
			params = append(params, paramToGo(p))
		}
	}
	if returnsRows(query) {
		var rows *sql.Rows
		var err error
		if c.tx != nil {
			rows, err = c.tx.Query(query, params...)
		} else {
			rows, err = c.db.Query(query, params...)
		}
		if err != nil {
			fail(ErrExternal, "%s(): %s", name, err)
		}
		defer rows.Close()
		return HandleVal("dbresult", materialize(name, rows))
	}
	var res sql.Result
	var err error
	if c.tx != nil {
		res, err = c.tx.Exec(query, params...)
	} else {
		res, err = c.db.Exec(query, params...)
	}
	if err != nil {
		fail(ErrExternal, "%s(): %s", name, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		c.lastInsertID = id
	}
	affected, _ := res.RowsAffected()
	return Num(float64(affected))
}

func returnsRows(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, p := range []string{"select", "with", "pragma", "show", "describe", "explain"} {
		if strings.HasPrefix(q, p) {
			return true
		}
	}
	return false
}

func materialize(name string, rows *sql.Rows) *dbResult {
	cols, err := rows.Columns()
	if err != nil {
		fail(ErrExternal, "%s(): %s", name, err)
	}
	rs := &dbResult{cols: cols}
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			fail(ErrExternal, "%s(): %s", name, err)
		}
		row := make([]Value, len(cols))
		for i, cell := range raw {
			row[i] = cellToValue(cell)
		}
		rs.rows = append(rs.rows, row)
	}
	if err := rows.Err(); err != nil {
		fail(ErrExternal, "%s(): %s", name, err)
	}
	return rs
}

func cellToValue(cell any) Value {
	switch x := cell.(type) {
	case nil:
		return Null
	case bool:
		return Bool(x)
	case int64:
		return Num(float64(x))
	case float64:
		return Num(x)
	case string:
		return Str(x)
	case []byte:
		return Str(string(x))
	case time.Time:
		return Str(x.Format(canonDate + " " + canonTime))
	default:
		return Str(fmt.Sprintf("%v", x))
	}
}

func paramToGo(v Value) any {
	switch v.Tag {
	case VTNull:
		return nil
	case VTBool:
		return v.Data.(bool)
	case VTNum:
		f := v.Data.(float64)
		if isIntegral(f) {
			return int64(f)
		}
		return f
	case VTStr:
		return v.Data.(string)
	default:
		return v.Display()
	}
}
