package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type DBer interface {
	CreateTable(t TableData) error
	Insert(t TableData) error
}

type Sqldb struct {
	options
	db *sql.DB
}

type Field struct {
	Title string
	Type  string
}

type TableData struct {
	TableName   string
	ColumnNames []Field       // columns, in insert order
	Args        []interface{} // row values, DataCount rows of len(ColumnNames)
	DataCount   int
	AutoKey     bool
}

func New(opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	d := &Sqldb{}
	d.options = options

	if err := d.OpenDB(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Sqldb) OpenDB() error {
	switch d.driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported sql driver %q", d.driver)
	}

	db, err := sql.Open(d.driver, d.sqlURL)
	if err != nil {
		return err
	}

	maxConn := d.maxConn
	if d.driver == DriverSQLite {
		// sqlite serializes writers; more connections only add lock errors
		maxConn = 1
	}
	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxConn)

	if err = db.Ping(); err != nil {
		return err
	}

	d.db = db

	return nil
}

func (d *Sqldb) Close() error {
	return d.db.Close()
}

func checkTable(t TableData) error {
	if len(t.ColumnNames) == 0 {
		return errors.New("column can not be empty")
	}
	if !identRe.MatchString(t.TableName) {
		return fmt.Errorf("invalid table name %q", t.TableName)
	}
	for _, c := range t.ColumnNames {
		if !identRe.MatchString(c.Title) {
			return fmt.Errorf("invalid column name %q", c.Title)
		}
	}

	return nil
}

func (d *Sqldb) CreateTable(t TableData) error {
	if err := checkTable(t); err != nil {
		return err
	}

	sql := `CREATE TABLE IF NOT EXISTS ` + t.TableName + " ("

	if t.AutoKey {
		if d.driver == DriverSQLite {
			sql += `id INTEGER PRIMARY KEY AUTOINCREMENT,`
		} else {
			sql += `id INT(12) NOT NULL PRIMARY KEY AUTO_INCREMENT,`
		}
	}

	for _, t := range t.ColumnNames {
		sql += t.Title + ` ` + t.Type + `,`
	}

	sql = sql[:len(sql)-1] + `)`
	if d.driver == DriverMySQL {
		sql += ` ENGINE=MyISAM DEFAULT CHARSET=utf8mb4`
	}
	sql += `;`

	d.logger.Debug("create table", zap.String("sql", sql))

	_, err := d.db.Exec(sql)

	return err
}

func (d *Sqldb) DropTable(t TableData) error {
	if !identRe.MatchString(t.TableName) {
		return fmt.Errorf("invalid table name %q", t.TableName)
	}

	sql := `DROP TABLE ` + t.TableName

	d.logger.Debug("drop table", zap.String("sql", sql))

	_, err := d.db.Exec(sql)

	return err
}

func (d *Sqldb) Insert(t TableData) error {
	if err := checkTable(t); err != nil {
		return err
	}
	if t.DataCount == 0 {
		return nil
	}
	if len(t.Args) != t.DataCount*len(t.ColumnNames) {
		return fmt.Errorf("insert %s: %d args for %d rows of %d columns", t.TableName, len(t.Args), t.DataCount, len(t.ColumnNames))
	}

	sql := `INSERT INTO ` + t.TableName + `(`

	for _, v := range t.ColumnNames {
		sql += v.Title + ","
	}

	sql = sql[:len(sql)-1] + `) VALUES `

	blank := ",(" + strings.Repeat(",?", len(t.ColumnNames))[1:] + ")"
	sql += strings.Repeat(blank, t.DataCount)[1:] + `;`
	d.logger.Debug("insert table", zap.String("sql", sql))
	_, err := d.db.Exec(sql, t.Args...)

	return err
}

// Count returns the number of rows in table.
func (d *Sqldb) Count(table string) (int, error) {
	if !identRe.MatchString(table) {
		return 0, fmt.Errorf("invalid table name %q", table)
	}

	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n)

	return n, err
}
