package sqlstorage

import (
	"fmt"
	"sync"

	"github.com/dreamerjackson/confextract/sqldb"
	"github.com/dreamerjackson/confextract/storage"
	"go.uber.org/zap"
)

// SQLStorage buffers cells and inserts them in batches, one statement per
// table. Tables are created the first time they are seen and never altered.
type SQLStorage struct {
	mu         sync.Mutex
	dataDocker []*storage.DataCell // buffered cells
	db         sqldb.DBer
	Table      map[string]struct{}
	options
}

func New(opts ...Option) (*SQLStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	db, err := sqldb.New(
		sqldb.WithDriver(options.driver),
		sqldb.WithConnURL(options.sqlURL),
		sqldb.WithLogger(options.logger),
	)
	if err != nil {
		return nil, err
	}

	return newWithDB(db, options), nil
}

func newWithDB(db sqldb.DBer, options options) *SQLStorage {
	if options.BatchCount <= 0 {
		options.BatchCount = 1
	}

	return &SQLStorage{
		db:      db,
		Table:   make(map[string]struct{}),
		options: options,
	}
}

func (s *SQLStorage) Save(dataCells ...*storage.DataCell) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cell := range dataCells {
		name := cell.GetTableName()
		if _, ok := s.Table[name]; !ok {
			err := s.db.CreateTable(sqldb.TableData{
				TableName:   name,
				ColumnNames: getFields(cell.Kind),
				AutoKey:     true,
			})
			if err != nil {
				return fmt.Errorf("create table %s: %w", name, err)
			}

			s.Table[name] = struct{}{}
		}

		s.dataDocker = append(s.dataDocker, cell)

		if len(s.dataDocker) >= s.BatchCount {
			if err := s.flush(); err != nil {
				return err
			}
		}
	}

	return nil
}

func getFields(k storage.Kind) []sqldb.Field {
	var columns []sqldb.Field
	for _, name := range storage.Columns(k) {
		typ := "VARCHAR(255)"
		switch name {
		// ids built from titles and source paths can exceed 255 characters
		case "record_id", "source_reference":
			typ = "TEXT"
		case "fields", "diagnostics", "reason":
			typ = "MEDIUMTEXT"
		}
		columns = append(columns, sqldb.Field{Title: name, Type: typ})
	}

	return columns
}

func (s *SQLStorage) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flush()
}

func (s *SQLStorage) flush() error {
	if len(s.dataDocker) == 0 {
		return nil
	}

	defer func() {
		s.dataDocker = nil
	}()

	// group by table, keeping first-seen table order
	var order []string
	groups := map[string][]*storage.DataCell{}
	for _, cell := range s.dataDocker {
		name := cell.GetTableName()
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], cell)
	}

	for _, name := range order {
		cells := groups[name]
		kind := cells[0].Kind
		columns := storage.Columns(kind)

		args := make([]interface{}, 0, len(cells)*len(columns))
		for _, cell := range cells {
			for _, c := range columns {
				args = append(args, cell.Data[c])
			}
		}

		err := s.db.Insert(sqldb.TableData{
			TableName:   name,
			ColumnNames: getFields(kind),
			Args:        args,
			DataCount:   len(cells),
		})
		if err != nil {
			s.logger.Error("insert data failed", zap.String("table", name), zap.Error(err))
			return fmt.Errorf("insert %s: %w", name, err)
		}
		s.logger.Debug("rows stored", zap.String("table", name), zap.Int("count", len(cells)))
	}

	return nil
}
