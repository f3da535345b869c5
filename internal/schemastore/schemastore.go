// Package schemastore persists ReturnSchemaOf results across pipeline
// scripts, keyed by a content hash of the script source. Store is the
// engine-facing interface; SQLStore backs it with gorm+sqlite (or, given a
// Turso URL, gorm+libsql) for cross-process reuse, InMemoryStore is the
// zero-dependency default.
package schemastore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Schema is the persisted shape of internal/query.ReturnSchema, decoupled
// from that package to avoid a storage-layer → query-layer dependency.
type Schema struct {
	Fields     []string
	DataFields []string
}

// Store is the interface the engine depends on; SchemaStore callers never
// see gorm types directly.
type Store interface {
	Get(ctx context.Context, source string) (*Schema, bool, error)
	Put(ctx context.Context, source string, schema *Schema) error
}

// HashSource returns the content key a Store uses for source.
func HashSource(source string) string {
	h := sha256.Sum256([]byte(source))
	return hex.EncodeToString(h[:])
}

// InMemoryStore is the default Store: a lock-guarded map, adequate for a
// single analysis session where no cross-process persistence is needed.
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Schema
}

// NewInMemoryStore constructs an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{items: map[string]*Schema{}}
}

func (s *InMemoryStore) Get(_ context.Context, source string) (*Schema, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[HashSource(source)]
	return v, ok, nil
}

func (s *InMemoryStore) Put(_ context.Context, source string, schema *Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[HashSource(source)] = schema
	return nil
}

// schemaRecord is the gorm model backing SQLStore: content-hash key, JSON
// payload, timestamps. RunID records which analysis run most recently wrote
// the row, useful for tracing a stale cache entry back to the CLI
// invocation that produced it.
type schemaRecord struct {
	Hash      string         `gorm:"primaryKey"`
	RunID     string         `gorm:"column:run_id"`
	Fields    datatypes.JSON `gorm:"column:fields;type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (schemaRecord) TableName() string { return "return_schemas" }

// SQLStore persists schemas to a sqlite (or Turso/libsql) database via
// gorm, for reuse of returnSchemaOf results across CLI invocations scanning
// the same pipeline repeatedly (cmd/hookscript's --cache-db flag).
type SQLStore struct {
	db   *gorm.DB
	conn *sql.DB
}

// OpenSQLStore opens a schema store at dsn and migrates its table. dsn may
// be a local file path, or an http(s)/libsql:// Turso URL, in which case
// the connection runs through the libsql driver and HOOKSCRIPT_LIBSQL_AUTH_TOKEN
// supplies the auth token.
func OpenSQLStore(dsn string) (*SQLStore, error) {
	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)
	if isRemoteDSN(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv("HOOKSCRIPT_LIBSQL_AUTH_TOKEN"); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("creating libsql connector: %w", err)
		}
		conn = sql.OpenDB(connector)
		dialector = sqlite.New(sqlite.Config{DriverName: "libsql", Conn: conn, DSN: dsn})
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("opening schema store: %w", err)
	}
	if err := db.AutoMigrate(&schemaRecord{}); err != nil {
		return nil, fmt.Errorf("migrating schema store: %w", err)
	}
	return &SQLStore{db: db, conn: conn}, nil
}

func isRemoteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql://")
}

func (s *SQLStore) Get(ctx context.Context, source string) (*Schema, bool, error) {
	var rec schemaRecord
	err := s.db.WithContext(ctx).First(&rec, "hash = ?", HashSource(source)).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var schema Schema
	if err := json.Unmarshal(rec.Fields, &schema); err != nil {
		return nil, false, err
	}
	return &schema, true, nil
}

// Put upserts by hash: Save would issue a plain UPDATE given a non-zero
// primary key and silently touch zero rows the first time a given source
// is seen, so this goes through gorm's ON CONFLICT clause instead.
func (s *SQLStore) Put(ctx context.Context, source string, schema *Schema) error {
	payload, err := json.Marshal(schema)
	if err != nil {
		return err
	}
	rec := schemaRecord{
		Hash:   HashSource(source),
		RunID:  uuid.NewString(),
		Fields: datatypes.JSON(payload),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"run_id", "fields", "updated_at"}),
	}).Create(&rec).Error
}

// Close releases the underlying database connection.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
