package store

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/compat"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotFound 记录不存在，与解析器使用同一个哨兵错误
var ErrNotFound = compat.ErrNotFound

// Store SQLite 数据库存储层
type Store struct {
	db *sql.DB
}

// NewMemory 创建独立的内存数据库
//
// 每个实例使用唯一的库名，进程内多个 Store 互不影响；关闭后数据即丢弃。
func NewMemory() (*Store, error) {
	dsn := fmt.Sprintf("file:vrcassets-%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	return New(dsn)
}

// New 创建新的 Store 实例
func New(dsn string) (*Store, error) {
	// 打开数据库连接
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 内存库依赖连接存活，固定单连接
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db}

	// 初始化数据库结构
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema 初始化数据库结构
func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}

	// 执行建表语句
	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// WithTx 在事务中执行 fn，fn 返回错误时回滚
func (s *Store) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// execer 兼容 *sql.DB 与 *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
