package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dailyyoga/productcache/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"sqlite", (&Config{Path: "cache.db"}).MergeDefaults(), false},
		{"sqlite without path", (&Config{}).MergeDefaults(), true},
		{"mysql", (&Config{Driver: DriverMySQL, Host: "localhost", User: "u", Database: "d"}).MergeDefaults(), false},
		{"mysql without host", (&Config{Driver: DriverMySQL, User: "u", Database: "d"}).MergeDefaults(), true},
		{"unknown driver", (&Config{Driver: "postgres", Path: "x"}).MergeDefaults(), true},
		{"bad log level", (&Config{Path: "x", LogLevel: "trace"}).MergeDefaults(), true},
		{"log level case insensitive", (&Config{Path: "x", LogLevel: "INFO"}).MergeDefaults(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	sqliteDSN := (&Config{Path: "/tmp/cache.db"}).MergeDefaults().DSN()
	if !strings.HasPrefix(sqliteDSN, "file:/tmp/cache.db?") || !strings.Contains(sqliteDSN, "foreign_keys(1)") {
		t.Errorf("unexpected sqlite DSN %q", sqliteDSN)
	}
	if !strings.Contains(sqliteDSN, "busy_timeout(5000)") {
		t.Errorf("expected default busy timeout in %q", sqliteDSN)
	}

	mysqlDSN := (&Config{Driver: DriverMySQL, Host: "db", User: "u", Password: "p", Database: "shop"}).MergeDefaults().DSN()
	if mysqlDSN != "u:p@tcp(db:3306)/shop?charset=utf8mb4&parseTime=True&loc=Local" {
		t.Errorf("unexpected mysql DSN %q", mysqlDSN)
	}
}

type testModel struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")
	database, err := Open(logger.NewNop(), &Config{Path: path, TablePrefix: "t_"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	if err := database.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	if err := database.Migrate(Schema{Name: "test", Models: []any{&testModel{}}}); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	gdb := database.Gorm()
	if !gdb.Migrator().HasTable("t_test_models") {
		t.Error("expected prefixed table t_test_models")
	}

	var fk int
	if err := gdb.Raw("PRAGMA foreign_keys").Scan(&fk).Error; err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	if _, err := Open(logger.NewNop(), &Config{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpen_UncreatableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(logger.NewNop(), &Config{Path: filepath.Join(blocker, "test.db")}); err == nil {
		t.Fatal("expected error when the directory cannot be created")
	}
}

func TestSchemaRegistry(t *testing.T) {
	RegisterSchema(Schema{Name: "registry-test", TablePrefix: "r_", Models: []any{&testModel{}}})

	s, err := LookupSchema("registry-test")
	if err != nil {
		t.Fatalf("LookupSchema failed: %v", err)
	}
	if s.TablePrefix != "r_" || len(s.Models) != 1 {
		t.Errorf("unexpected schema %+v", s)
	}

	_, err = LookupSchema("missing")
	if !errors.Is(err, ErrUnknownSchema) {
		t.Errorf("expected ErrUnknownSchema, got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	RegisterSchema(Schema{Name: "registry-test"})
}

func TestSQLLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	g := &sqlLogger{log: zap.New(core), level: glogger.Warn, slow: time.Millisecond}
	sql := func() (string, int64) { return "SELECT 1", 1 }

	g.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	g.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	g.Trace(context.Background(), time.Now(), sql, nil)
	g.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "sql error" || entries[1].Message != "slow sql" {
		t.Errorf("unexpected messages %q, %q", entries[0].Message, entries[1].Message)
	}

	silent := g.LogMode(glogger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("ignored"))
	if recorded.Len() != 2 {
		t.Error("silent logger should not log")
	}
}
