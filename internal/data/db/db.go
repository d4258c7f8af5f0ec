package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DetectDialect picks postgres for URL or key=value DSNs and sqlite for file
// paths, "file:" URIs and ":memory:".
func DetectDialect(dsn string) Dialect {
	d := strings.TrimSpace(dsn)
	lower := strings.ToLower(d)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres
	case strings.HasPrefix(lower, "sqlite://"), strings.HasPrefix(lower, "sqlite:"), strings.HasPrefix(lower, "file:"):
		return DialectSQLite
	case lower == ":memory:", strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return DialectSQLite
	case strings.Contains(lower, "host=") || strings.Contains(lower, "dbname="):
		return DialectPostgres
	default:
		return DialectSQLite
	}
}

func sqlitePath(dsn string) string {
	d := strings.TrimSpace(dsn)
	for _, p := range []string{"sqlite://", "sqlite:"} {
		if strings.HasPrefix(strings.ToLower(d), p) {
			return d[len(p):]
		}
	}
	return d
}

type Service struct {
	db      *gorm.DB
	dialect Dialect
	log     *logger.Logger
}

func Open(dsn string, logg *logger.Logger, slowThreshold time.Duration) (*Service, error) {
	serviceLog := logg.With("service", "DatabaseService")
	if slowThreshold <= 0 {
		slowThreshold = time.Second
	}
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	dialect := DetectDialect(dsn)
	var (
		conn *gorm.DB
		err  error
	)
	switch dialect {
	case DialectPostgres:
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
	default:
		conn, err = gorm.Open(sqlite.Open(sqlitePath(dsn)), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}
	serviceLog.Info("database connected", "dialect", string(dialect))
	return &Service{db: conn, dialect: dialect, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Dialect() Dialect { return s.dialect }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
