package db

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/go-sql-driver/mysql"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	TypeSQLite   = "sqlite"
	TypeMySQL    = "mysql"
	TypePostgres = "postgres"

	sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
)

// Open 根据配置建立数据库连接、配置连接池并同步表结构。
func Open(cfg *config.Config) (*gorm.DB, error) {
	dbType, dialector, err := buildDialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取 sql.DB: %w", err)
	}

	if dbType == TypeSQLite {
		// SQLite 建议单连接写
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(10)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	log.Printf("✅ 数据库(%s)连接成功，表结构已同步", dbType)
	return gdb, nil
}

// Migrate 同步所有模型的表结构
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.User{},
		&model.Post{},
	)
}

func buildDialector(dbCfg config.DatabaseConfig) (string, gorm.Dialector, error) {
	if strings.TrimSpace(dbCfg.URL) != "" {
		dbType, dsn, err := parseDatabaseURL(strings.TrimSpace(dbCfg.URL))
		if err != nil {
			return "", nil, err
		}
		return dbType, openDialector(dbType, dsn), nil
	}

	switch dbCfg.Type {
	case TypeMySQL:
		mc := mysql.NewConfig()
		mc.User = dbCfg.User
		mc.Passwd = dbCfg.Password
		mc.Net = "tcp"
		mc.Addr = dbCfg.Host + ":" + dbCfg.Port
		mc.DBName = dbCfg.Name
		mc.ParseTime = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		if dbCfg.SSL {
			mc.TLSConfig = "true"
		}
		return TypeMySQL, mysqldriver.Open(mc.FormatDSN()), nil
	case TypePostgres:
		sslMode := "disable"
		if dbCfg.SSL {
			sslMode = "require"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			dbCfg.Host,
			dbCfg.User,
			dbCfg.Password,
			dbCfg.Name,
			dbCfg.Port,
			sslMode,
		)
		return TypePostgres, postgres.Open(dsn), nil
	case TypeSQLite, "":
		dsn, err := sqliteDSN(dbCfg.Filename)
		if err != nil {
			return "", nil, err
		}
		return TypeSQLite, sqlite.Open(dsn), nil
	default:
		return "", nil, fmt.Errorf("不支持的数据库类型: %s", dbCfg.Type)
	}
}

func openDialector(dbType, dsn string) gorm.Dialector {
	switch dbType {
	case TypeMySQL:
		return mysqldriver.Open(dsn)
	case TypePostgres:
		return postgres.Open(dsn)
	default:
		return sqlite.Open(dsn)
	}
}

// parseDatabaseURL 将连接串转换为对应驱动可接受的 DSN。
// 支持 postgres://、postgresql://、mysql://、sqlite://。
func parseDatabaseURL(raw string) (string, string, error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return TypePostgres, raw, nil
	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := mysqlURLToDSN(raw)
		if err != nil {
			return "", "", err
		}
		return TypeMySQL, dsn, nil
	case strings.HasPrefix(raw, "sqlite://"):
		dsn, err := sqliteDSN(strings.TrimPrefix(raw, "sqlite://"))
		if err != nil {
			return "", "", err
		}
		return TypeSQLite, dsn, nil
	default:
		return "", "", errors.New("无法识别的数据库连接串，仅支持 postgres://、mysql://、sqlite://")
	}
}

func mysqlURLToDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("解析 MySQL 连接串失败: %w", err)
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = u.Host
	if u.Port() == "" {
		mc.Addr = u.Hostname() + ":3306"
	}
	if u.User != nil {
		mc.User = u.User.Username()
		mc.Passwd, _ = u.User.Password()
	}
	mc.DBName = strings.TrimPrefix(u.Path, "/")
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		if key == "tls" {
			mc.TLSConfig = values[0]
			continue
		}
		mc.Params[key] = values[0]
	}

	return mc.FormatDSN(), nil
}

func sqliteDSN(filename string) (string, error) {
	if filename == "" {
		return "", errors.New("未配置 SQLite 数据库文件")
	}
	if filename == ":memory:" || strings.HasPrefix(filename, "file:") {
		return filename, nil
	}

	// 自动创建数据库目录
	dbDir := filepath.Dir(filename)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", fmt.Errorf("无法创建数据库目录 '%s': %w", dbDir, err)
	}

	return filename + "?" + sqlitePragmas, nil
}
