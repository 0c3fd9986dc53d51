package cmd

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anoixa/media-studio/database/models"
)

// migrateCmd 数据库迁移命令
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tools",
	Long:  `Migrate data from one database to another (e.g., SQLite to PostgreSQL).`,
}

// migrateRunCmd 执行迁移命令
var migrateRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run database migration",
	Long: `Run database migration from source to target database.

Examples:
  # Migrate from SQLite to PostgreSQL
  media-studio migrate run --from-sqlite ./data/media-studio.db --to-postgres "host=localhost user=postgres password=secret dbname=mediastudio port=5432"

  # Migrate with overwrite strategy (replace existing data)
  media-studio migrate run --from-sqlite ./data/media-studio.db --to-postgres "..." --on-conflict=overwrite`,
	Run: func(cmd *cobra.Command, args []string) {
		fromSQLite, _ := cmd.Flags().GetString("from-sqlite")
		toPostgres, _ := cmd.Flags().GetString("to-postgres")
		skipConfirm, _ := cmd.Flags().GetBool("yes")
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		onConflict, _ := cmd.Flags().GetString("on-conflict")

		if err := runMigration(fromSQLite, toPostgres, skipConfirm, batchSize, onConflict); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateRunCmd)

	migrateRunCmd.Flags().String("from-sqlite", "", "Source SQLite file path")
	migrateRunCmd.Flags().String("to-postgres", "", "Target PostgreSQL connection string")
	migrateRunCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	migrateRunCmd.Flags().Int("batch-size", 100, "Batch size for data migration")
	migrateRunCmd.Flags().String("on-conflict", "skip", "Conflict resolution strategy: skip (default), overwrite, error")
}

// migrateStats 迁移统计
type migrateStats struct {
	migrated    map[string]int
	skipped     int
	overwritten int
	errors      []string
}

// migrateTable 按表迁移的描述
type migrateTable struct {
	name string
	run  func(ctx context.Context, sourceDB, targetDB *gorm.DB, stats *migrateStats, batchSize int, onConflict string) error
}

// runMigration 执行数据库迁移
func runMigration(fromSQLite, toPostgres string, skipConfirm bool, batchSize int, onConflict string) error {
	if onConflict != "skip" && onConflict != "overwrite" && onConflict != "error" {
		return fmt.Errorf("invalid on-conflict strategy: %s (must be skip, overwrite, or error)", onConflict)
	}
	if fromSQLite == "" || toPostgres == "" {
		return fmt.Errorf("both --from-sqlite and --to-postgres are required")
	}

	log.Printf("Migrating from sqlite to postgres")
	log.Printf("Source: %s", fromSQLite)
	log.Printf("Target: %s", maskDSN(toPostgres))
	log.Printf("Conflict strategy: %s", onConflict)

	sourceDB, err := openMigrationDatabase(sqlite.Open(fromSQLite))
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	sourceSQL, _ := sourceDB.DB()
	defer sourceSQL.Close()

	targetDB, err := openMigrationDatabase(postgres.Open(toPostgres))
	if err != nil {
		return fmt.Errorf("failed to connect to target database: %w", err)
	}
	targetSQL, _ := targetDB.DB()
	defer targetSQL.Close()

	if !skipConfirm {
		fmt.Println("\nWarning: This will migrate all data from source to target database.")
		fmt.Printf("Conflict resolution strategy: %s\n", onConflict)
		fmt.Print("Do you want to continue? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Migration cancelled.")
			return nil
		}
	}

	log.Println("Migrating database schema...")
	if err := targetDB.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.Asset{},
		&models.Draft{},
		&models.Favorite{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	stats := &migrateStats{migrated: make(map[string]int)}
	ctx := context.Background()

	tables := []migrateTable{
		{"users", migrateRows[models.User]},
		{"devices", migrateRows[models.Device]},
		{"assets", migrateRows[models.Asset]},
		{"drafts", migrateRows[models.Draft]},
		{"favorites", migrateRows[models.Favorite]},
	}
	for _, table := range tables {
		log.Printf("Migrating %s...", table.name)
		if err := table.run(ctx, sourceDB, targetDB, stats, batchSize, onConflict); err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf("%s migration failed: %v", table.name, err))
			if onConflict == "error" {
				return err
			}
		}
	}

	printMigrateStats(stats)

	if len(stats.errors) > 0 {
		return fmt.Errorf("migration completed with %d errors", len(stats.errors))
	}

	log.Println("Migration completed successfully!")
	return nil
}

// openMigrationDatabase 打开迁移用数据库连接
func openMigrationDatabase(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// migratableRow 可迁移记录
type migratableRow interface {
	models.User | models.Device | models.Asset | models.Draft | models.Favorite
}

// migrateRows 按批迁移单张表
func migrateRows[T migratableRow](ctx context.Context, sourceDB, targetDB *gorm.DB, stats *migrateStats, batchSize int, onConflict string) error {
	tableName := tableNameOf[T](sourceDB)

	var offset int
	for {
		var rows []T
		if err := sourceDB.WithContext(ctx).Order("id").Limit(batchSize).Offset(offset).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			id := rowID(&row)

			var count int64
			if err := targetDB.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}

			if count > 0 {
				switch onConflict {
				case "skip":
					stats.skipped++
					continue
				case "error":
					return fmt.Errorf("record already exists in %s: id=%v", tableName, id)
				case "overwrite":
					if err := targetDB.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(new(T)).Error; err != nil {
						stats.errors = append(stats.errors, fmt.Sprintf("failed to overwrite %s %v: %v", tableName, id, err))
						continue
					}
					stats.overwritten++
				}
			}

			if err := targetDB.WithContext(ctx).Create(&row).Error; err != nil {
				stats.errors = append(stats.errors, fmt.Sprintf("failed to migrate %s %v: %v", tableName, id, err))
				continue
			}
			stats.migrated[tableName]++
		}

		offset += len(rows)
	}

	log.Printf("Migrated %d %s", stats.migrated[tableName], tableName)
	return nil
}

// tableNameOf 获取模型的表名
func tableNameOf[T migratableRow](db *gorm.DB) string {
	stmt := &gorm.Statement{DB: db}
	_ = stmt.Parse(new(T))
	return stmt.Schema.Table
}

// rowID 获取记录主键，所有模型都内嵌 gorm.Model
func rowID(row interface{}) uint {
	value := reflect.Indirect(reflect.ValueOf(row))
	field := value.FieldByName("ID")
	if !field.IsValid() {
		return 0
	}
	return uint(field.Uint())
}

// printMigrateStats 打印迁移统计
func printMigrateStats(stats *migrateStats) {
	fmt.Println("\n=== Migration Summary ===")
	for table, count := range stats.migrated {
		fmt.Printf("%-14s %d\n", table+":", count)
	}
	fmt.Printf("%-14s %d\n", "skipped:", stats.skipped)
	fmt.Printf("%-14s %d\n", "overwritten:", stats.overwritten)
	if len(stats.errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(stats.errors))
		for _, msg := range stats.errors {
			fmt.Println("  - " + msg)
		}
	}
}

// maskDSN 隐藏DSN中的密码
func maskDSN(dsn string) string {
	parts := strings.Fields(dsn)
	for i, part := range parts {
		if strings.HasPrefix(part, "password=") {
			parts[i] = "password=***"
		}
	}
	return strings.Join(parts, " ")
}
