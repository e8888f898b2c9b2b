package database

import (
	_ "embed"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bruecksen/publications/internal/entities"
)

//go:embed default_types.yaml
var defaultTypesYAML []byte

// typeSpec is one entry of a type-table YAML file.
type typeSpec struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BibtexTypes string `yaml:"bibtex_types"`
	Hidden      bool   `yaml:"hidden"`
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the sqlite store, migrates the schema and, if the type
// table is empty, seeds it from typesPath (or the built-in table when
// typesPath is empty).
func NewDatabase(dbPath, typesPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Type{},
		&entities.Publication{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedTypes(typesPath); err != nil {
		return nil, fmt.Errorf("failed to seed publication types: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// seedTypes fills an empty type table. An existing table is left alone so
// deployments can edit their types without having them recreated.
func (d *Database) seedTypes(typesPath string) error {
	var count int64
	if err := d.DB.Model(&entities.Type{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	data := defaultTypesYAML
	if typesPath != "" {
		fileData, err := os.ReadFile(typesPath)
		if err != nil {
			return fmt.Errorf("failed to read type table %s: %w", typesPath, err)
		}
		data = fileData
	}

	var specs []typeSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return fmt.Errorf("failed to parse type table: %w", err)
	}

	for i, spec := range specs {
		t := entities.Type{
			Order:       i,
			Title:       spec.Title,
			Description: spec.Description,
			BibtexTypes: spec.BibtexTypes,
			Hidden:      spec.Hidden,
		}
		if err := d.DB.Create(&t).Error; err != nil {
			return fmt.Errorf("failed to create type %s: %w", spec.Title, err)
		}
		log.Printf("Created publication type: %s", spec.Title)
	}
	return nil
}
