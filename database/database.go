package database

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"cracker/config"
	"cracker/models"
	"cracker/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection, migrates the models and seeds a
// genesis block if the contest has never been started
func InitDB() {
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable TimeZone=UTC",
		config.PostgresHost, config.PostgresPort, config.PostgresUser, config.PostgresDB, config.PostgresPassword)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("failed to migrate database: ", err)
	}

	Populate()
}

// Migrate runs the schema migration for every engine-owned model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Block{},
		&models.Attempt{},
		&models.CPBalance{},
	)
}

// Populate seeds the genesis block when the blocks table is empty, so a fresh
// deployment is immediately playable without waiting for the block generator
func Populate() {
	var countBlocks int64
	DB.Model(&models.Block{}).Count(&countBlocks)
	if countBlocks > 0 {
		return
	}

	length, kinds := config.Game.DifficultyFor(0)
	secret, err := utils.GenerateSecret(length, kinds)
	if err != nil {
		log.Fatal("failed to generate genesis secret: ", err)
	}

	genesis := models.Block{
		Status:            models.BlockStatusActive,
		Secret:            secret,
		Length:            length,
		Charsets:          strings.Join(kinds, ","),
		AccumulatedPoints: config.Game.BasePot,
	}
	if err := DB.Create(&genesis).Error; err != nil {
		// another instance seeded the genesis block first
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return
		}
		log.Fatal("failed to create genesis block: ", err)
	}
	log.Printf("Genesis block #%d created (length=%d charsets=%s)", genesis.ID, length, genesis.Charsets)
}
