package database

import "epicfails/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Bookmark{},
		&models.Comment{},
		&models.Duel{},
		&models.Report{},
	}
}
