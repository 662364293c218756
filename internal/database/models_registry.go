package database

import "flymagine/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Favorite{},
		&models.Like{},
		&models.UserTag{},
		&models.PostTag{},
	}
}
