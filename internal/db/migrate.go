package db

import (
	"github.com/lib/pq"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.PasswordReset{},
		&model.Track{},
		&model.Comment{},
		&model.Reaction{},
		&model.Flag{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedTracks(); err != nil {
		logger.Error("Failed to seed tracks", err)
		return err
	}

	logger.Info("Initial data seeded")
	return nil
}

// seedTracks loads the artist's catalog once; reruns are no-ops.
func seedTracks() error {
	var count int64
	if err := DB.Model(&model.Track{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Tracks already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	tracks := []model.Track{
		{Title: "Blazing Through Space", URL: "/audio/Blazing Through Space.mp3", Genres: pq.StringArray{"electronic", "synthwave"}},
		{Title: "Lucid", URL: "/audio/Lucid.mp3", Genres: pq.StringArray{"electronic", "ambient"}},
		{Title: "Static", URL: "/audio/Static.mp3", Genres: pq.StringArray{"electronic"}},
		{Title: "HappiErr", URL: "/audio/HappiErr.mp3", Genres: pq.StringArray{"electronic", "glitch"}},
		{Title: "Amped", URL: "/audio/Amped.mp3", Genres: pq.StringArray{"electronic", "dance"}},
		{Title: "Powered Up", URL: "/audio/Powered Up.m4a", Genres: pq.StringArray{"electronic", "chiptune"}},
		{Title: "Artificial Reality", URL: "/audio/Artificial Reality.mp3", Genres: pq.StringArray{"electronic", "synthwave"}},
		{Title: "Icy Apex", URL: "/audio/Icy Apex.m4a", Genres: pq.StringArray{"electronic", "ambient"}},
		{Title: "Funky Times in the Sewers", URL: "/audio/Funky Times in the Sewers.m4a", Genres: pq.StringArray{"electronic", "funk"}},
		{Title: "Chasing Vapor", URL: "/audio/Chasing Vapor.m4a", Genres: pq.StringArray{"electronic", "vaporwave"}},
		{Title: "Roar", URL: "/audio/Roar.mp3", Genres: pq.StringArray{"electronic"}},
	}

	for i := range tracks {
		tracks[i].Artist = "sofaspartan"
		tracks[i].Position = i + 1
		if err := DB.Create(&tracks[i]).Error; err != nil {
			logger.Error("Failed to create track", err, map[string]interface{}{
				"title": tracks[i].Title,
			})
			return err
		}
	}

	logger.Info("Tracks seeded", map[string]interface{}{
		"total_tracks": len(tracks),
	})
	return nil
}
