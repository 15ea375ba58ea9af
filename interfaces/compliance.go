package interfaces

import (
	"cfb-pickem/database"
	"cfb-pickem/services"
)

// Interface compliance checks - these will fail to compile if implementations drift
var (
	// Services
	_ GameCatalog        = (*services.GameCatalog)(nil)
	_ PredictionService  = (*services.PredictionService)(nil)
	_ LeaderboardService = (*services.LeaderboardService)(nil)
	_ AchievementService = (*services.AchievementService)(nil)
	_ Refresher          = (*services.DataLoader)(nil)
	_ AuthService        = (*services.AuthService)(nil)

	// Feeds
	_ services.Feed = (*services.ESPNService)(nil)
	_ services.Feed = (*services.RetryingFeed)(nil)
	_ services.Feed = (*services.CachedFeed)(nil)
	_ services.Feed = (*services.StaticFeed)(nil)

	// In-memory storage
	_ database.GameRepository        = (*database.MemoryStore)(nil)
	_ database.PredictionRepository  = (*database.MemoryStore)(nil)
	_ database.AchievementRepository = (*database.MemoryStore)(nil)
	_ database.UserRepository        = (*database.MemoryStore)(nil)

	// MongoDB storage
	_ database.GameRepository        = (*database.MongoGameRepository)(nil)
	_ database.PredictionRepository  = (*database.MongoPredictionRepository)(nil)
	_ database.AchievementRepository = (*database.MongoAchievementRepository)(nil)
	_ database.UserRepository        = (*database.MongoUserRepository)(nil)

	// PostgreSQL storage
	_ database.GameRepository        = (*database.PostgresGameRepository)(nil)
	_ database.PredictionRepository  = (*database.PostgresPredictionRepository)(nil)
	_ database.AchievementRepository = (*database.PostgresAchievementRepository)(nil)
	_ database.UserRepository        = (*database.PostgresUserRepository)(nil)
)
