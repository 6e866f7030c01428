package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/baesapp/arcade_api/model"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "arcade_api"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}
		timezone := os.Getenv("DB_TIMEZONE")
		if timezone == "" {
			timezone = "UTC"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	models := []interface{}{
		&model.Game{},
		&model.Comment{},
		&model.RatingSession{},
		&model.Rating{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *PostgresService) Shutdown() {
	if ds.db != nil {
		if sqlDB, err := ds.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "relation") && strings.Contains(err.Error(), "does not exist") {
			statusCode = http.StatusInternalServerError
			errorType = "SCHEMA_ERROR"
		} else if strings.Contains(err.Error(), "connection refused") {
			statusCode = http.StatusServiceUnavailable
			errorType = "DATABASE_CONNECTION_ERROR"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}

// ==================== GAMES ====================

func (ds *PostgresService) ListGames(category string, includeInactive bool) ([]model.Game, error) {
	var games []model.Game
	q := ds.db.Order("created_at DESC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&games).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return games, nil
}

func (ds *PostgresService) SearchGames(query string) ([]model.Game, error) {
	var games []model.Game
	pattern := "%" + query + "%"
	err := ds.db.Where("is_active = ?", true).
		Where("title ILIKE ? OR description ILIKE ? OR source ILIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&games).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return games, nil
}

func (ds *PostgresService) GetGameBySlug(slug string) (*model.Game, error) {
	var game model.Game
	if err := ds.db.Where("slug = ?", slug).First(&game).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &game, nil
}

func (ds *PostgresService) GetGameByID(id string) (*model.Game, error) {
	var game model.Game
	if err := ds.db.Where("id = ?", id).First(&game).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &game, nil
}

func (ds *PostgresService) CreateGame(game *model.Game) (*model.Game, error) {
	id, _ := uuid.NewV7()
	game.ID = id.String()
	if err := ds.db.Create(game).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return game, nil
}

func (ds *PostgresService) UpdateGame(game *model.Game) (*model.Game, error) {
	if err := ds.db.Save(game).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return game, nil
}

func (ds *PostgresService) DeleteGame(id string) error {
	res := ds.db.Where("id = ?", id).Delete(&model.Game{})
	if res.Error != nil {
		return ds.HandleError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ds.HandleError(gorm.ErrRecordNotFound)
	}
	return nil
}

// IncrementGamePlays bumps the play counter atomically and returns the
// new count.
func (ds *PostgresService) IncrementGamePlays(slug string) (*model.Game, error) {
	res := ds.db.Model(&model.Game{}).
		Where("slug = ? AND is_active = ?", slug, true).
		UpdateColumn("plays", gorm.Expr("plays + 1"))
	if res.Error != nil {
		return nil, ds.HandleError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ds.HandleError(gorm.ErrRecordNotFound)
	}
	return ds.GetGameBySlug(slug)
}

// ==================== COMMENTS ====================

func (ds *PostgresService) ListComments(gameID string) ([]model.Comment, error) {
	var comments []model.Comment
	if err := ds.db.Where("game_id = ?", gameID).Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return comments, nil
}

func (ds *PostgresService) GetComment(id string) (*model.Comment, error) {
	var comment model.Comment
	if err := ds.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &comment, nil
}

func (ds *PostgresService) CreateComment(comment *model.Comment) (*model.Comment, error) {
	id, _ := uuid.NewV7()
	comment.ID = id.String()
	if err := ds.db.Create(comment).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return comment, nil
}

func (ds *PostgresService) UpdateComment(comment *model.Comment) (*model.Comment, error) {
	if err := ds.db.Save(comment).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return comment, nil
}

func (ds *PostgresService) DeleteComment(id string) error {
	if err := ds.db.Where("id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ==================== RATINGS ====================

func (ds *PostgresService) EnsureRatingSession(sessionID string) error {
	session := model.RatingSession{ID: sessionID}
	if err := ds.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&session).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// UpsertRating records one rating per (game, session) pair, replacing
// any previous value from the same session.
func (ds *PostgresService) UpsertRating(rating *model.Rating) (*model.Rating, error) {
	id, _ := uuid.NewV7()
	rating.ID = id.String()
	err := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return rating, nil
}

func (ds *PostgresService) GetRating(gameID, sessionID string) (*model.Rating, error) {
	var rating model.Rating
	if err := ds.db.Where("game_id = ? AND session_id = ?", gameID, sessionID).First(&rating).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &rating, nil
}

// RecomputeGameRating refreshes the denormalized aggregates on the
// game row from the ratings table.
func (ds *PostgresService) RecomputeGameRating(gameID string) (*model.Game, error) {
	var agg struct {
		Avg   float64
		Count int
	}
	err := ds.db.Model(&model.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("game_id = ?", gameID).
		Scan(&agg).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}

	err = ds.db.Model(&model.Game{}).Where("id = ?", gameID).Updates(map[string]interface{}{
		"average_rating": agg.Avg,
		"total_ratings":  agg.Count,
	}).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}

	return ds.GetGameByID(gameID)
}
