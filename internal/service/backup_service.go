package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"nareo/internal/database"
	"nareo/internal/logger"
	"nareo/internal/models"
	"nareo/internal/repository"
)

// BackupVersion is the format version written by Export
const BackupVersion = "1.0"

// BackupData represents the complete study data backup structure
type BackupData struct {
	Version      string                       `json:"version"`
	ExportedAt   time.Time                    `json:"exported_at"`
	DatabaseType string                       `json:"database_type"`
	Profiles     []models.Profile             `json:"profiles"`
	Items        []models.ReviewableItem      `json:"items"`
	Activity     []models.DailyActivityRecord `json:"activity"`
}

// BackupService exports and restores study data independently of the
// database engine
type BackupService struct {
	db  *database.DB
	log *logger.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, log *logger.Logger) *BackupService {
	return &BackupService{db: db, log: log}
}

// Export writes a complete backup to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) (*BackupData, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return nil, err
	}
	s.log.Info("Database exported",
		"path", outputPath,
		"profiles", len(backup.Profiles),
		"items", len(backup.Items),
		"activity_days", len(backup.Activity))
	return backup, nil
}

// ExportToWriter encodes a complete backup as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (*BackupData, error) {
	backup, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return backup, nil
}

func (s *BackupService) collect(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
		Items:        []models.ReviewableItem{},
		Activity:     []models.DailyActivityRecord{},
	}

	profiles, err := repository.NewProfileRepository(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export profiles: %w", err)
	}
	backup.Profiles = profiles

	items := repository.NewItemRepository(s.db)
	activity := repository.NewActivityRepository(s.db)
	for _, p := range profiles {
		userItems, err := items.ListByUser(ctx, p.UserID, true)
		if err != nil {
			return nil, fmt.Errorf("failed to export items: %w", err)
		}
		backup.Items = append(backup.Items, userItems...)

		days, err := activity.ListRange(ctx, p.UserID, "0000-01-01", "9999-12-31")
		if err != nil {
			return nil, fmt.Errorf("failed to export activity: %w", err)
		}
		backup.Activity = append(backup.Activity, days...)
	}
	return backup, nil
}

// Import restores study data from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores study data from a backup reader. Every user
// present in the backup is replaced as a whole; other users are untouched.
// The import runs in a single transaction.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	s.log.Info("Importing backup", "version", backup.Version, "exported_at", backup.ExportedAt)

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		profiles := repository.NewProfileRepository(tx)
		items := repository.NewItemRepository(tx)
		activity := repository.NewActivityRepository(tx)

		users := map[string]bool{}
		for _, p := range backup.Profiles {
			users[p.UserID] = true
		}
		for _, it := range backup.Items {
			users[it.UserID] = true
		}
		for userID := range users {
			if _, err := items.DeleteByUser(ctx, userID); err != nil {
				return err
			}
		}

		for i := range backup.Profiles {
			if err := profiles.Restore(ctx, &backup.Profiles[i]); err != nil {
				return err
			}
		}
		for i := range backup.Items {
			if err := items.Create(ctx, &backup.Items[i]); err != nil {
				return fmt.Errorf("item %s: %w", backup.Items[i].ID, err)
			}
		}
		for i := range backup.Activity {
			if err := activity.Restore(ctx, &backup.Activity[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}

	s.log.Info("Database import completed",
		"profiles", len(backup.Profiles),
		"items", len(backup.Items),
		"activity_days", len(backup.Activity))
	return nil
}
