package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"panchayath_go/config"
	"panchayath_go/database"
	"panchayath_go/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LogArchiveService flushes Redis-cached activity logs into the
// database and ships aged logs to S3 as zipped archives.
type LogArchiveService struct {
	redisClient *redis.Client
	awsConfig   aws.Config
}

// ArchivedLog is the exported representation stored inside archives
type ArchivedLog struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user_id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID uint           `json:"resource_id"`
	Details    map[string]any `json:"details"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`
	Username   string         `json:"username,omitempty"`
	UserRole   string         `json:"user_role,omitempty"`
}

func NewLogArchiveService() *LogArchiveService {
	cfg, err := awscfg.LoadDefaultConfig(context.Background(), awscfg.WithRegion(config.AppConfig.AWSRegion))
	if err != nil {
		logrus.WithError(err).Warn("Failed to load AWS config; S3 operations will fail until configured")
	}

	return &LogArchiveService{
		redisClient: database.GetRedisClient(),
		awsConfig:   cfg,
	}
}

// FlushCachedLogsToDatabase moves aged cached logs from Redis to the database
func (las *LogArchiveService) FlushCachedLogsToDatabase() error {
	if las.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	cutoffTime := time.Now().Add(-24 * time.Hour)

	expiredKeys, err := las.redisClient.ZRangeByScore(ctx, "logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", cutoffTime.Unix()),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to get expired logs: %v", err)
	}

	var processedCount, errorCount int
	for _, logKey := range expiredKeys {
		logData, err := las.redisClient.Get(ctx, logKey).Result()
		if err != nil {
			if err != redis.Nil {
				logrus.WithError(err).Errorf("Failed to get log data for key: %s", logKey)
				errorCount++
			}
			las.redisClient.ZRem(ctx, "logs:queue", logKey)
			continue
		}

		var activityLog models.ActivityLog
		if err := json.Unmarshal([]byte(logData), &activityLog); err != nil {
			logrus.WithError(err).Errorf("Failed to unmarshal log data for key: %s", logKey)
			errorCount++
			continue
		}

		if err := database.DB.Create(&activityLog).Error; err != nil {
			logrus.WithError(err).Error("Failed to save cached log to database")
			errorCount++
			continue
		}

		pipeline := las.redisClient.Pipeline()
		pipeline.Del(ctx, logKey)
		pipeline.ZRem(ctx, "logs:queue", logKey)
		if _, err := pipeline.Exec(ctx); err != nil {
			logrus.WithError(err).Errorf("Failed to remove log from cache: %s", logKey)
		}
		processedCount++
	}

	if processedCount > 0 || errorCount > 0 {
		logrus.Infof("Flushed %d logs to database, %d errors", processedCount, errorCount)
	}
	return nil
}

// ArchiveOldLogs zips logs older than daysOld, uploads the archive to
// S3 and deletes the rows.
func (las *LogArchiveService) ArchiveOldLogs(daysOld int) error {
	if daysOld < 7 {
		return fmt.Errorf("minimum archive age is 7 days")
	}

	cutoffDate := time.Now().AddDate(0, 0, -daysOld)

	batchSize := 1000
	var allLogs []ArchivedLog

	for offset := 0; ; offset += batchSize {
		var logs []models.ActivityLog
		err := database.DB.
			Preload("User").
			Where("created_at < ?", cutoffDate).
			Limit(batchSize).
			Offset(offset).
			Find(&logs).Error
		if err != nil {
			return fmt.Errorf("failed to fetch logs for archiving: %v", err)
		}
		if len(logs) == 0 {
			break
		}

		for _, log := range logs {
			archived := ArchivedLog{
				ID:         log.ID,
				UserID:     log.UserID,
				Action:     log.Action,
				Resource:   log.Resource,
				ResourceID: log.ResourceID,
				IPAddress:  log.IPAddress,
				UserAgent:  log.UserAgent,
				CreatedAt:  log.CreatedAt,
			}
			if len(log.Details) > 0 {
				var details map[string]any
				if err := json.Unmarshal(log.Details, &details); err == nil {
					archived.Details = details
				}
			}
			if log.User.ID > 0 {
				archived.Username = log.User.Username
				archived.UserRole = log.User.Role
			}
			allLogs = append(allLogs, archived)
		}
	}

	if len(allLogs) == 0 {
		return nil
	}
	logrus.Infof("Archiving %d logs older than %s", len(allLogs), cutoffDate.Format("2006-01-02"))

	archiveFileName := fmt.Sprintf("activity_logs_%s.zip", cutoffDate.Format("2006-01-02"))
	zipBuffer, err := las.createZipArchive(allLogs, archiveFileName)
	if err != nil {
		return fmt.Errorf("failed to create ZIP archive: %v", err)
	}

	s3Key := fmt.Sprintf("logs/archived/%d/%02d/%s",
		cutoffDate.Year(),
		cutoffDate.Month(),
		archiveFileName)
	if err := las.uploadToS3(s3Key, zipBuffer); err != nil {
		return fmt.Errorf("failed to upload archive to S3: %v", err)
	}
	logrus.Infof("Uploaded archive to S3: %s", s3Key)

	result := database.DB.Where("created_at < ?", cutoffDate).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete archived logs: %v", result.Error)
	}
	logrus.Infof("Deleted %d archived logs from database", result.RowsAffected)

	archiveMetadata := models.LogArchive{
		FileName:    archiveFileName,
		S3Key:       s3Key,
		StartDate:   allLogs[0].CreatedAt,
		EndDate:     cutoffDate,
		RecordCount: len(allLogs),
		FileSize:    int64(zipBuffer.Len()),
		Status:      "completed",
	}
	if err := database.DB.Create(&archiveMetadata).Error; err != nil {
		logrus.WithError(err).Error("Failed to save archive metadata")
	}

	return nil
}

// createZipArchive packs the logs as JSON plus a flat CSV
func (las *LogArchiveService) createZipArchive(logs []ArchivedLog, fileName string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zipWriter := zip.NewWriter(buf)

	logsFile, err := zipWriter.Create("activity_logs.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create logs file in ZIP: %v", err)
	}
	encoder := json.NewEncoder(logsFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(map[string]any{
		"export_date":    time.Now().UTC(),
		"record_count":   len(logs),
		"format_version": "1.0",
		"logs":           logs,
	}); err != nil {
		return nil, fmt.Errorf("failed to encode logs to JSON: %v", err)
	}

	metadataFile, err := zipWriter.Create("metadata.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata file in ZIP: %v", err)
	}
	if err := json.NewEncoder(metadataFile).Encode(map[string]any{
		"file_name":    fileName,
		"created_at":   time.Now().UTC(),
		"record_count": len(logs),
		"date_range": map[string]any{
			"start": logs[0].CreatedAt,
			"end":   logs[len(logs)-1].CreatedAt,
		},
		"schema_version": "1.0",
		"description":    "Panchayath Management Activity Logs Archive",
	}); err != nil {
		return nil, fmt.Errorf("failed to encode metadata to JSON: %v", err)
	}

	csvFile, err := zipWriter.Create("activity_logs.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file in ZIP: %v", err)
	}
	csvFile.Write([]byte("ID,User ID,Username,Role,Action,Resource,Resource ID,IP Address,User Agent,Created At,Details\n"))
	for _, log := range logs {
		details := ""
		if log.Details != nil {
			if detailsBytes, err := json.Marshal(log.Details); err == nil {
				details = strings.ReplaceAll(string(detailsBytes), "\"", "\"\"")
			}
		}
		csvLine := fmt.Sprintf("%d,%d,%s,%s,%s,%s,%d,%s,%s,%s,\"%s\"\n",
			log.ID,
			log.UserID,
			log.Username,
			log.UserRole,
			log.Action,
			log.Resource,
			log.ResourceID,
			log.IPAddress,
			log.UserAgent,
			log.CreatedAt.Format("2006-01-02 15:04:05"),
			details,
		)
		csvFile.Write([]byte(csvLine))
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close ZIP writer: %v", err)
	}
	return buf, nil
}

func (las *LogArchiveService) uploadToS3(key string, data *bytes.Buffer) error {
	if las.awsConfig.Region == "" {
		return fmt.Errorf("AWS not configured")
	}

	s3Client := s3.NewFromConfig(las.awsConfig)
	bucketName := config.AppConfig.S3BucketName

	_, err := s3Client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      &bucketName,
		Key:         &key,
		Body:        bytes.NewReader(data.Bytes()),
		ContentType: aws.String("application/zip"),
	})
	return err
}

func (las *LogArchiveService) downloadFromS3(key string) (io.ReadCloser, error) {
	if las.awsConfig.Region == "" {
		return nil, fmt.Errorf("AWS not configured")
	}

	s3Client := s3.NewFromConfig(las.awsConfig)
	bucketName := config.AppConfig.S3BucketName

	result, err := s3Client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: &bucketName,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// GetArchivedLogs lists archive metadata, newest first
func (las *LogArchiveService) GetArchivedLogs() ([]models.LogArchive, error) {
	var archives []models.LogArchive
	if err := database.DB.Order("created_at DESC").Find(&archives).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve archived logs: %v", err)
	}
	return archives, nil
}

// DownloadArchivedLogs streams a specific archive back from S3
func (las *LogArchiveService) DownloadArchivedLogs(archiveID uint) (io.ReadCloser, string, error) {
	var archive models.LogArchive
	if err := database.DB.First(&archive, archiveID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", fmt.Errorf("archive not found")
		}
		return nil, "", fmt.Errorf("failed to retrieve archive: %v", err)
	}

	reader, err := las.downloadFromS3(archive.S3Key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download archive from S3: %v", err)
	}
	return reader, archive.FileName, nil
}

// StartLogMaintenanceScheduler flushes cached logs hourly and archives
// logs older than three months once a day.
func (las *LogArchiveService) StartLogMaintenanceScheduler() *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		if err := las.FlushCachedLogsToDatabase(); err != nil {
			logrus.WithError(err).Warn("periodic log flush failed")
		}
	})
	c.AddFunc("30 2 * * *", func() {
		if err := las.ArchiveOldLogs(90); err != nil {
			logrus.WithError(err).Warn("periodic log archive failed")
		}
	})

	c.Start()
	logrus.Info("Log maintenance scheduler started")
	return c
}
