package services

import (
	"fmt"
	"time"

	"panchayath_go/database"
	"panchayath_go/models"
	"panchayath_go/services/notifications"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderScheduler nudges admins each morning about agents who did not
// submit a daily activity log the previous day.
type ReminderScheduler struct {
	notifier *notifications.Service
}

func NewReminderScheduler() *ReminderScheduler {
	return &ReminderScheduler{notifier: notifications.NewService()}
}

// CheckMissingActivities counts agents with no activity entry for the
// given date and notifies admins when any are missing.
func (rs *ReminderScheduler) CheckMissingActivities(date time.Time) error {
	day := date.Format("2006-01-02")

	var missing int64
	err := database.DB.Model(&models.Agent{}).
		Where("id NOT IN (?)",
			database.DB.Model(&models.DailyActivity{}).
				Select("agent_id").
				Where("activity_date = ?", day),
		).Count(&missing).Error
	if err != nil {
		return fmt.Errorf("failed to count missing activities: %v", err)
	}

	if missing == 0 {
		return nil
	}

	return rs.notifier.NotifyAdmins(
		"Missing Activity Reports",
		fmt.Sprintf("%d agents did not submit an activity report for %s", missing, day),
		"warning",
	)
}

// Start schedules the daily check at 08:00.
func (rs *ReminderScheduler) Start() *cron.Cron {
	c := cron.New()

	c.AddFunc("0 8 * * *", func() {
		yesterday := time.Now().AddDate(0, 0, -1)
		if err := rs.CheckMissingActivities(yesterday); err != nil {
			logrus.WithError(err).Warn("activity reminder check failed")
		}
	})

	c.Start()
	logrus.Info("Activity reminder scheduler started")
	return c
}
