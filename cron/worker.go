package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"frontdesk/config"
	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"
	"frontdesk/services/tasks"
	"frontdesk/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(appts appointmentRepo.AppointmentRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(appts))

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(appts appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var payload models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("reminder payload unmarshal failed", zap.Error(err))
			return err
		}

		// Cancellation keeps the scheduled task around; skip it here instead.
		appt, err := appts.GetByID(ctx, payload.AppointmentID)
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			logger.Warn("reminder for unknown appointment", zap.String("appointmentId", payload.AppointmentID))
			return nil
		}
		if err != nil {
			return err
		}
		if appt.Status != models.AppointmentConfirmed {
			logger.Info("skipping reminder for cancelled appointment",
				zap.String("appointmentId", payload.AppointmentID))
			return nil
		}

		// Delivery goes through the outbound calling stack, which is a
		// separate collaborator; this worker records that the reminder is due.
		logger.Info("appointment reminder due",
			zap.String("appointmentId", payload.AppointmentID),
			zap.String("callerName", payload.CallerName),
			zap.String("phoneNumber", payload.PhoneNumber),
			zap.String("date", payload.Date),
			zap.String("time", payload.Time),
		)
		return nil
	}
}
