package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"dencare/config"
	appointmentRepo "dencare/database/repository/appointment"
	"dencare/models"
	"dencare/services/realtime"

	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// ReminderQueue is the asynq-backed reminder sink: the reconciler's scan
// enqueues here, the worker delivers.
type ReminderQueue struct {
	client *asynq.Client
}

func NewReminderQueue() *ReminderQueue {
	return &ReminderQueue{client: asynq.NewClient(redisOpts())}
}

// EnqueueReminder queues a reminder send for the appointment.
func (q *ReminderQueue) EnqueueReminder(ctx context.Context, appt models.Appointment) error {
	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}
	task := asynq.NewTask(TypeReminderSend, b)
	if _, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue reminder for %s: %w", appt.ID, err)
	}
	return nil
}

// Close releases the queue's redis connection.
func (q *ReminderQueue) Close() error {
	return q.client.Close()
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(dispatcher *realtime.Dispatcher, appts appointmentRepo.Repository) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(dispatcher, appts))

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(dispatcher *realtime.Dispatcher, appts appointmentRepo.Repository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderWorker] invalid payload: %v", err)
			return err
		}

		appt, err := appts.GetByID(ctx, p.AppointmentID)
		if err != nil {
			// Appointment vanished between scan and delivery; nothing to remind.
			log.Printf("[ReminderWorker] appointment %s not found, dropping reminder", p.AppointmentID)
			return nil
		}
		if appt.Status != models.StatusScheduled {
			return nil
		}

		if err := dispatcher.AppointmentReminder(ctx, appt); err != nil {
			log.Printf("[ReminderWorker] failed to send reminder for %s: %v", p.AppointmentID, err)
			return err
		}
		return nil
	}
}
