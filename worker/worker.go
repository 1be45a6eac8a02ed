package main

import (
	"encoding/hex"
	"log/slog"
	"os"

	"laundry-order-system/activities"
	"laundry-order-system/apiclient"
	"laundry-order-system/codec"
	"laundry-order-system/config"
	"laundry-order-system/events"
	"laundry-order-system/notify"
	"laundry-order-system/workflows"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
)

// WorkerVersion is reported at startup
const WorkerVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if cfg.Temporal.Generated {
		logger.Warn("Generated encryption key; set ENCRYPTION_KEY to share it with the starter",
			"key", hex.EncodeToString(cfg.Temporal.EncryptionKey))
	}

	dataConverter, err := codec.NewEncryptionDataConverter(cfg.Temporal.EncryptionKey)
	if err != nil {
		logger.Error("Failed to create encryption data converter", "error", err)
		os.Exit(1)
	}

	c, err := client.Dial(client.Options{
		HostPort:      cfg.Temporal.Address,
		Namespace:     cfg.Temporal.Namespace,
		DataConverter: dataConverter,
		Logger:        tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		logger.Error("Unable to create Temporal client", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	api := apiclient.New(cfg.API.BaseURL, apiclient.WithTimeout(cfg.API.Timeout), apiclient.WithLogger(logger))

	senders := []notify.Sender{notify.NewLogSender(logger)}
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegramSender(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Error("Failed to connect to Telegram", "error", err)
			os.Exit(1)
		}
		senders = append(senders, tg)
	}
	notifier := notify.NewToaster(senders...)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled() {
		kp, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.Topic,
			Username: cfg.Kafka.Username,
			Password: cfg.Kafka.Password,
		})
		if err != nil {
			logger.Error("Failed to create Kafka publisher", "error", err)
			os.Exit(1)
		}
		publisher = kp
	}
	defer publisher.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{
		BuildID:                                cfg.BuildID,
		MaxConcurrentActivityExecutionSize:     100,
		MaxConcurrentWorkflowTaskExecutionSize: 50,
	})

	w.RegisterWorkflow(workflows.OrderWorkflow)
	w.RegisterWorkflow(workflows.PaymentWorkflow)

	orderActivities := activities.NewActivities(api, notifier, publisher)
	w.RegisterActivity(orderActivities.LoadProducts)
	w.RegisterActivity(orderActivities.CreateOrder)
	w.RegisterActivity(orderActivities.FetchOrder)
	w.RegisterActivity(orderActivities.UpdateOrderStatus)
	w.RegisterActivity(orderActivities.RevertOrderStatus)
	w.RegisterActivity(orderActivities.CompleteWashing)
	w.RegisterActivity(orderActivities.AddOrderItem)
	w.RegisterActivity(orderActivities.UpdateOrderItem)
	w.RegisterActivity(orderActivities.CompleteWashingOrderItem)
	w.RegisterActivity(orderActivities.AddDeliveryData)
	w.RegisterActivity(orderActivities.NotifyStaff)
	w.RegisterActivity(orderActivities.PublishOrderEvent)

	paymentActivities := activities.NewPaymentActivities(api)
	w.RegisterActivity(paymentActivities.ReconcilePayment)
	w.RegisterActivity(paymentActivities.ConfirmDelivery)

	logger.Info("Starting Temporal worker",
		"version", WorkerVersion,
		"build_id", cfg.BuildID,
		"temporal_address", cfg.Temporal.Address,
		"namespace", cfg.Temporal.Namespace,
		"task_queue", cfg.Temporal.TaskQueue,
		"api_base_url", cfg.API.BaseURL,
		"kafka", cfg.Kafka.Enabled(),
		"telegram", cfg.Telegram.Enabled(),
	)

	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}
}
