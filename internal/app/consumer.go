package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/events"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leaveregister"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/messaging/kafka/consumer"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer keeps the leave register in sync with the employee and leave
// lifecycle topics.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	registerRepo := leaveregister.NewRepository(gormDB)
	registerService := leaveregister.NewService(registerRepo, redisClient)

	employeeReader := connection.NewKafkaReader(kafkaBroker, events.EmployeeCreatedTopic, "hrms-leave-register")
	defer employeeReader.Close()

	leaveReader := connection.NewKafkaReader(kafkaBroker, events.LeaveLifecycleTopic, "hrms-leave-register")
	defer leaveReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEmployeeLifecycle(ctx, employeeReader, registerService, logger)
	go consumer.ConsumeLeaveLifecycle(ctx, leaveReader, registerService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
