package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/handlers"
	"github.com/authcore/authcore/internal/middleware"
	"github.com/authcore/authcore/internal/notification"
	"github.com/authcore/authcore/internal/repository"
	"github.com/authcore/authcore/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dynamoClient, err := initDynamoDB(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize DynamoDB")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	mailer := initMailer(cfg, logger)

	accountRepo := repository.NewAccountRepository(dynamoClient, cfg.DynamoDB.TableName, logger)

	credService := service.NewCredentialService()
	tokenService, err := service.NewTokenService(&cfg.JWT, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize token service")
	}
	sessionService := service.NewSessionService(redisClient, logger)
	otpService := service.NewOTPService(accountRepo, credService, mailer, &cfg.OTP, logger)
	authService := service.NewAuthService(accountRepo, credService, mailer, logger)

	authHandlers := handlers.NewAuthHandlers(authService, otpService, tokenService, sessionService, &cfg.Server, logger)
	userHandlers := handlers.NewUserHandlers(authService, logger)
	authMiddleware := middleware.NewAuthMiddleware(tokenService, sessionService, logger)

	router := handlers.NewRouter(authHandlers, userHandlers, authMiddleware, cfg.CORS.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func initDynamoDB(cfg *config.Config, logger *logrus.Logger) (*dynamodb.Client, error) {
	var awsCfg aws.Config
	var err error

	if cfg.DynamoDB.Endpoint != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.DynamoDB.Region),
			awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:           cfg.DynamoDB.Endpoint,
						SigningRegion: cfg.DynamoDB.Region,
					}, nil
				})),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO())
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg)
	logger.Info("DynamoDB client initialized")
	return client, nil
}

func initMailer(cfg *config.Config, logger *logrus.Logger) notification.Mailer {
	if cfg.Email.Sender == "" {
		logger.Warn("SENDER_EMAIL not set, outgoing mail will be logged only")
		return notification.NewLogMailer(logger)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Email.Region),
	)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load AWS config for SES")
	}

	logger.WithField("sender", cfg.Email.Sender).Info("SES mailer initialized")
	return notification.NewSESMailer(sesv2.NewFromConfig(awsCfg), cfg.Email.Sender, logger)
}
