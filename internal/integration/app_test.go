package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyurekten/theatre-ticketing-system/internal/app"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/oyurekten/theatre-ticketing-system/internal/mailer"
	"github.com/oyurekten/theatre-ticketing-system/internal/payment"
	"github.com/oyurekten/theatre-ticketing-system/internal/repository"
	appvalidator "github.com/oyurekten/theatre-ticketing-system/internal/validator"
	"github.com/redis/go-redis/v9"
)

// TestApp exposes the repositories next to the HTTP surface so property
// tests can drive the transactional layer directly.
type TestApp struct {
	App    *app.Application
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Mailer *mailer.MockMailer

	UserRepo        domain.UserRepository
	ScreeningRepo   domain.ScreeningRepository
	ReservationRepo domain.ReservationRepository
	BookingRepo     domain.BookingRepository
	PaymentRepo     domain.PaymentRepository
	TicketRepo      domain.TicketRepository
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	userRepo := repository.NewPostgresUserRepository(db)
	movieRepo := repository.NewPostgresMovieRepository(db)
	auditoriumRepo := repository.NewPostgresAuditoriumRepository(db)
	screeningRepo := repository.NewPostgresScreeningRepository(db)
	reservationRepo := repository.NewPostgresReservationRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)
	paymentRepo := repository.NewPostgresPaymentRepository(db)
	ticketRepo := repository.NewPostgresTicketRepository(db)

	paymentProvider := payment.NewMockPaymentProvider(cfg.Currency)

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mockMailer,
		userRepo,
		movieRepo,
		auditoriumRepo,
		screeningRepo,
		reservationRepo,
		bookingRepo,
		paymentRepo,
		ticketRepo,
		paymentProvider,
	)

	return &TestApp{
		App:             application,
		DB:              db,
		Redis:           redisClient,
		Mailer:          mockMailer,
		UserRepo:        userRepo,
		ScreeningRepo:   screeningRepo,
		ReservationRepo: reservationRepo,
		BookingRepo:     bookingRepo,
		PaymentRepo:     paymentRepo,
		TicketRepo:      ticketRepo,
	}, nil
}
