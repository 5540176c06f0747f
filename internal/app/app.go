package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxstd "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/oyurekten/theatre-ticketing-system/internal/mailer"
	"github.com/oyurekten/theatre-ticketing-system/internal/payment"
	"github.com/oyurekten/theatre-ticketing-system/internal/repository"
	appvalidator "github.com/oyurekten/theatre-ticketing-system/internal/validator"
	"github.com/oyurekten/theatre-ticketing-system/internal/vcs"
	"github.com/oyurekten/theatre-ticketing-system/migrations"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate
	mailer    mailer.Mailer
	wg        sync.WaitGroup

	userRepo        domain.UserRepository
	movieRepo       domain.MovieRepository
	auditoriumRepo  domain.AuditoriumRepository
	screeningRepo   domain.ScreeningRepository
	reservationRepo domain.ReservationRepository
	bookingRepo     domain.BookingRepository
	paymentRepo     domain.PaymentRepository
	ticketRepo      domain.TicketRepository

	paymentProvider domain.PaymentProvider
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	Currency         string

	DB struct {
		Dsn          string
		MaxOpenConns int
		MaxIdleTime  time.Duration
		AutoMigrate  bool
	}
	Redis struct {
		Url          string
		MaxOpenConns int
		MaxIdleConns int
		MaxIdleTime  time.Duration
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		Sender   string
	}
	Stripe struct {
		SecretKey  string
		SuccessUrl string
		FailureUrl string
		Enabled    bool
	}
	Jwt struct {
		Secret string
		Expiry time.Duration
	}
	Booking struct {
		HoldDuration  time.Duration
		SweepInterval time.Duration
	}
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	mailer mailer.Mailer,
	userRepo domain.UserRepository,
	movieRepo domain.MovieRepository,
	auditoriumRepo domain.AuditoriumRepository,
	screeningRepo domain.ScreeningRepository,
	reservationRepo domain.ReservationRepository,
	bookingRepo domain.BookingRepository,
	paymentRepo domain.PaymentRepository,
	ticketRepo domain.TicketRepository,
	paymentProvider domain.PaymentProvider,
) *Application {
	return &Application{
		config:          cfg,
		logger:          logger,
		db:              db,
		redis:           redisClient,
		validator:       validator,
		mailer:          mailer,
		userRepo:        userRepo,
		movieRepo:       movieRepo,
		auditoriumRepo:  auditoriumRepo,
		screeningRepo:   screeningRepo,
		reservationRepo: reservationRepo,
		bookingRepo:     bookingRepo,
		paymentRepo:     paymentRepo,
		ticketRepo:      ticketRepo,
		paymentProvider: paymentProvider,
	}
}

func Run() error {
	// missing .env is fine, flags and real env vars still apply
	_ = godotenv.Load()

	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", os.Getenv("OTEL_COLLECTOR_URL"), "OpenTelemetry collector URL")
	flag.StringVar(&cfg.Currency, "currency", "USD", "Payment currency")

	flag.StringVar(&cfg.DB.Dsn, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")
	flag.BoolVar(&cfg.DB.AutoMigrate, "db-auto-migrate", true, "Apply database migrations on startup")

	flag.StringVar(&cfg.Redis.Url, "redis-url", os.Getenv("REDIS_URL"), "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.Smtp.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.Smtp.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.Smtp.Username, "smtp-username", os.Getenv("SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.Smtp.Password, "smtp-password", os.Getenv("SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.Smtp.Sender, "smtp-sender", "Theatre <no-reply@theatre.oyurekten.net>", "SMTP sender")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", os.Getenv("STRIPE_SECRET_KEY"), "Stripe secret key")
	flag.StringVar(&cfg.Stripe.SuccessUrl, "stripe-success-url", "https://example.com/success.html", "Stripe payment success page")
	flag.StringVar(&cfg.Stripe.FailureUrl, "stripe-failure-url", "https://example.com/failure.html", "Stripe payment failure page")
	flag.BoolVar(&cfg.Stripe.Enabled, "stripe-enabled", false, "Use Stripe as the payment provider")

	flag.StringVar(&cfg.Jwt.Secret, "jwt-secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	flag.DurationVar(&cfg.Jwt.Expiry, "jwt-expiry", 24*time.Hour, "JWT token lifetime")

	flag.DurationVar(&cfg.Booking.HoldDuration, "booking-hold-duration", 10*time.Minute, "How long a pending booking holds its seats")
	flag.DurationVar(&cfg.Booking.SweepInterval, "booking-sweep-interval", time.Minute, "How often expired seat holds are reclaimed")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	stripe.Key = cfg.Stripe.SecretKey

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	validator := appvalidator.NewValidator()

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		err = ApplyMigrations(cfg.DB.Dsn)
		if err != nil {
			return err
		}
	}

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var provider domain.PaymentProvider = payment.NewMockPaymentProvider(cfg.Currency)
	if cfg.Stripe.Enabled {
		provider = payment.NewStripePaymentProvider(cfg.Stripe.SuccessUrl, cfg.Stripe.FailureUrl, cfg.Currency)
	}

	app := NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mailer.NewSMTPMailer(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.Sender),
		repository.NewPostgresUserRepository(db),
		repository.NewPostgresMovieRepository(db),
		repository.NewPostgresAuditoriumRepository(db),
		repository.NewPostgresScreeningRepository(db),
		repository.NewPostgresReservationRepository(db),
		repository.NewPostgresBookingRepository(db),
		repository.NewPostgresPaymentRepository(db),
		repository.NewPostgresTicketRepository(db),
		provider,
	)

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.run()
}

func ApplyMigrations(dsn string) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return err
	}

	db := pgxstd.OpenDB(*config)
	defer db.Close()

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.Url,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.Dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	app.startExpirySweeper(sweeperCtx)

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
			return
		}

		stopSweeper()
		app.wg.Wait()

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		stopSweeper()
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
