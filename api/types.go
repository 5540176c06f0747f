// Package api holds the request and response types of the HTTP surface.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type RegisterRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,password"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,min=7,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type CreateMovieRequest struct {
	Title           string    `json:"title" validate:"required,max=255"`
	Synopsis        string    `json:"synopsis" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,gt=0"`
	Genre           string    `json:"genre" validate:"required"`
	Language        string    `json:"language" validate:"required"`
	Rating          string    `json:"rating"`
	PosterUrl       string    `json:"posterUrl" validate:"omitempty,url"`
	ReleaseDate     time.Time `json:"releaseDate" validate:"required"`
}

type MovieResponse struct {
	Id              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Synopsis        string    `json:"synopsis"`
	DurationMinutes int       `json:"durationMinutes"`
	Genre           string    `json:"genre"`
	Language        string    `json:"language"`
	Rating          string    `json:"rating"`
	PosterUrl       string    `json:"posterUrl"`
	ReleaseDate     time.Time `json:"releaseDate"`
}

type MovieListResponse struct {
	Movies []MovieResponse `json:"movies"`
}

type CreateScreeningRequest struct {
	MovieId      uuid.UUID       `json:"movieId" validate:"required"`
	AuditoriumId uuid.UUID       `json:"auditoriumId" validate:"required"`
	StartTime    time.Time       `json:"startTime" validate:"required"`
	BasePrice    decimal.Decimal `json:"basePrice" validate:"required"`
}

type UpdateScreeningRequest struct {
	MovieId      *uuid.UUID       `json:"movieId,omitempty"`
	AuditoriumId *uuid.UUID       `json:"auditoriumId,omitempty"`
	StartTime    *time.Time       `json:"startTime,omitempty"`
	BasePrice    *decimal.Decimal `json:"basePrice,omitempty"`
}

type ScreeningResponse struct {
	Id             uuid.UUID       `json:"id"`
	MovieId        uuid.UUID       `json:"movieId"`
	MovieTitle     string          `json:"movieTitle"`
	AuditoriumId   uuid.UUID       `json:"auditoriumId"`
	AuditoriumName string          `json:"auditoriumName"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        time.Time       `json:"endTime"`
	BasePrice      decimal.Decimal `json:"basePrice"`
	AvailableSeats int             `json:"availableSeats"`
}

type ScreeningListResponse struct {
	Screenings []ScreeningResponse `json:"screenings"`
}

type Seat struct {
	Id         uuid.UUID       `json:"id"`
	Row        string          `json:"row"`
	Number     int             `json:"number"`
	Class      string          `json:"class"`
	ExtraPrice decimal.Decimal `json:"extraPrice"`
	Available  bool            `json:"available"`
}

type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ScreeningId    uuid.UUID       `json:"screeningId"`
	AuditoriumId   uuid.UUID       `json:"auditoriumId"`
	AuditoriumName string          `json:"auditoriumName"`
	BasePrice      decimal.Decimal `json:"basePrice"`
	SeatRows       []SeatRow       `json:"seatRows"`
}

type CreateBookingRequest struct {
	ScreeningId uuid.UUID   `json:"screeningId" validate:"required"`
	SeatIds     []uuid.UUID `json:"seatIds" validate:"required,min=1,max=10,unique"`
}

type BookedSeat struct {
	SeatId uuid.UUID       `json:"seatId"`
	Row    string          `json:"row"`
	Number int             `json:"number"`
	Class  string          `json:"class"`
	Price  decimal.Decimal `json:"price"`
}

type BookingResponse struct {
	Id            uuid.UUID       `json:"id"`
	BookingCode   string          `json:"bookingCode"`
	ScreeningId   uuid.UUID       `json:"screeningId"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	NumberOfSeats int             `json:"numberOfSeats"`
	Seats         []BookedSeat    `json:"seats"`
	HoldExpiresAt *time.Time      `json:"holdExpiresAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type BookingSummary struct {
	Id             uuid.UUID       `json:"id"`
	BookingCode    string          `json:"bookingCode"`
	Status         string          `json:"status"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	NumberOfSeats  int             `json:"numberOfSeats"`
	MovieTitle     string          `json:"movieTitle"`
	AuditoriumName string          `json:"auditoriumName"`
	ScreeningStart time.Time       `json:"screeningStart"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type BookingListResponse struct {
	Bookings []BookingSummary `json:"bookings"`
}

type InitiatePaymentRequest struct {
	BookingId uuid.UUID `json:"bookingId" validate:"required"`
	Method    string    `json:"method" validate:"required,payment_method"`
}

type PaymentOrderResponse struct {
	Reference   string          `json:"reference"`
	BookingCode string          `json:"bookingCode"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	RedirectUrl string          `json:"redirectUrl"`
}

type ConfirmPaymentRequest struct {
	BookingId         uuid.UUID `json:"bookingId" validate:"required"`
	Method            string    `json:"method" validate:"required,payment_method"`
	Success           bool      `json:"success"`
	ProviderOrderId   *string   `json:"providerOrderId,omitempty"`
	ProviderPaymentId *string   `json:"providerPaymentId,omitempty"`
	ProviderSignature *string   `json:"providerSignature,omitempty"`
}

type PaymentResponse struct {
	Id            uuid.UUID       `json:"id"`
	BookingId     uuid.UUID       `json:"bookingId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method"`
	TransactionId string          `json:"transactionId"`
	Status        string          `json:"status"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type TicketResponse struct {
	Id           uuid.UUID `json:"id"`
	BookingId    uuid.UUID `json:"bookingId"`
	TicketNumber string    `json:"ticketNumber"`
	QRPayload    string    `json:"qrPayload"`
	IsUsed       bool      `json:"isUsed"`
	CreatedAt    time.Time `json:"createdAt"`
}
