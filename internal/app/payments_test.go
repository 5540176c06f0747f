package app

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oyurekten/theatre-ticketing-system/api"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/oyurekten/theatre-ticketing-system/internal/mailer"
	"github.com/oyurekten/theatre-ticketing-system/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func pendingBooking(customerID uuid.UUID) *domain.Booking {
	return &domain.Booking{
		ID:            uuid.New(),
		CustomerID:    customerID,
		ScreeningID:   uuid.New(),
		BookingCode:   "BK17000000000000020002",
		TotalAmount:   decimal.NewFromInt(600),
		NumberOfSeats: 3,
		Status:        domain.BookingPending,
		Seats: []domain.BookedSeat{
			{SeatID: uuid.New(), RowLabel: "A", SeatNumber: 1, Price: decimal.NewFromInt(200)},
			{SeatID: uuid.New(), RowLabel: "A", SeatNumber: 2, Price: decimal.NewFromInt(200)},
			{SeatID: uuid.New(), RowLabel: "A", SeatNumber: 3, Price: decimal.NewFromInt(200)},
		},
	}
}

func TestInitiatePayment(t *testing.T) {
	customer := testCustomer()

	tests := []struct {
		name       string
		booking    *domain.Booking
		setupMocks func(*mocks.MockBookingRepo, *mocks.MockPaymentProvider, *domain.Booking)
		wantStatus int
	}{
		{
			name:    "creates an order without changing local state",
			booking: pendingBooking(customer.ID),
			setupMocks: func(bookingRepo *mocks.MockBookingRepo, provider *mocks.MockPaymentProvider, booking *domain.Booking) {
				bookingRepo.On("GetById", mock.Anything, booking.ID).Return(booking, nil)
				provider.On("CreateOrder", booking, customer).Return(&domain.PaymentOrder{
					Reference:   "order_" + booking.BookingCode,
					BookingID:   booking.ID,
					BookingCode: booking.BookingCode,
					Amount:      booking.TotalAmount,
					Currency:    "USD",
					RedirectUrl: "https://pay.example.com/checkout/" + booking.BookingCode,
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "refuses a confirmed booking",
			booking: func() *domain.Booking {
				b := pendingBooking(customer.ID)
				b.Status = domain.BookingConfirmed
				return b
			}(),
			setupMocks: func(bookingRepo *mocks.MockBookingRepo, provider *mocks.MockPaymentProvider, booking *domain.Booking) {
				bookingRepo.On("GetById", mock.Anything, booking.ID).Return(booking, nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "refuses a cancelled booking",
			booking: func() *domain.Booking {
				b := pendingBooking(customer.ID)
				b.Status = domain.BookingCancelled
				return b
			}(),
			setupMocks: func(bookingRepo *mocks.MockBookingRepo, provider *mocks.MockPaymentProvider, booking *domain.Booking) {
				bookingRepo.On("GetById", mock.Anything, booking.ID).Return(booking, nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &mocks.MockBookingRepo{}
			provider := &mocks.MockPaymentProvider{}
			tt.setupMocks(bookingRepo, provider, tt.booking)

			app := newTestApplication(func(app *Application) {
				app.bookingRepo = bookingRepo
				app.paymentProvider = provider
			})

			body := api.InitiatePaymentRequest{
				BookingId: tt.booking.ID,
				Method:    "CARD",
			}

			w, r := executeRequest(t, http.MethodPost, "/payments", body)
			r = withUser(r, customer)

			app.InitiatePayment(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			bookingRepo.AssertExpectations(t)
			provider.AssertExpectations(t)
		})
	}
}

func TestConfirmPayment(t *testing.T) {
	customer := testCustomer()

	screening := &domain.Screening{
		ID:             uuid.New(),
		StartTime:      time.Now().Add(24 * time.Hour),
		MovieTitle:     "Persona",
		AuditoriumName: "Main Hall",
	}

	tests := []struct {
		name          string
		booking       *domain.Booking
		success       bool
		setupMocks    func(*mocks.MockBookingRepo, *mocks.MockPaymentRepo, *mocks.MockScreeningRepo, *mocks.MockUserRepo, *domain.Booking)
		wantStatus    int
		wantEmails    int
		wantTemplate  string
		checkResponse func(*testing.T, api.PaymentResponse)
	}{
		{
			name:    "records success and sends the confirmation email",
			booking: pendingBooking(customer.ID),
			success: true,
			setupMocks: func(bookingRepo *mocks.MockBookingRepo, paymentRepo *mocks.MockPaymentRepo, screeningRepo *mocks.MockScreeningRepo, userRepo *mocks.MockUserRepo, booking *domain.Booking) {
				bookingRepo.On("GetById", mock.Anything, booking.ID).Return(booking, nil)
				paymentRepo.On("RecordSuccess", mock.Anything, mock.AnythingOfType("*domain.Payment")).
					Run(func(args mock.Arguments) {
						p := args.Get(1).(*domain.Payment)
						p.ID = uuid.New()
						p.TransactionID = domain.NewTransactionID()
						p.Status = domain.PaymentSuccess
						now := time.Now()
						p.PaymentDate = &now
					}).
					Return(nil)
				screeningRepo.On("GetById", mock.Anything, booking.ScreeningID).Return(screening, nil)
			},
			wantStatus:   http.StatusOK,
			wantEmails:   1,
			wantTemplate: "booking_confirmation.tmpl",
			checkResponse: func(t *testing.T, resp api.PaymentResponse) {
				if resp.Status != string(domain.PaymentSuccess) {
					t.Errorf("Status = %s, want SUCCESS", resp.Status)
				}
				if !resp.Amount.Equal(decimal.NewFromInt(600)) {
					t.Errorf("Amount = %s, want 600", resp.Amount)
				}
			},
		},
		{
			name:    "records failure, cancels the booking and sends the cancellation email",
			booking: pendingBooking(customer.ID),
			success: false,
			setupMocks: func(bookingRepo *mocks.MockBookingRepo, paymentRepo *mocks.MockPaymentRepo, screeningRepo *mocks.MockScreeningRepo, userRepo *mocks.MockUserRepo, booking *domain.Booking) {
				bookingRepo.On("GetById", mock.Anything, booking.ID).Return(booking, nil)
				paymentRepo.On("RecordFailure", mock.Anything, mock.AnythingOfType("*domain.Payment")).
					Run(func(args mock.Arguments) {
						p := args.Get(1).(*domain.Payment)
						p.ID = uuid.New()
						p.TransactionID = domain.NewTransactionID()
						p.Status = domain.PaymentFailed
					}).
					Return(nil)
				userRepo.On("GetById", mock.Anything, booking.CustomerID).Return(customer, nil)
				screeningRepo.On("GetById", mock.Anything, booking.ScreeningID).Return(screening, nil)
			},
			wantStatus:   http.StatusOK,
			wantEmails:   1,
			wantTemplate: "booking_cancelled.tmpl",
			checkResponse: func(t *testing.T, resp api.PaymentResponse) {
				if resp.Status != string(domain.PaymentFailed) {
					t.Errorf("Status = %s, want FAILED", resp.Status)
				}
			},
		},
		{
			name:    "rejects a second success for an already paid booking",
			booking: pendingBooking(customer.ID),
			success: true,
			setupMocks: func(bookingRepo *mocks.MockBookingRepo, paymentRepo *mocks.MockPaymentRepo, screeningRepo *mocks.MockScreeningRepo, userRepo *mocks.MockUserRepo, booking *domain.Booking) {
				bookingRepo.On("GetById", mock.Anything, booking.ID).Return(booking, nil)
				paymentRepo.On("RecordSuccess", mock.Anything, mock.AnythingOfType("*domain.Payment")).
					Return(domain.ErrBookingAlreadyPaid)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:    "rejects payment against a cancelled booking",
			booking: pendingBooking(customer.ID),
			success: true,
			setupMocks: func(bookingRepo *mocks.MockBookingRepo, paymentRepo *mocks.MockPaymentRepo, screeningRepo *mocks.MockScreeningRepo, userRepo *mocks.MockUserRepo, booking *domain.Booking) {
				bookingRepo.On("GetById", mock.Anything, booking.ID).Return(booking, nil)
				paymentRepo.On("RecordSuccess", mock.Anything, mock.AnythingOfType("*domain.Payment")).
					Return(domain.ErrBookingCancelled)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &mocks.MockBookingRepo{}
			paymentRepo := &mocks.MockPaymentRepo{}
			screeningRepo := &mocks.MockScreeningRepo{}
			userRepo := &mocks.MockUserRepo{}
			tt.setupMocks(bookingRepo, paymentRepo, screeningRepo, userRepo, tt.booking)

			mockMailer := mailer.NewMockMailer()

			app := newTestApplication(func(app *Application) {
				app.bookingRepo = bookingRepo
				app.paymentRepo = paymentRepo
				app.screeningRepo = screeningRepo
				app.userRepo = userRepo
				app.mailer = mockMailer
			})

			body := api.ConfirmPaymentRequest{
				BookingId:         tt.booking.ID,
				Method:            "CARD",
				Success:           tt.success,
				ProviderPaymentId: ptr("pay_" + tt.booking.BookingCode),
			}

			w, r := executeRequest(t, http.MethodPost, "/payments/confirm", body)
			r = withUser(r, customer)

			app.ConfirmPayment(w, r)

			app.wg.Wait()

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			if tt.checkResponse != nil {
				var resp api.PaymentResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				tt.checkResponse(t, resp)
			}

			sent := mockMailer.GetSentEmails()
			if len(sent) != tt.wantEmails {
				t.Errorf("sent emails = %d, want %d", len(sent), tt.wantEmails)
			}
			if tt.wantTemplate != "" && len(sent) > 0 {
				if sent[0].TemplateFile != tt.wantTemplate {
					t.Errorf("template = %s, want %s", sent[0].TemplateFile, tt.wantTemplate)
				}
				if sent[0].Recipient != customer.Email {
					t.Errorf("recipient = %s, want %s", sent[0].Recipient, customer.Email)
				}
			}

			bookingRepo.AssertExpectations(t)
			paymentRepo.AssertExpectations(t)
			screeningRepo.AssertExpectations(t)
		})
	}
}
