package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/oyurekten/theatre-ticketing-system/api"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/redis/go-redis/v9"
)

func seatLockKey(screeningID uuid.UUID, seatID uuid.UUID) string {
	return fmt.Sprintf("seat_lock:%s:%s", screeningID, seatID)
}

func seatSetKey(screeningID uuid.UUID) string {
	return fmt.Sprintf("seat_set:%s", screeningID)
}

// Redis Lua script to clean up expired seat locks and return currently valid locked seat IDs.
var filterValidLockSeats = redis.NewScript(`
	local setKey = KEYS[1]
	local screeningId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local validSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local seatIds = result[2]

		for _, seatId in ipairs(seatIds) do
			local lockKey = "seat_lock:" .. screeningId .. ":" .. seatId
			if redis.call("EXISTS", lockKey) == 0 then
				table.insert(expiredSeats, seatId)
			else
				table.insert(validSeats, seatId)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return validSeats
`)

func (app *Application) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	screeningId, err := app.readUUIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), screeningId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	seats, err := app.auditoriumRepo.GetLayout(r.Context(), screening.AuditoriumID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	unavailable, err := app.unavailableSeats(r.Context(), screening.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		ScreeningId:    screening.ID,
		AuditoriumId:   screening.AuditoriumID,
		AuditoriumName: screening.AuditoriumName,
		BasePrice:      screening.BasePrice,
		SeatRows:       toSeatRows(seats, unavailable),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// unavailableSeats merges the short-lived Redis locks with the reservation rows.
// The database is the source of truth; Redis only surfaces seats currently held
// by in-flight checkouts.
func (app *Application) unavailableSeats(ctx context.Context, screeningID uuid.UUID) (map[uuid.UUID]bool, error) {
	cmd := filterValidLockSeats.Run(ctx, app.redis, []string{seatSetKey(screeningID)}, screeningID.String())
	lockedSeatIds, err := cmd.StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to run filterValidLockSeats script: %w", err)
	}

	reservations, err := app.reservationRepo.GetActiveByScreening(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reserved seats from DB: %w", err)
	}

	unavailable := make(map[uuid.UUID]bool)

	for _, seatId := range lockedSeatIds {
		id, err := uuid.Parse(seatId)
		if err != nil {
			continue
		}

		unavailable[id] = true
	}

	for _, reservation := range reservations {
		unavailable[reservation.SeatID] = true
	}

	return unavailable, nil
}

func toSeatRows(seats []domain.Seat, unavailable map[uuid.UUID]bool) []api.SeatRow {
	// Seats are pre-sorted by row label and number, so rows can be grouped in
	// a single pass.

	var seatRows []api.SeatRow
	currentRow := api.SeatRow{Row: seats[0].RowLabel}

	for _, v := range seats {
		if v.RowLabel != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = api.SeatRow{Row: v.RowLabel}
		}

		currentRow.Seats = append(currentRow.Seats, api.Seat{
			Id:         v.ID,
			Row:        v.RowLabel,
			Number:     v.SeatNumber,
			Class:      string(v.Class),
			ExtraPrice: v.ExtraPrice,
			Available:  !unavailable[v.ID],
		})
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}
