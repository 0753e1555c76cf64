package reservations

import (
	"context"
	"errors"
	"strings"

	"weekstay/internal/app/dto"
	"weekstay/internal/app/queries"
	"weekstay/internal/app/uow"
	domainreservation "weekstay/internal/domain/reservation"
)

const getKey = "reservation.get"

type GetQuery struct {
	ReservationID string
}

func (q GetQuery) Key() string { return getKey }

type GetHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetHandler) Handle(ctx context.Context, q GetQuery) (dto.Reservation, error) {
	var zero dto.Reservation
	if strings.TrimSpace(q.ReservationID) == "" {
		return zero, errors.New("reservation id is required")
	}

	unit, execCtx, cleanup, err := uow.Acquire(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return zero, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	res, err := unit.Reservations().ByID(execCtx, domainreservation.ReservationID(q.ReservationID))
	if err != nil {
		return zero, err
	}
	return dto.MapReservation(res), nil
}

var _ queries.Handler[GetQuery, dto.Reservation] = (*GetHandler)(nil)
