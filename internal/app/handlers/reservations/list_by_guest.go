package reservations

import (
	"context"
	"errors"
	"strings"

	"weekstay/internal/app/dto"
	"weekstay/internal/app/queries"
	"weekstay/internal/app/uow"
)

const listByGuestKey = "reservation.list_by_guest"

type ListByGuestQuery struct {
	GuestID string
}

func (q ListByGuestQuery) Key() string { return listByGuestKey }

// ListByGuestHandler returns a guest's reservations, newest first.
type ListByGuestHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListByGuestHandler) Handle(ctx context.Context, q ListByGuestQuery) ([]dto.Reservation, error) {
	if strings.TrimSpace(q.GuestID) == "" {
		return nil, errors.New("guest id is required")
	}

	unit, execCtx, cleanup, err := uow.Acquire(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	list, err := unit.Reservations().ListByGuest(execCtx, q.GuestID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Reservation, 0, len(list))
	for _, r := range list {
		out = append(out, dto.MapReservation(r))
	}
	return out, nil
}

var _ queries.Handler[ListByGuestQuery, []dto.Reservation] = (*ListByGuestHandler)(nil)
