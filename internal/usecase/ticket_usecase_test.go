package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
)

func TestCreateTicket(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "customer")
	f.seedUser(t, "provider", asProvider)

	tests := []struct {
		name  string
		input usecase.CreateTicketInput
		code  string
	}{
		{"missing subject", usecase.CreateTicketInput{AgainstID: "provider", Description: "late"}, errors.CodeInvalidInput},
		{"missing description", usecase.CreateTicketInput{AgainstID: "provider", Subject: "Late"}, errors.CodeInvalidInput},
		{"against self", usecase.CreateTicketInput{AgainstID: "customer", Subject: "Late", Description: "late"}, errors.CodeInvalidInput},
		{"unknown counterpart", usecase.CreateTicketInput{AgainstID: "ghost", Subject: "Late", Description: "late"}, errors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tickets.CreateTicket(f.ctx, "customer", tt.input)
			assert.True(t, errors.Is(err, tt.code), "expected %s, got %v", tt.code, err)
		})
	}

	_, err := f.tickets.CreateTicket(f.ctx, "customer", usecase.CreateTicketInput{
		AgainstID:   "provider",
		ServiceID:   "svc-1",
		Subject:     "Damaged sofa",
		Description: "Stain remover bleached the fabric",
	})
	require.NoError(t, err)

	mine, err := f.tickets.ListMyTickets(f.ctx, "customer")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "svc-1", mine[0].ServiceID)

	theirs, err := f.tickets.ListMyTickets(f.ctx, "provider")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
