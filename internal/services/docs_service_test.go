package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilities/internal/domain"
	"facilities/internal/domain/models"
)

func TestDocsServiceRequestSlip(t *testing.T) {
	at := models.NewTimestamp(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	loader := func(_ context.Context, id string) (slipData, error) {
		return slipData{
			Request: models.Request{
				ID:        id,
				Title:     "Projector for seminar",
				Type:      models.RequestBorrow,
				Status:    models.RequestApproved,
				Notes:     "Room 204",
				CreatedAt: at,
			},
			Department: "IT",
			Requester:  "Ana Reyes",
		}, nil
	}

	svc := DocsService{Loader: loader}
	pdf, filename, err := svc.RequestSlip(context.Background(), "0f4c2a9e-aaaa-bbbb-cccc-000000000001")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, "SLIP_Projector_for_seminar_0f4c2a9e.pdf", filename)
}

func TestDocsServiceRequestSlipNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(t, db)

	_, _, err := svc.Docs.RequestSlip(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}
