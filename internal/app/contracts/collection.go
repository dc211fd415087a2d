package contracts

import (
	"context"
	"klinipay-service/internal/pkg/dto/requests"
	"klinipay-service/internal/pkg/dto/responses"
)

// CollectionUsecase drives the merged-payment collection workflow. Every
// operation returns the resulting state snapshot so the front end can render
// the current stage without a follow-up read.
type CollectionUsecase interface {
	StartCollection(ctx context.Context, request *requests.CreateCollection) (*responses.CollectionState, error)
	GetCollection(ctx context.Context, collectionID string) (*responses.CollectionState, error)
	SelectPatient(ctx context.Context, collectionID string, request *requests.SelectPatient) (*responses.CollectionState, error)
	RefreshBills(ctx context.Context, collectionID string) (*responses.CollectionState, error)
	ToggleBill(ctx context.Context, collectionID, billID string) (*responses.CollectionState, error)
	SelectAllBills(ctx context.Context, collectionID string) (*responses.CollectionState, error)
	DeselectAllBills(ctx context.Context, collectionID string) (*responses.CollectionState, error)
	CreatePaymentSession(ctx context.Context, collectionID string) (*responses.CollectionState, error)
	CancelPaymentSession(ctx context.Context, collectionID string) (*responses.CollectionState, error)
	ResetCollection(ctx context.Context, collectionID string) (*responses.CollectionState, error)
	TeardownCollection(ctx context.Context, collectionID string) error

	// Shutdown stops every live poller; called during process shutdown so no
	// timers outlive the server.
	Shutdown()
}
