package contracts

import (
	"context"
	"klinipay-service/internal/pkg/dto/requests"
	"klinipay-service/internal/pkg/dto/responses"
)

type PaymentSessionClient interface {
	CreateMergedPaymentSession(ctx context.Context, request *requests.CreateMergedPaymentSession) (*responses.MergedPaymentSession, error)
	CheckMergedPaymentStatus(ctx context.Context, sessionID string) (*responses.MergedPaymentStatus, error)
}
