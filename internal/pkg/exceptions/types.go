package exceptions

import (
	"fmt"
	"klinipay-service/internal/pkg/constvars"
)

var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, KindValidation, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, KindValidation, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, KindInternal, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, KindInternal, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, KindInternal, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, KindInternal, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevServerProcess)
	}

	// Collection workflow
	ErrNoPatientSelected = func(err error) *CustomError {
		return BuildNewCustomError(err, KindValidation, constvars.StatusBadRequest, constvars.ErrClientNoPatientSelected, constvars.ErrDevNoPatientSelected)
	}
	ErrNoBillsSelected = func(err error) *CustomError {
		return BuildNewCustomError(err, KindValidation, constvars.StatusUnprocessableEntity, constvars.ErrClientNoBillsSelected, constvars.ErrDevNoBillsSelected)
	}
	ErrCollectionNotFound = func(err error, collectionID string) *CustomError {
		return BuildNewCustomError(err, KindValidation, constvars.StatusNotFound, constvars.ErrClientCollectionNotFound, fmt.Sprintf(constvars.ErrDevCollectionNotFound, collectionID))
	}
	ErrBillNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, KindValidation, constvars.StatusNotFound, constvars.ErrClientBillNotFound, constvars.ErrDevBillNotFound)
	}
	ErrWrongStage = func(err error, stage string) *CustomError {
		return BuildNewCustomError(err, KindValidation, constvars.StatusConflict, constvars.ErrClientWrongStageForOperation, fmt.Sprintf(constvars.ErrDevWrongStage, stage))
	}
	// Auth
	ErrAuthTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, KindAuth, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthTokenMissing)
	}
	ErrAuthTokenInvalidOrExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, KindAuth, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthTokenInvalidOrExpired)
	}
	ErrBackendAuthRejected = func(err error) *CustomError {
		return BuildNewCustomError(err, KindAuth, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevBackendAuthRejected)
	}

	// Outbound HTTP
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, KindInternal, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCreateHTTPRequest)
	}
	ErrBillingUnreachable = func(err error) *CustomError {
		return BuildNewCustomError(err, KindNetwork, constvars.StatusBadGateway, constvars.ErrClientBillingUnreachable, constvars.ErrDevSendHTTPRequest)
	}
	ErrPaymentUnreachable = func(err error) *CustomError {
		return BuildNewCustomError(err, KindNetwork, constvars.StatusBadGateway, constvars.ErrClientPaymentUnreachable, constvars.ErrDevSendHTTPRequest)
	}
	ErrBackendRejected = func(err error, status int, message string) *CustomError {
		clientMessage := message
		if clientMessage == "" {
			clientMessage = constvars.ErrClientSomethingWrongWithApplication
		}
		return BuildNewCustomError(err, KindBackend, constvars.StatusBadGateway, clientMessage, fmt.Sprintf(constvars.ErrDevBackendRejectedRequest, status, message))
	}
	ErrDecodeBackendResponse = func(err error, source string) *CustomError {
		return BuildNewCustomError(err, KindBackend, constvars.StatusBadGateway, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevDecodeBackendResponse, source))
	}
	ErrInvalidBillRecord = func(err error) *CustomError {
		return BuildNewCustomError(err, KindBackend, constvars.StatusBadGateway, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevInvalidBillRecord, "unpaid-bills"))
	}

	// Payment session
	ErrSessionCreation = func(err error, message string) *CustomError {
		clientMessage := message
		if clientMessage == "" {
			clientMessage = constvars.ErrClientSessionCreationFailed
		}
		return BuildNewCustomError(err, KindSessionCreation, constvars.StatusBadGateway, clientMessage, constvars.ErrDevSessionMissingFields)
	}
	ErrSessionCreationInProgress = func(err error) *CustomError {
		return BuildNewCustomError(err, KindValidation, constvars.StatusConflict, constvars.ErrClientSessionCreationInProgress, constvars.ErrDevSessionCreateInFlight)
	}

	// Redis
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, KindInternal, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, KindInternal, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, KindInternal, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, KindInternal, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, KindInternal, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}
)
