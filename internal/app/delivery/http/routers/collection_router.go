package routers

import (
	"klinipay-service/internal/app/delivery/http/controllers"
	"klinipay-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachCollectionRouter(router chi.Router, middlewares *middlewares.Middlewares, collectionController *controllers.CollectionController) {
	router.Use(middlewares.Authentication)

	router.Post("/", collectionController.CreateCollection)
	router.Get("/{collectionID}", collectionController.GetCollection)
	router.Delete("/{collectionID}", collectionController.TeardownCollection)
	router.Post("/{collectionID}/patient", collectionController.SelectPatient)
	router.Post("/{collectionID}/bills/refresh", collectionController.RefreshBills)
	router.Post("/{collectionID}/bills/{billID}/toggle", collectionController.ToggleBill)
	router.Post("/{collectionID}/bills/select-all", collectionController.SelectAllBills)
	router.Post("/{collectionID}/bills/deselect-all", collectionController.DeselectAllBills)
	router.Post("/{collectionID}/session", collectionController.CreatePaymentSession)
	router.Post("/{collectionID}/session/cancel", collectionController.CancelPaymentSession)
	router.Post("/{collectionID}/reset", collectionController.ResetCollection)
}
