package config

type (
	InternalConfig struct {
		App        App
		Billing    Billing
		Payment    Payment
		Collection Collection
		JWT        JWT
	}

	DriverConfig struct {
		Redis    Redis
		RabbitMQ RabbitMQ
		Logger   Logger
	}

	App struct {
		Env             string
		Port            string
		Version         string
		Timezone        string
		EndpointPrefix  string
		MaxRequests     int
		ShutdownTimeout int
	}

	// Billing is the bill registry backend this service reads unpaid bills from.
	Billing struct {
		BaseUrl string
	}

	// Payment is the backend issuing merged-payment sessions and QR payloads.
	Payment struct {
		BaseUrl string
	}

	// Collection holds the workflow tunables: the status-poll cadence, the
	// client-side cap on waiting for a terminal status, and the TTL of the
	// session-creation lock.
	Collection struct {
		PollIntervalSeconds   int
		PollTimeoutMinutes    int
		SessionLockTTLSeconds int
	}

	JWT struct {
		Secret string
	}

	Redis struct {
		Host     string
		Port     string
		Password string
	}

	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)
