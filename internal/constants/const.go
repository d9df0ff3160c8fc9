package constants

const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCanceled   = "CANCELED"
	StatusUnknown    = "UNKNOWN"
)

const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

const (
	ReceiptPending  = "pending"
	ReceiptApproved = "approved"
	ReceiptRejected = "rejected"
)

const (
	CurrencyUSD = "USD"
	CurrencyIQD = "IQD"
	CurrencyEUR = "EUR"
	CurrencyTRY = "TRY"
)

// USD per one unit of the currency, applied at receipt review time.
var ExchangeRates = map[string]float64{
	CurrencyUSD: 1.0,
	CurrencyIQD: 0.00068,
	CurrencyEUR: 1.08,
	CurrencyTRY: 0.031,
}

const (
	DefaultPollIntervalSec = 3600
	DefaultCatalogSyncSec  = 21600
	DefaultJWTSecret       = "supersecretkey"
	StatusChunkSize        = 100
	ProviderTimeoutSec     = 120
	RecentOrdersLimit      = 20
)

const (
	DefaultMargin  = 0.2
	MinServiceRate = 0.01
)
