package service

const (
	LedgerServiceName = "veresiye.v1.LedgerService"
	BackupServiceName = "veresiye.v1.BackupService"
	AuthServiceName   = "veresiye.v1.AuthService"
)

// Fully-qualified procedure paths, as mounted on the router.
const (
	CreateCustomerProcedure   = "/" + LedgerServiceName + "/CreateCustomer"
	ListCustomersProcedure    = "/" + LedgerServiceName + "/ListCustomers"
	SearchCustomersProcedure  = "/" + LedgerServiceName + "/SearchCustomers"
	GetCustomerProcedure      = "/" + LedgerServiceName + "/GetCustomer"
	DeleteCustomerProcedure   = "/" + LedgerServiceName + "/DeleteCustomer"
	ApplyTransactionProcedure = "/" + LedgerServiceName + "/ApplyTransaction"
	ReverseMovementProcedure  = "/" + LedgerServiceName + "/ReverseMovement"
	ListMovementsProcedure    = "/" + LedgerServiceName + "/ListMovements"
	AuditCustomerProcedure    = "/" + LedgerServiceName + "/AuditCustomer"
	GetSummaryProcedure       = "/" + LedgerServiceName + "/GetSummary"
	GetSettingProcedure       = "/" + LedgerServiceName + "/GetSetting"
	SetSettingProcedure       = "/" + LedgerServiceName + "/SetSetting"

	BackupProcedure = "/" + BackupServiceName + "/Backup"
	PruneProcedure  = "/" + BackupServiceName + "/Prune"
	TickProcedure   = "/" + BackupServiceName + "/Tick"

	UnlockProcedure = "/" + AuthServiceName + "/Unlock"
	SetPINProcedure = "/" + AuthServiceName + "/SetPIN"
)

// PublicProcedures never require a session token.
var PublicProcedures = []string{UnlockProcedure}
