package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/veresiye/internal/ledger"
	"github.com/mmynk/veresiye/internal/models"
	"github.com/mmynk/veresiye/internal/storage"
)

// LedgerService implements veresiye.v1.LedgerService.
type LedgerService struct {
	store  storage.Store
	engine *ledger.Engine
	now    func() time.Time
}

// NewLedgerService creates a LedgerService. All balance changes go through engine.
func NewLedgerService(store storage.Store, engine *ledger.Engine) *LedgerService {
	return &LedgerService{store: store, engine: engine, now: time.Now}
}

func (s *LedgerService) CreateCustomer(ctx context.Context, req *connect.Request[CreateCustomerRequest]) (*connect.Response[CustomerResponse], error) {
	slog.Info("CreateCustomer request received", "name", req.Msg.Name)

	opening, err := models.ParseBalance(req.Msg.OpeningBalance)
	if err != nil {
		return nil, toConnectError(err)
	}

	customer := &models.Customer{
		Name:           req.Msg.Name,
		Surname:        req.Msg.Surname,
		Phone:          req.Msg.Phone,
		Address:        req.Msg.Address,
		OpeningBalance: opening,
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		slog.Error("CreateCustomer failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Customer created", "customer_id", customer.ID, "opening_balance", customer.OpeningBalance)
	return connect.NewResponse(&CustomerResponse{Customer: toCustomer(customer)}), nil
}

func (s *LedgerService) ListCustomers(ctx context.Context, req *connect.Request[ListCustomersRequest]) (*connect.Response[ListCustomersResponse], error) {
	slog.Info("ListCustomers request received", "filter", req.Msg.Filter)

	filter, err := models.ParseCustomerFilter(req.Msg.Filter)
	if err != nil {
		return nil, toConnectError(err)
	}

	customers, err := s.store.ListCustomers(ctx, filter)
	if err != nil {
		slog.Error("ListCustomers failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListCustomersResponse{Customers: toCustomers(customers)}), nil
}

func (s *LedgerService) SearchCustomers(ctx context.Context, req *connect.Request[SearchCustomersRequest]) (*connect.Response[ListCustomersResponse], error) {
	slog.Info("SearchCustomers request received", "text", req.Msg.Text, "filter", req.Msg.Filter)

	filter, err := models.ParseCustomerFilter(req.Msg.Filter)
	if err != nil {
		return nil, toConnectError(err)
	}

	customers, err := s.store.SearchCustomers(ctx, req.Msg.Text, filter)
	if err != nil {
		slog.Error("SearchCustomers failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListCustomersResponse{Customers: toCustomers(customers)}), nil
}

func (s *LedgerService) GetCustomer(ctx context.Context, req *connect.Request[CustomerIDRequest]) (*connect.Response[CustomerResponse], error) {
	slog.Info("GetCustomer request received", "customer_id", req.Msg.CustomerID)

	customer, err := s.store.GetCustomer(ctx, req.Msg.CustomerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CustomerResponse{Customer: toCustomer(customer)}), nil
}

func (s *LedgerService) DeleteCustomer(ctx context.Context, req *connect.Request[CustomerIDRequest]) (*connect.Response[DeleteCustomerResponse], error) {
	slog.Info("DeleteCustomer request received", "customer_id", req.Msg.CustomerID)

	if err := s.store.DeleteCustomer(ctx, req.Msg.CustomerID); err != nil {
		slog.Error("DeleteCustomer failed", "customer_id", req.Msg.CustomerID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Customer deleted", "customer_id", req.Msg.CustomerID)
	return connect.NewResponse(&DeleteCustomerResponse{}), nil
}

func (s *LedgerService) ApplyTransaction(ctx context.Context, req *connect.Request[ApplyTransactionRequest]) (*connect.Response[ApplyTransactionResponse], error) {
	slog.Info("ApplyTransaction request received",
		"customer_id", req.Msg.CustomerID,
		"amount", req.Msg.Amount,
		"kind", req.Msg.Kind,
	)

	amount, err := models.ParseAmount(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	kind, err := models.ParseMovementKind(req.Msg.Kind)
	if err != nil {
		return nil, toConnectError(err)
	}

	movement, err := s.engine.ApplyTransaction(ctx, req.Msg.CustomerID, amount, kind, strings.TrimSpace(req.Msg.Note))
	if err != nil {
		return nil, toConnectError(err)
	}

	customer, err := s.store.GetCustomer(ctx, req.Msg.CustomerID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ApplyTransactionResponse{
		Movement: toMovement(movement),
		Balance:  customer.Balance.StringFixed(2),
	}), nil
}

func (s *LedgerService) ReverseMovement(ctx context.Context, req *connect.Request[ReverseMovementRequest]) (*connect.Response[CustomerResponse], error) {
	slog.Info("ReverseMovement request received", "movement_id", req.Msg.MovementID)

	if req.Msg.MovementID == "" {
		return nil, toConnectError(&models.ValidationError{Field: "movement_id", Reason: "required"})
	}

	customer, err := s.engine.ReverseMovement(ctx, req.Msg.MovementID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CustomerResponse{Customer: toCustomer(customer)}), nil
}

func (s *LedgerService) ListMovements(ctx context.Context, req *connect.Request[ListMovementsRequest]) (*connect.Response[ListMovementsResponse], error) {
	slog.Info("ListMovements request received", "customer_id", req.Msg.CustomerID, "days", req.Msg.Days)

	if req.Msg.Days < 0 {
		return nil, toConnectError(&models.ValidationError{Field: "days", Reason: "must not be negative"})
	}
	if _, err := s.store.GetCustomer(ctx, req.Msg.CustomerID); err != nil {
		return nil, toConnectError(err)
	}

	var since *time.Time
	if req.Msg.Days > 0 {
		t := s.now().AddDate(0, 0, -req.Msg.Days)
		since = &t
	}

	movements, err := s.store.ListMovements(ctx, req.Msg.CustomerID, since)
	if err != nil {
		slog.Error("ListMovements failed", "customer_id", req.Msg.CustomerID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]Movement, 0, len(movements))
	for i := range movements {
		out = append(out, toMovement(&movements[i]))
	}
	return connect.NewResponse(&ListMovementsResponse{Movements: out}), nil
}

func (s *LedgerService) AuditCustomer(ctx context.Context, req *connect.Request[CustomerIDRequest]) (*connect.Response[AuditCustomerResponse], error) {
	slog.Info("AuditCustomer request received", "customer_id", req.Msg.CustomerID)

	result, err := s.engine.Audit(ctx, req.Msg.CustomerID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&AuditCustomerResponse{
		CustomerID: result.CustomerID,
		Balance:    result.Balance.StringFixed(2),
		Expected:   result.Expected.StringFixed(2),
		Drift:      result.Drift.StringFixed(2),
		Movements:  result.Movements,
		Consistent: result.Consistent(),
	}), nil
}

func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	slog.Info("GetSummary request received")

	summary, err := s.store.Summary(ctx)
	if err != nil {
		slog.Error("GetSummary failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetSummaryResponse{
		TotalOwing:   summary.TotalOwing.StringFixed(2),
		AverageOwing: summary.AverageOwing.StringFixed(2),
		DebtorCount:  summary.DebtorCount,
	}), nil
}

// Settings that only the backup scheduler and auth service may write.
var reservedSettings = map[string]bool{
	models.KeyLastBackupAt:  true,
	models.KeyAccessPINHash: true,
}

func (s *LedgerService) GetSetting(ctx context.Context, req *connect.Request[GetSettingRequest]) (*connect.Response[SettingResponse], error) {
	slog.Info("GetSetting request received", "key", req.Msg.Key)

	if req.Msg.Key == "" {
		return nil, toConnectError(&models.ValidationError{Field: "key", Reason: "required"})
	}
	if req.Msg.Key == models.KeyAccessPINHash {
		return nil, connect.NewError(connect.CodePermissionDenied, &models.ValidationError{Field: "key", Reason: "not readable"})
	}

	value, ok, err := s.store.GetSetting(ctx, req.Msg.Key)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SettingResponse{Key: req.Msg.Key, Value: value, Set: ok}), nil
}

func (s *LedgerService) SetSetting(ctx context.Context, req *connect.Request[SetSettingRequest]) (*connect.Response[SettingResponse], error) {
	slog.Info("SetSetting request received", "key", req.Msg.Key)

	key, value := req.Msg.Key, strings.TrimSpace(req.Msg.Value)
	if key == "" {
		return nil, toConnectError(&models.ValidationError{Field: "key", Reason: "required"})
	}
	if reservedSettings[key] {
		return nil, toConnectError(&models.ValidationError{Field: "key", Reason: key + " is managed by the server"})
	}
	if key == models.KeyAutoBackupFrequency {
		freq, err := models.ParseFrequency(value)
		if err != nil {
			return nil, toConnectError(err)
		}
		value = string(freq)
	}

	if err := s.store.SetSetting(ctx, key, value); err != nil {
		slog.Error("SetSetting failed", "key", key, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SettingResponse{Key: key, Value: value, Set: true}), nil
}
