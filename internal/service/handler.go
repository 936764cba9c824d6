// Package service exposes the ledger, backups and the access lock as Connect RPCs.
package service

import (
	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
)

// Services bundles the handlers mounted by Register.
type Services struct {
	Ledger *LedgerService
	Backup *BackupService
	Auth   *AuthService
}

// Register mounts every procedure on r. The JSON codec is always installed;
// opts typically carries the interceptors.
func Register(r chi.Router, svc Services, opts ...connect.HandlerOption) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	l := svc.Ledger
	r.Handle(CreateCustomerProcedure, connect.NewUnaryHandler(CreateCustomerProcedure, l.CreateCustomer, opts...))
	r.Handle(ListCustomersProcedure, connect.NewUnaryHandler(ListCustomersProcedure, l.ListCustomers, opts...))
	r.Handle(SearchCustomersProcedure, connect.NewUnaryHandler(SearchCustomersProcedure, l.SearchCustomers, opts...))
	r.Handle(GetCustomerProcedure, connect.NewUnaryHandler(GetCustomerProcedure, l.GetCustomer, opts...))
	r.Handle(DeleteCustomerProcedure, connect.NewUnaryHandler(DeleteCustomerProcedure, l.DeleteCustomer, opts...))
	r.Handle(ApplyTransactionProcedure, connect.NewUnaryHandler(ApplyTransactionProcedure, l.ApplyTransaction, opts...))
	r.Handle(ReverseMovementProcedure, connect.NewUnaryHandler(ReverseMovementProcedure, l.ReverseMovement, opts...))
	r.Handle(ListMovementsProcedure, connect.NewUnaryHandler(ListMovementsProcedure, l.ListMovements, opts...))
	r.Handle(AuditCustomerProcedure, connect.NewUnaryHandler(AuditCustomerProcedure, l.AuditCustomer, opts...))
	r.Handle(GetSummaryProcedure, connect.NewUnaryHandler(GetSummaryProcedure, l.GetSummary, opts...))
	r.Handle(GetSettingProcedure, connect.NewUnaryHandler(GetSettingProcedure, l.GetSetting, opts...))
	r.Handle(SetSettingProcedure, connect.NewUnaryHandler(SetSettingProcedure, l.SetSetting, opts...))

	b := svc.Backup
	r.Handle(BackupProcedure, connect.NewUnaryHandler(BackupProcedure, b.Backup, opts...))
	r.Handle(PruneProcedure, connect.NewUnaryHandler(PruneProcedure, b.Prune, opts...))
	r.Handle(TickProcedure, connect.NewUnaryHandler(TickProcedure, b.Tick, opts...))

	a := svc.Auth
	r.Handle(UnlockProcedure, connect.NewUnaryHandler(UnlockProcedure, a.Unlock, opts...))
	r.Handle(SetPINProcedure, connect.NewUnaryHandler(SetPINProcedure, a.SetPIN, opts...))
}
