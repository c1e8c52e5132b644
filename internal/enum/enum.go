package enum

// Roles (CHECK constrained in DB).
//
// The legacy dashboard compared these as ad hoc strings; every switch over
// a role in this codebase must be exhaustive over the three constants.

const (
	RoleStaff        = "staff"
	RoleManager      = "manager"
	RoleAdministrasi = "administrasi"
)

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
	switch s {
	case RoleStaff, RoleManager, RoleAdministrasi:
		return true
	}
	return false
}

// Cashflow categories (CHECK constrained in DB).

const (
	CashflowIncome  = "Income"
	CashflowExpense = "Expense"
)

// Payment channels.

const (
	PaymentChannelCash = "CASH"
	PaymentChannelQRIS = "QRIS"
)

// Proposal statuses.

const (
	ProposalStatusPending  = "pending"
	ProposalStatusApproved = "approved"
	ProposalStatusRejected = "rejected"
)

// ValidProposalStatus reports whether s is a known proposal status.
func ValidProposalStatus(s string) bool {
	switch s {
	case ProposalStatusPending, ProposalStatusApproved, ProposalStatusRejected:
		return true
	}
	return false
}

// Payroll statuses.

const (
	PayrollStatusDraft = "draft"
	PayrollStatusPaid  = "paid"
)

// Receivable statuses.

const (
	ReceivableStatusOutstanding = "outstanding"
	ReceivableStatusPaid        = "paid"
)
