package model

// Privilege is a permission code checked by route middleware.
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// DefaultPrivileges covers the ledger routes. Read access to supplies and the
// low-stock badge is open to every authenticated user.
var DefaultPrivileges = []Privilege{
	{Code: "supply:create", Name: "Create Supply"},
	{Code: "supply:update", Name: "Update Supply"},
	{Code: "supply:retire", Name: "Retire Supply"},
	{Code: "transaction:create", Name: "Record Stock Transaction"},
	{Code: "transaction:view", Name: "View Transaction History"},
}
