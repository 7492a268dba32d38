package leave

import "time"

type Type string

const (
	TypeSick      Type = "sick"
	TypeCasual    Type = "casual"
	TypeAnnual    Type = "annual"
	TypeEmergency Type = "emergency"
	TypeOther     Type = "other"
)

// ValidTypes lists the accepted leave types.
var ValidTypes = []Type{TypeSick, TypeCasual, TypeAnnual, TypeEmergency, TypeOther}

func IsValidType(t Type) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

// Leave is an application for a contiguous date range. Status transitions
// from pending exactly once; approved and declined are terminal.
type Leave struct {
	ID           string
	UserID       string
	Type         Type
	Reason       string
	StartDate    time.Time
	EndDate      time.Time
	Status       Status
	AdminRemarks *string
	CreatedAt    time.Time
	UpdatedAt    *time.Time

	// DTO
	UserName *string
}
