package model

import (
	"strings"
	"time"
)

// Equipment statuses as the lending API spells them.
const (
	EquipmentAvailable   = "Disponible"
	EquipmentLoaned      = "Prestado"
	EquipmentMaintenance = "Mantenimiento"
)

// Loan statuses as the lending API spells them.
const (
	LoanActive   = "Activo"
	LoanReturned = "Devuelto"
	LoanOverdue  = "Retrasado"
)

// User is the normalized session identity. The wire tags match the lending
// API's user payload.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  Role   `json:"rol"`
}

func (u User) IsAdmin() bool {
	return NormalizeRole(string(u.Role)) == RoleAdmin
}

type Equipment struct {
	ID          int    `json:"id"`
	Code        string `json:"codigo"`
	Name        string `json:"nombre"`
	Category    string `json:"categoria"`
	Description string `json:"descripcion"`
	ImageURL    string `json:"imagenUrl"`
	Status      string `json:"estado"`
}

type Loan struct {
	ID                  int        `json:"id"`
	UserID              int        `json:"usuarioId"`
	EquipmentID         int        `json:"implementoId"`
	LoanDate            Timestamp  `json:"fechaPrestamo"`
	ScheduledReturnDate Timestamp  `json:"fechaDevolucionProgramada"`
	ActualReturnDate    *Timestamp `json:"fechaDevolucionReal"`
	Status              string     `json:"estado"`
	Equipment           Equipment  `json:"implemento"`
	User                *User      `json:"usuario,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type RegisterRequest struct {
	Name     string `json:"nombre" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"rol"`
}

// RegisterLoanRequest is forwarded verbatim to the lending API, which is the
// final arbiter of availability.
type RegisterLoanRequest struct {
	UserID              int    `json:"usuarioId" validate:"required"`
	EquipmentID         int    `json:"implementoId" validate:"required"`
	ScheduledReturnDate string `json:"fechaDevolucionProgramada" validate:"required"`
}

// LoginResponse is the lending API's credential-exchange body. Besides the
// token the user record may arrive under `usuario`, under `user`, or not at
// all (only inside the token claims).
type LoginResponse struct {
	Token   string    `json:"token"`
	Usuario *WireUser `json:"usuario"`
	User    *WireUser `json:"user"`
}

// WireUser is a user exactly as the lending API ships it, before
// normalization.
type WireUser struct {
	ID    int    `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  string `json:"rol"`
}

// ReturnRetryMsg is enqueued when recording a return fails with 503.
type ReturnRetryMsg struct {
	LoanID int    `json:"loanId"`
	Token  string `json:"-"`
	By     string `json:"by"`
}

// Timestamp tolerates the date shapes the lending API produces: RFC3339,
// a zoneless ISO timestamp, or a bare date.
type Timestamp struct {
	time.Time `json:",inline"`
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		return nil
	}
	var err error
	for _, layout := range timestampLayouts {
		var parsed time.Time
		if parsed, err = time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return err
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}
