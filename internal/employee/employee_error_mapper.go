package employee

import (
	"errors"
	"strings"

	employeeerrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolations maps postgres unique-constraint names to the typed
// conflict each one represents.
var uniqueViolations = map[string]error{
	"uq_employee_number": employeeerrors.ErrEmployeeNumberAlreadyExists,
	"uq_employee_email":  employeeerrors.ErrEmployeeAlreadyExists,
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if mapped, ok := uniqueViolations[pgErr.ConstraintName]; ok {
			return mapped
		}
	}

	// Some gorm paths flatten the driver error into text.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key value") {
		for name, mapped := range uniqueViolations {
			if strings.Contains(msg, name) {
				return mapped
			}
		}
	}

	return err
}
