// Package flights is the flightdesk domain: flights, their storage and the command line application
// operating on them.
package flights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrFlightNotFound = errors.New("flight not found")
	ErrFlightExists   = errors.New("flight already exists")
	ErrFlightInvalid  = errors.New("flight invalid")
	ErrNotInitialized = errors.New("repository is not initialized")

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()

	// flightnumber: two character airline designator followed by digits only
	err := v.RegisterValidation("flightnumber", func(fl validator.FieldLevel) bool {
		number := fl.Field().String()
		return len(number) > 2 && strings.Trim(number[2:], "0123456789") == ""
	})
	if err != nil {
		panic(err)
	}

	return v
}

// Flight is a scheduled connection between two airports.
type Flight struct {
	Number      string `db:"number" validate:"required,max=6,alphanum,uppercase,flightnumber"`
	Origin      string `db:"origin" validate:"required,len=3,alpha,uppercase"`
	Destination string `db:"destination" validate:"required,len=3,alpha,uppercase,nefield=Origin"`
}

// Validate checks the flight number and the IATA airport codes.
func (f Flight) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	problems := make([]string, len(validationErrors))
	for i, e := range validationErrors {
		problems[i] = fieldProblem(e)
	}

	return fmt.Errorf("%w: %s", ErrFlightInvalid, strings.Join(problems, "; "))
}

func fieldProblem(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, strings.ToLower(e.Param()))
	default:
		return fmt.Sprintf("%s %q is invalid", field, e.Value())
	}
}

func (f Flight) String() string {
	return fmt.Sprintf("%s %s -> %s", f.Number, f.Origin, f.Destination)
}

// Repository stores flights.
type Repository interface {
	// Initialize prepares the storage, it is called once before the application runs.
	Initialize(ctx context.Context) error
	Save(ctx context.Context, flight Flight) error
	Find(ctx context.Context, number string) (Flight, error)
	// List returns all flights ordered by number.
	List(ctx context.Context) ([]Flight, error)
}
