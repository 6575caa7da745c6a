package flights_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flightdesk/appctx/internal/flights"
)

func TestFlight_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid flights", func(t *testing.T) {
		t.Parallel()

		for _, flight := range []flights.Flight{
			{Number: "LH400", Origin: "FRA", Destination: "JFK"},
			{Number: "U21", Origin: "LGW", Destination: "BCN"},
			{Number: "BA2490", Origin: "LHR", Destination: "SFO"},
		} {
			assert.NoError(t, flight.Validate(), flight.String())
		}
	})

	t.Run("describes every invalid field", func(t *testing.T) {
		t.Parallel()

		err := flights.Flight{Number: "LH40A", Origin: "fra", Destination: ""}.Validate()

		assert.ErrorIs(t, err, flights.ErrFlightInvalid)
		assert.EqualError(t, err, `flight invalid: number "LH40A" is invalid; origin "fra" is invalid; destination is required`)
	})

	t.Run("rejects flights returning to their origin", func(t *testing.T) {
		t.Parallel()

		err := flights.Flight{Number: "LH400", Origin: "FRA", Destination: "FRA"}.Validate()

		assert.ErrorIs(t, err, flights.ErrFlightInvalid)
		assert.EqualError(t, err, "flight invalid: destination must differ from origin")
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		t.Parallel()

		for _, number := range []string{"LH", "lh400", "LH40000", "L-400"} {
			err := flights.Flight{Number: number, Origin: "FRA", Destination: "JFK"}.Validate()
			assert.ErrorIs(t, err, flights.ErrFlightInvalid, number)
		}
	})
}
