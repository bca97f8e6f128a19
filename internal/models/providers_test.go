package models

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

// Only supplied fields reach the SET clause.
func TestProviderUpdateRecord_PartialFields(t *testing.T) {
	price := 500.0
	update := ProviderUpdate{
		Description: strPtr("New description"),
		Price:       &price,
		Name:        strPtr(""),
	}

	assert.Equal(t, goqu.Record{
		"description": "New description",
		"price":       500.0,
	}, update.Record())
}

func TestProviderUpdateRecord_LocationCarriesCoordinates(t *testing.T) {
	update := ProviderUpdate{
		Location: strPtr(" Westlands, Nairobi "),
		Geo:      &Coordinates{Latitude: -1.26, Longitude: 36.80},
	}

	rec := update.Record()
	assert.Equal(t, "Westlands, Nairobi", rec["location"])
	assert.Equal(t, -1.26, rec["lat"])
	assert.Equal(t, 36.80, rec["lon"])
}

func TestProviderUpdateRecord_FailedGeocodeClearsCoordinates(t *testing.T) {
	rec := ProviderUpdate{Location: strPtr("Nowhere")}.Record()

	assert.Contains(t, rec, "lat")
	assert.Nil(t, rec["lat"])
	assert.Nil(t, rec["lon"])
}

func TestProviderUpdateRecord_GeoIgnoredWithoutLocation(t *testing.T) {
	update := ProviderUpdate{Geo: &Coordinates{Latitude: 1, Longitude: 2}}

	assert.True(t, update.IsEmpty())
}

func TestProviderInputMissing(t *testing.T) {
	in := ProviderInput{Category: "plumbing", PhoneNumber: "0700"}
	assert.Equal(t, []string{"name", "price"}, in.Missing())

	full := ProviderInput{Name: "Jane", Category: "plumbing", PhoneNumber: "0700", Price: "10"}
	assert.Empty(t, full.Missing())
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice(" 500 ")
	assert.NoError(t, err)
	assert.Equal(t, 500.0, p)

	_, err = ParsePrice("-1")
	assert.Error(t, err)

	_, err = ParsePrice("cheap")
	assert.Error(t, err)
}

func TestUserUpdateRecord(t *testing.T) {
	rec := UserUpdate{PhoneNumber: strPtr("0711"), Username: strPtr(" ")}.Record()
	assert.Equal(t, goqu.Record{"phone_number": "0711"}, rec)
}
