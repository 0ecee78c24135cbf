package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinates_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Coordinates
		wantErr bool
	}{
		{name: "object", input: `{"lat":19.07,"lng":72.87}`, want: Coordinates{Lat: 19.07, Lng: 72.87}},
		{name: "geojson position", input: `[72.87,19.07]`, want: Coordinates{Lat: 19.07, Lng: 72.87}},
		{name: "short position", input: `[72.87]`, wantErr: true},
		{name: "wrong type", input: `"mumbai"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Coordinates
			err := json.Unmarshal([]byte(tt.input), &c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
			assert.Equal(t, [2]float64{tt.want.Lng, tt.want.Lat}, c.GeoJSON())
		})
	}
}

func TestCoordinates_Validate(t *testing.T) {
	assert.NoError(t, Coordinates{Lat: 90, Lng: -180}.Validate())

	err := Coordinates{Lat: 91}.Validate()
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "latitude")

	err = Coordinates{Lng: 180.5}.Validate()
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "longitude")
}

func TestProperty_DiscountPercent(t *testing.T) {
	original := func(v int64) *int64 { return &v }

	tests := []struct {
		name string
		p    Property
		want int
	}{
		{name: "no baseline", p: Property{Price: 100}, want: 0},
		{name: "baseline equals price", p: Property{Price: 100, OriginalPrice: original(100)}, want: 0},
		{name: "price above baseline", p: Property{Price: 120, OriginalPrice: original(100)}, want: 0},
		{name: "quarter off", p: Property{Price: 75, OriginalPrice: original(100)}, want: 25},
		{name: "rounds half up", p: Property{Price: 667, OriginalPrice: original(1000)}, want: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.DiscountPercent())
		})
	}
}

func TestProperty_StateAndClone(t *testing.T) {
	beds := 3
	p := &Property{ID: "p1", Beds: &beds, Images: []string{"a.jpg"}, Reviews: []Review{{ID: "r1", Rating: 5}}}
	assert.Equal(t, StatePendingReview, p.State())
	assert.Equal(t, "a.jpg", p.CoverImage())

	c := p.Clone()
	c.Verified = true
	*c.Beds = 4
	c.Images[0] = "b.jpg"
	c.Reviews[0].Rating = 1

	assert.Equal(t, StateVerified, c.State())
	assert.Equal(t, StatePendingReview, p.State())
	assert.Equal(t, 3, *p.Beds)
	assert.Equal(t, "a.jpg", p.Images[0])
	assert.Equal(t, 5, p.Reviews[0].Rating)
	assert.Nil(t, (*Property)(nil).Clone())
}

func TestToggleID(t *testing.T) {
	set, added := ToggleID(nil, "p1")
	assert.True(t, added)
	assert.Equal(t, []string{"p1"}, set)

	set, added = ToggleID(set, "p2")
	assert.True(t, added)
	assert.Equal(t, []string{"p1", "p2"}, set)

	set, added = ToggleID(set, "p1")
	assert.False(t, added)
	assert.Equal(t, []string{"p2"}, set)
}

func TestActor_Authenticated(t *testing.T) {
	assert.True(t, Actor{ID: "u1", Role: RoleBuyer}.Authenticated())
	assert.False(t, Actor{ID: "u1", Role: RoleNone}.Authenticated())
	assert.False(t, Actor{Role: RoleAdmin}.Authenticated())
	assert.False(t, Actor{}.Authenticated())
}

func TestReportStatus(t *testing.T) {
	assert.False(t, ReportPending.Terminal())
	assert.True(t, ReportResolved.Terminal())
	assert.True(t, ReportRejected.Terminal())
	assert.False(t, ReportStatus("open").Valid())
}

func TestFieldErrors(t *testing.T) {
	err := error(FieldErrors{"price": "must be positive", "beds": "must be non-negative"})

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, ErrValidation.Error()+": beds: must be non-negative; price: must be positive", err.Error())

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Len(t, fe, 2)
}
