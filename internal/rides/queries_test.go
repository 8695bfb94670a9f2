package rides

import (
	"context"
	"testing"
	"time"

	"rideshare-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUserRides(t *testing.T) {
	engine, gdb := newTestEngine(t)
	ctx := context.Background()

	driver := createUser(t, gdb, "Driver One", "male")
	rider := createUser(t, gdb, "Rider One", "male")
	outsider := createUser(t, gdb, "Outsider", "male")

	rideID, err := engine.CreateRide(ctx, driver.ID, validRide())
	require.NoError(t, err)
	require.NoError(t, engine.JoinRide(ctx, rider.ID, rideID))

	mine, err := engine.ListUserRides(ctx, driver.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].IsOwner)
	assert.False(t, mine[0].IsParticipant)
	require.Len(t, mine[0].Passengers, 1, "создатель не входит в список пассажиров")
	assert.Equal(t, rider.ID, mine[0].Passengers[0].User.ID)
	assert.Equal(t, "Driver One", mine[0].Creator.Fullname)

	joined, err := engine.ListUserRides(ctx, rider.ID)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.False(t, joined[0].IsOwner)
	assert.True(t, joined[0].IsParticipant)

	none, err := engine.ListUserRides(ctx, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = engine.AutoCompleteDueRides(ctx, departure)
	require.NoError(t, err)
	mine, err = engine.ListUserRides(ctx, driver.ID)
	require.NoError(t, err)
	assert.Empty(t, mine, "завершенные поездки не показываются")
}

func TestGetRide(t *testing.T) {
	engine, gdb := newTestEngine(t)
	ctx := context.Background()
	driver := createUser(t, gdb, "Driver One", "male")

	rideID, err := engine.CreateRide(ctx, driver.ID, validRide())
	require.NoError(t, err)

	ride, err := engine.GetRide(ctx, driver.ID, rideID)
	require.NoError(t, err)
	assert.Equal(t, "Almaty", ride.Source)
	assert.Equal(t, 3, ride.SeatsLeft)
	assert.True(t, ride.IsOwner)
	assert.Empty(t, ride.Passengers)

	_, err = engine.GetRide(ctx, driver.ID, 4242)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearchRides(t *testing.T) {
	engine, gdb := newTestEngine(t)
	ctx := context.Background()
	driver := createUser(t, gdb, "Driver One", "male")

	_, err := engine.CreateRide(ctx, driver.ID, validRide())
	require.NoError(t, err)

	other := validRide()
	other.Destination = "Shymkent"
	other.DepartureAt = departure.Add(48 * time.Hour)
	_, err = engine.CreateRide(ctx, driver.ID, other)
	require.NoError(t, err)

	all, err := engine.SearchRides(ctx, driver.ID, models.RideSearch{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].DepartureAt.Before(all[1].DepartureAt))

	found, err := engine.SearchRides(ctx, driver.ID, models.RideSearch{Destination: "shym"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Shymkent", found[0].Destination)

	from := departure.Add(time.Hour)
	found, err = engine.SearchRides(ctx, driver.ID, models.RideSearch{From: &from})
	require.NoError(t, err)
	require.Len(t, found, 1)
}
