package app

import (
	"context"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charityconnect/internal/usecase"
	"charityconnect/pkg/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Environment:    "test",
		StorageDriver:  config.StorageMemory,
		EventQueueSize: 16,
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageDriver = "cassandra"

	_, err := New(context.Background(), cfg, slogt.New(t))
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestCountersFollowWritesAfterShutdownDrain(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, memoryConfig(), slogt.New(t))
	require.NoError(t, err)
	a.Start(ctx)

	_, err = a.ProfileUseCase.CreateProfile(ctx, usecase.CreateProfileInput{
		Name: "Dana", Email: "dana@example.com", Phone: "555", Role: "donor",
	})
	require.NoError(t, err)
	_, err = a.ProfileUseCase.CreateProfile(ctx, usecase.CreateProfileInput{
		Name: "Food Bank", Email: "food@example.com", Phone: "556", Role: "charity",
	})
	require.NoError(t, err)

	donor, err := a.DonorUseCase.CreateDonor(ctx, usecase.CreateDonorInput{Name: "Dana", Email: "dana@example.com"})
	require.NoError(t, err)
	charity, err := a.CharityUseCase.CreateCharity(ctx, usecase.CreateCharityInput{Name: "Food Bank", Email: "food@example.com"})
	require.NoError(t, err)

	_, err = a.MessageUseCase.SendMessage(ctx, usecase.SendMessageInput{
		From: donor.ID, FromModel: "Donor", To: charity.ID, ToModel: "Charity", Text: "hello",
	})
	require.NoError(t, err)
	_, err = a.DonorUseCase.Follow(ctx, donor.ID, charity.ID)
	require.NoError(t, err)

	require.NoError(t, a.Shutdown(ctx))

	donorProfile, err := a.ProfileUseCase.GetProfile(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), donorProfile.MessagesCount)
	assert.Equal(t, int64(1), donorProfile.FollowingCount)
	assert.Equal(t, donor.ID, donorProfile.DonorID)

	charityProfile, err := a.ProfileUseCase.GetProfile(ctx, "food@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), charityProfile.MessagesCount)
	assert.Equal(t, int64(1), charityProfile.FollowersCount)

	assert.Equal(t, 0.0, testutil.ToFloat64(a.Metrics.EventFailures.WithLabelValues(usecase.EventCounterChanged)))
	assert.Equal(t, 4.0, testutil.ToFloat64(a.Metrics.EventsPublished.WithLabelValues(usecase.EventCounterChanged)))
}

func TestShutdownIsSafeWithoutStart(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), slogt.New(t))
	require.NoError(t, err)
	assert.NoError(t, a.Shutdown(context.Background()))
}
