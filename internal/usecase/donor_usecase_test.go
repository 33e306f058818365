package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charityconnect/internal/domain/entity"
	"charityconnect/pkg/errors"
)

func TestCreateDonorSeedsWelcomeNotices(t *testing.T) {
	h := newHarness(t)

	donor, err := h.donorUC.CreateDonor(context.Background(), CreateDonorInput{Name: "Dana", Email: "dana@example.com"})
	require.NoError(t, err)
	require.Len(t, donor.Messages, 3)
	assert.Equal(t, "Welcome to CharityConnect, Dana! This is where you'll find your messages and notifications.", donor.Messages[0].Message)
	assert.Equal(t, "You can send and receive messages with charities through this platform.", donor.Messages[1].Message)
	assert.Equal(t, entity.SystemSender, donor.Messages[2].From)
	assert.Equal(t, "Dana", donor.Messages[2].To)

	_, err = h.donorUC.CreateDonor(context.Background(), CreateDonorInput{Name: "Other", Email: "dana@example.com"})
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestFollowAndUnfollow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addDonor(t, "d1", "Dana")
	h.addCharity(t, "c1", "Clean Water")

	result, err := h.donorUC.Follow(ctx, "d1", "c1")
	require.NoError(t, err)
	assert.Equal(t, &FollowResult{FollowingCount: 1, FollowersCount: 1}, result)

	_, err = h.donorUC.Follow(ctx, "d1", "c1")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	charity, err := h.charities.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, charity.Followers)
	require.Len(t, charity.Messages, 1)
	assert.Equal(t, "Dana is now following your charity.", charity.Messages[0].Message)

	result, err = h.donorUC.Unfollow(ctx, "d1", "c1")
	require.NoError(t, err)
	assert.Equal(t, &FollowResult{FollowingCount: 0, FollowersCount: 0}, result)

	_, err = h.donorUC.Unfollow(ctx, "d1", "c1")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	charity, err = h.charities.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, charity.Messages, 2)
	assert.Equal(t, "Dana has unfollowed your charity.", charity.Messages[1].Message)

	assert.Equal(t, []CounterChanged{
		{Email: "d1@donors.test", Counter: entity.CounterFollowing, Delta: 1},
		{Email: "c1@charities.test", Counter: entity.CounterFollowers, Delta: 1},
		{Email: "d1@donors.test", Counter: entity.CounterFollowing, Delta: -1},
		{Email: "c1@charities.test", Counter: entity.CounterFollowers, Delta: -1},
	}, h.publisher.counters())
}

func TestFollowMissingEntities(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addDonor(t, "d1", "Dana")

	_, err := h.donorUC.Follow(ctx, "d1", "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = h.donorUC.Follow(ctx, "missing", "c1")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestDonorFeed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addDonor(t, "d1", "Dana")
	h.addCharity(t, "c1", "Clean Water")
	h.addCharity(t, "c2", "Warm Meals")
	h.addCharity(t, "c3", "Not Followed")

	feed, err := h.donorUC.Feed(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, feed)

	_, err = h.charityUC.CreatePost(ctx, "c1", CreatePostInput{Text: "first"})
	require.NoError(t, err)
	_, err = h.charityUC.CreatePost(ctx, "c2", CreatePostInput{Text: "second"})
	require.NoError(t, err)
	_, err = h.charityUC.CreatePost(ctx, "c3", CreatePostInput{Text: "hidden"})
	require.NoError(t, err)

	_, err = h.donorUC.Follow(ctx, "d1", "c1")
	require.NoError(t, err)
	_, err = h.donorUC.Follow(ctx, "d1", "c2")
	require.NoError(t, err)

	feed, err = h.donorUC.Feed(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "second", feed[0].Text)
	assert.Equal(t, "Warm Meals", feed[0].Charity.Name)
	assert.True(t, feed[0].Charity.Verified)
	assert.Equal(t, "first", feed[1].Text)

	_, err = h.donorUC.Feed(ctx, "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestDonorInitMessages(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addDonor(t, "d1", "Dana")

	seeded, err := h.donorUC.InitMessages(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, seeded, 3)

	again, err := h.donorUC.InitMessages(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, seeded, again)

	donor, err := h.donors.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, donor.Messages, 3)
}
