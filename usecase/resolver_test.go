package usecase

import (
	"context"
	"errors"
	"testing"

	"yt-channel-fetcher/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testChannelID = "UCabcdefghijklmnopqrstuv"

func TestResolve_CanonicalIDSkipsNetwork(t *testing.T) {
	yt := new(MockYouTube)
	resolver := NewChannelResolver(yt)

	id, err := resolver.Resolve(context.Background(), "  "+testChannelID+" ")

	require.NoError(t, err)
	assert.Equal(t, testChannelID, id)
	yt.AssertNotCalled(t, "ChannelIDByUsername", mock.Anything, mock.Anything)
	yt.AssertNotCalled(t, "ChannelIDByHandle", mock.Anything, mock.Anything)
	yt.AssertNotCalled(t, "SearchChannelID", mock.Anything, mock.Anything)
}

func TestResolve_URLShapes(t *testing.T) {
	t.Run("channel URL is used directly", func(t *testing.T) {
		yt := new(MockYouTube)
		id, err := NewChannelResolver(yt).Resolve(context.Background(), "https://www.youtube.com/channel/"+testChannelID+"?view=0")
		require.NoError(t, err)
		assert.Equal(t, testChannelID, id)
		yt.AssertExpectations(t)
	})

	for _, url := range []string{
		"https://www.youtube.com/c/gophers",
		"https://youtube.com/user/gophers",
		"youtube.com/@gophers/videos",
	} {
		t.Run(url, func(t *testing.T) {
			yt := new(MockYouTube)
			yt.On("ChannelIDByUsername", mock.Anything, "gophers").Return(testChannelID, nil).Once()

			id, err := NewChannelResolver(yt).Resolve(context.Background(), url)

			require.NoError(t, err)
			assert.Equal(t, testChannelID, id)
			yt.AssertExpectations(t)
		})
	}

	t.Run("unknown URL shape", func(t *testing.T) {
		yt := new(MockYouTube)
		_, err := NewChannelResolver(yt).Resolve(context.Background(), "https://youtube.com/watch?v=abc")
		assert.ErrorIs(t, err, model.ErrChannelNotFound)
		yt.AssertExpectations(t)
	})
}

func TestResolve_FallsBackInOrder(t *testing.T) {
	yt := new(MockYouTube)
	yt.On("ChannelIDByUsername", mock.Anything, "gopher").Return("", nil).Once()
	yt.On("ChannelIDByHandle", mock.Anything, "@gopher").Return(testChannelID, nil).Once()

	id, err := NewChannelResolver(yt).Resolve(context.Background(), "gopher")

	require.NoError(t, err)
	assert.Equal(t, testChannelID, id)
	yt.AssertExpectations(t)
	yt.AssertNotCalled(t, "SearchChannelID", mock.Anything, mock.Anything)
}

func TestResolve_HandleIsNormalised(t *testing.T) {
	yt := new(MockYouTube)
	yt.On("ChannelIDByUsername", mock.Anything, "@@gopher").Return("", errors.New("boom")).Once()
	yt.On("ChannelIDByHandle", mock.Anything, "@gopher").Return(testChannelID, nil).Once()

	id, err := NewChannelResolver(yt).Resolve(context.Background(), "@@gopher")

	require.NoError(t, err)
	assert.Equal(t, testChannelID, id)
	yt.AssertExpectations(t)
}

func TestResolve_StrategyErrorsAreRecoverable(t *testing.T) {
	yt := new(MockYouTube)
	upstream := &model.TransportError{Op: "channels.list", Err: errors.New("quota")}
	yt.On("ChannelIDByUsername", mock.Anything, "gopher").Return("", upstream).Once()
	yt.On("ChannelIDByHandle", mock.Anything, "@gopher").Return("", upstream).Once()
	yt.On("SearchChannelID", mock.Anything, "gopher").Return(testChannelID, nil).Once()

	id, err := NewChannelResolver(yt).Resolve(context.Background(), "gopher")

	require.NoError(t, err)
	assert.Equal(t, testChannelID, id)
	yt.AssertExpectations(t)
}

func TestResolve_Exhausted(t *testing.T) {
	yt := new(MockYouTube)
	yt.On("ChannelIDByUsername", mock.Anything, "nobody").Return("", nil).Once()
	yt.On("ChannelIDByHandle", mock.Anything, "@nobody").Return("", nil).Once()
	yt.On("SearchChannelID", mock.Anything, "nobody").Return("", errors.New("boom")).Once()

	_, err := NewChannelResolver(yt).Resolve(context.Background(), "nobody")

	assert.ErrorIs(t, err, model.ErrChannelNotFound)
	yt.AssertExpectations(t)
}

func TestResolve_Empty(t *testing.T) {
	_, err := NewChannelResolver(new(MockYouTube)).Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, model.ErrChannelNotFound)
}
