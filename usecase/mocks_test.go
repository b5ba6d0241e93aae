package usecase

import (
	"context"

	"yt-channel-fetcher/domain/dto"
	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"

	"github.com/stretchr/testify/mock"
)

type MockYouTube struct {
	mock.Mock
}

func (m *MockYouTube) ChannelIDByUsername(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}

func (m *MockYouTube) ChannelIDByHandle(ctx context.Context, handle string) (string, error) {
	args := m.Called(ctx, handle)
	return args.String(0), args.Error(1)
}

func (m *MockYouTube) SearchChannelID(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func (m *MockYouTube) GetChannel(ctx context.Context, channelID string) (*model.ChannelInfo, error) {
	args := m.Called(ctx, channelID)
	info, _ := args.Get(0).(*model.ChannelInfo)
	return info, args.Error(1)
}

func (m *MockYouTube) ListPlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int64) (*dto.PlaylistItemPage, error) {
	args := m.Called(ctx, playlistID, pageToken, maxResults)
	page, _ := args.Get(0).(*dto.PlaylistItemPage)
	return page, args.Error(1)
}

func (m *MockYouTube) ListVideoDetails(ctx context.Context, videoIDs []string) ([]dto.VideoDetail, error) {
	args := m.Called(ctx, videoIDs)
	details, _ := args.Get(0).([]dto.VideoDetail)
	return details, args.Error(1)
}

func (m *MockYouTube) SearchCompletedLive(ctx context.Context, channelID, pageToken string, maxResults int64) (*dto.SearchPage, error) {
	args := m.Called(ctx, channelID, pageToken, maxResults)
	page, _ := args.Get(0).(*dto.SearchPage)
	return page, args.Error(1)
}

func (m *MockYouTube) ListPlaylists(ctx context.Context, channelID, pageToken string, maxResults int64) (*dto.PlaylistPage, error) {
	args := m.Called(ctx, channelID, pageToken, maxResults)
	page, _ := args.Get(0).(*dto.PlaylistPage)
	return page, args.Error(1)
}

type MockYouTubeFactory struct {
	mock.Mock
}

func (m *MockYouTubeFactory) NewClient(ctx context.Context, credential dto.Credential) (repository.IYouTube, error) {
	args := m.Called(ctx, credential)
	client, _ := args.Get(0).(repository.IYouTube)
	return client, args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Load(ctx context.Context, sessionID string) (*model.FetchResult, error) {
	args := m.Called(ctx, sessionID)
	result, _ := args.Get(0).(*model.FetchResult)
	return result, args.Error(1)
}

func (m *MockSessionStore) Replace(ctx context.Context, sessionID string, result *model.FetchResult) error {
	args := m.Called(ctx, sessionID, result)
	return args.Error(0)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Extension() string {
	return m.Called().String(0)
}

func (m *MockExporter) ContentType() string {
	return m.Called().String(0)
}

func (m *MockExporter) Export(result *model.FetchResult) ([]byte, error) {
	args := m.Called(result)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type MockSheetExporter struct {
	mock.Mock
}

func (m *MockSheetExporter) Export(ctx context.Context, result *model.FetchResult) (*dto.SheetExport, error) {
	args := m.Called(ctx, result)
	out, _ := args.Get(0).(*dto.SheetExport)
	return out, args.Error(1)
}

type MockFetchEventPublisher struct {
	mock.Mock
}

func (m *MockFetchEventPublisher) PublishFetchCompleted(ctx context.Context, event *dto.FetchCompletedEvent) error {
	return m.Called(ctx, event).Error(0)
}
