package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"yt-channel-fetcher/domain/dto"
	"yt-channel-fetcher/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestUseCase(factory *MockYouTubeFactory, store *MockSessionStore) *ChannelUseCase {
	uc := NewChannelUseCase(factory, store, model.FetchOptions{PageSize: 50})
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func sampleResult() *model.FetchResult {
	subs := uint64(12_300)
	short := int64(42)
	long := int64(3723)
	return &model.FetchResult{
		Channel: model.ChannelInfo{ID: testChannelID, Title: "Gopher TV", SubscriberCount: &subs, UploadsPlaylistID: testUploadsID},
		Items: []model.ContentItem{
			{ContentID: "v1", Type: model.ContentTypeVideo, Title: "Learning Go", PublishedAt: baseTime.AddDate(0, 0, 3), DurationSeconds: &long, ViewCount: 1_500_000, LikeCount: 1200, URL: "https://youtu.be/v1"},
			{ContentID: "v2", Type: model.ContentTypeShort, Title: "go tip", PublishedAt: baseTime.AddDate(0, 0, 2), DurationSeconds: &short, ViewCount: 900},
			{ContentID: "v3", Type: model.ContentTypeLiveEnded, Title: "Live coding", PublishedAt: baseTime.AddDate(0, 0, 1), ViewCount: 100, Tags: []string{"live"}},
			{ContentID: "PL1", Type: model.ContentTypePlaylist, Title: "Go course", PublishedAt: baseTime, ItemCount: 9, ViewCount: 5},
		},
		FetchedAt: fixedNow,
	}
}

func TestChannelUseCase_Fetch(t *testing.T) {
	yt := new(MockYouTube)
	factory := new(MockYouTubeFactory)
	store := new(MockSessionStore)
	events := new(MockFetchEventPublisher)

	factory.On("NewClient", mock.Anything, dto.Credential{APIKey: "key"}).Return(yt, nil).Once()
	yt.On("GetChannel", mock.Anything, testChannelID).Return(testChannel(), nil).Once()
	yt.On("ListPlaylistItems", mock.Anything, testUploadsID, "", int64(50)).Return(&dto.PlaylistItemPage{Items: []dto.PlaylistEntry{
		{VideoID: "a", Title: "A", PublishedAt: baseTime},
	}}, nil).Once()
	yt.On("ListVideoDetails", mock.Anything, []string{"a"}).Return([]dto.VideoDetail{detail("a", "PT10M", 0)}, nil).Once()

	var stored *model.FetchResult
	store.On("Replace", mock.Anything, "session-1", mock.AnythingOfType("*model.FetchResult")).
		Run(func(args mock.Arguments) { stored = args.Get(2).(*model.FetchResult) }).
		Return(nil).Once()
	events.On("PublishFetchCompleted", mock.Anything, mock.AnythingOfType("*dto.FetchCompletedEvent")).Return(errors.New("topic gone")).Once()

	uc := newTestUseCase(factory, store).WithEventPublisher(events)
	noLive := false
	var progress []dto.Progress
	summary, err := uc.Fetch(context.Background(), "session-1", &dto.FetchRequest{Channel: testChannelID, APIKey: "key", IncludeLive: &noLive}, func(p dto.Progress) {
		progress = append(progress, p)
	})

	require.NoError(t, err, "publish failures do not fail the fetch")
	assert.Equal(t, 1, summary.TotalItems)
	assert.Equal(t, map[string]int{"Video": 1}, summary.TypeCounts)
	require.NotNil(t, stored)
	assert.Equal(t, fixedNow, stored.FetchedAt)
	assert.False(t, stored.Options.IncludeLive)
	assert.Len(t, progress, 1)
	factory.AssertExpectations(t)
	yt.AssertExpectations(t)
	store.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestChannelUseCase_FetchErrors(t *testing.T) {
	t.Run("missing credential", func(t *testing.T) {
		factory := new(MockYouTubeFactory)
		factory.On("NewClient", mock.Anything, dto.Credential{}).Return(nil, model.ErrMissingCredential).Once()

		_, err := newTestUseCase(factory, new(MockSessionStore)).Fetch(context.Background(), "s", &dto.FetchRequest{Channel: "gopher"}, nil)
		assert.ErrorIs(t, err, model.ErrMissingCredential)
	})

	t.Run("channel info unavailable", func(t *testing.T) {
		yt := new(MockYouTube)
		factory := new(MockYouTubeFactory)
		store := new(MockSessionStore)
		factory.On("NewClient", mock.Anything, mock.Anything).Return(yt, nil).Once()
		yt.On("GetChannel", mock.Anything, testChannelID).Return(nil, nil).Once()

		_, err := newTestUseCase(factory, store).Fetch(context.Background(), "s", &dto.FetchRequest{Channel: testChannelID, APIKey: "k"}, nil)
		assert.ErrorIs(t, err, model.ErrChannelInfoUnavailable)
		store.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("enumeration failure keeps previous result", func(t *testing.T) {
		yt := new(MockYouTube)
		factory := new(MockYouTubeFactory)
		store := new(MockSessionStore)
		factory.On("NewClient", mock.Anything, mock.Anything).Return(yt, nil).Once()
		yt.On("GetChannel", mock.Anything, testChannelID).Return(testChannel(), nil).Once()
		yt.On("ListPlaylistItems", mock.Anything, testUploadsID, "", int64(50)).Return(nil, &model.TransportError{Op: "playlistItems.list", Err: errors.New("500")}).Once()

		_, err := newTestUseCase(factory, store).Fetch(context.Background(), "s", &dto.FetchRequest{Channel: testChannelID, APIKey: "k"}, nil)
		var transportErr *model.TransportError
		assert.True(t, errors.As(err, &transportErr))
		store.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty reference", func(t *testing.T) {
		_, err := newTestUseCase(new(MockYouTubeFactory), new(MockSessionStore)).Fetch(context.Background(), "s", &dto.FetchRequest{Channel: " "}, nil)
		assert.ErrorIs(t, err, model.ErrChannelNotFound)
	})
}

func TestChannelUseCase_Summary(t *testing.T) {
	store := new(MockSessionStore)
	store.On("Load", mock.Anything, "s").Return(sampleResult(), nil).Once()
	store.On("Load", mock.Anything, "new").Return(nil, nil).Once()
	uc := newTestUseCase(new(MockYouTubeFactory), store)

	summary, err := uc.Summary(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, "12.3K", summary.Subscribers)
	assert.Equal(t, "N/A", summary.VideoCount)
	assert.Equal(t, int64(1_501_000), summary.TotalViews, "playlists do not count towards views")
	assert.Equal(t, "1.5M", summary.TotalViewsDisplay)
	assert.Equal(t, 4, summary.TotalItems)
	assert.Equal(t, 1, summary.TypeCounts["Playlist"])

	_, err = uc.Summary(context.Background(), "new")
	assert.ErrorIs(t, err, model.ErrNoFetchResult)
}

func TestBuildSummary_HiddenSubscribers(t *testing.T) {
	result := sampleResult()
	result.Channel.SubscriberCount = nil
	assert.Equal(t, "Hidden", buildSummary(result).Subscribers)
}

func TestChannelUseCase_Content(t *testing.T) {
	store := new(MockSessionStore)
	store.On("Load", mock.Anything, "s").Return(sampleResult(), nil)
	uc := newTestUseCase(new(MockYouTubeFactory), store)
	ctx := context.Background()

	page, err := uc.Content(ctx, "s", &dto.ContentFilter{Query: "GO"})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 3, page.Matched, "case-insensitive title search")

	page, err = uc.Content(ctx, "s", &dto.ContentFilter{Type: "Short"})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "0:42", page.Rows[0].Duration)

	page, err = uc.Content(ctx, "s", &dto.ContentFilter{Rows: "2"})
	require.NoError(t, err)
	assert.Len(t, page.Rows, 2)
	assert.Equal(t, 4, page.Matched)

	page, err = uc.Content(ctx, "s", &dto.ContentFilter{Type: "all", Rows: "all"})
	require.NoError(t, err)
	require.Len(t, page.Rows, 4)
	first, live, playlist := page.Rows[0], page.Rows[2], page.Rows[3]
	assert.Equal(t, "1.5M", first.Views)
	assert.Equal(t, "1:02:03", first.Duration)
	assert.Equal(t, "2024-01-04", first.Published)
	assert.Equal(t, "No tags", first.Tags)
	assert.Equal(t, "Live/Ongoing", live.Duration)
	assert.Equal(t, "live", live.Tags)
	assert.Equal(t, "9 videos", playlist.Duration)
	assert.Equal(t, "N/A", playlist.Views)

	page, err = uc.Content(ctx, "s", &dto.ContentFilter{Raw: true, Rows: "1"})
	require.NoError(t, err)
	assert.Equal(t, "1500000", page.Rows[0].Views)
}

func TestChannelUseCase_Export(t *testing.T) {
	store := new(MockSessionStore)
	store.On("Load", mock.Anything, "s").Return(sampleResult(), nil)
	exporter := new(MockExporter)
	exporter.On("Extension").Return("xlsx")
	exporter.On("ContentType").Return("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	exporter.On("Export", mock.AnythingOfType("*model.FetchResult")).Return([]byte("data"), nil).Once()

	uc := newTestUseCase(new(MockYouTubeFactory), store).WithExporters(exporter)

	file, err := uc.Export(context.Background(), "s", "XLSX")
	require.NoError(t, err)
	assert.Equal(t, "Gopher_TV_content_20240506_070809.xlsx", file.Filename)
	assert.Equal(t, []byte("data"), file.Data)

	_, err = uc.Export(context.Background(), "s", "pdf")
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
	exporter.AssertExpectations(t)
}

func TestChannelUseCase_ExportToSheets(t *testing.T) {
	store := new(MockSessionStore)
	store.On("Load", mock.Anything, "s").Return(sampleResult(), nil)

	_, err := newTestUseCase(new(MockYouTubeFactory), store).ExportToSheets(context.Background(), "s")
	assert.ErrorIs(t, err, model.ErrExportUnavailable)

	sheets := new(MockSheetExporter)
	sheets.On("Export", mock.Anything, mock.AnythingOfType("*model.FetchResult")).Return(&dto.SheetExport{SpreadsheetID: "abc"}, nil).Once()
	out, err := newTestUseCase(new(MockYouTubeFactory), store).WithSheetExporter(sheets).ExportToSheets(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, "abc", out.SpreadsheetID)
	sheets.AssertExpectations(t)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "Rock_Roll_content_20240506_070809.csv", exportFilename("Rock & Roll!", fixedNow, "csv"))
	assert.Equal(t, "channel_content_20240506_070809.csv", exportFilename("***", fixedNow, "csv"))
}
