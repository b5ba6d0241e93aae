package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"yt-channel-fetcher/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func int64Ptr(v int64) *int64 { return &v }

func testResult() *model.FetchResult {
	subs := uint64(1200)
	published := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	return &model.FetchResult{
		Channel: model.ChannelInfo{ID: "UCabcdefghijklmnopqrstuv", Title: "Gopher TV", SubscriberCount: &subs},
		Items: []model.ContentItem{
			{ContentID: "v1", Type: model.ContentTypeVideo, Title: "Intro", ChannelTitle: "Gopher TV",
				PublishedAt: published, DurationSeconds: int64Ptr(125), ViewCount: 1500, LikeCount: 20,
				Tags: []string{"go"}, URL: "https://youtu.be/v1"},
			{ContentID: "s1", Type: model.ContentTypeShort, Title: "Tiny", ChannelTitle: "Gopher TV",
				PublishedAt: published, DurationSeconds: int64Ptr(30), ViewCount: 10, URL: "https://youtu.be/s1"},
			{ContentID: "l1", Type: model.ContentTypeLiveEnded, Title: "Stream", ChannelTitle: "Gopher TV",
				PublishedAt: published, DurationSeconds: int64Ptr(3600), URL: "https://youtu.be/l1"},
			{ContentID: "p1", Type: model.ContentTypePlaylist, Title: "All", ChannelTitle: "Gopher TV",
				PublishedAt: published, ItemCount: 3, URL: "https://youtube.com/playlist?list=p1"},
			{ContentID: "v2", Type: model.ContentTypeVideo, Title: "Outro", ChannelTitle: "Gopher TV",
				PublishedAt: published, DurationSeconds: int64Ptr(61), URL: "https://youtu.be/v2"},
		},
		FetchedAt: published,
	}
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "Live_Stream_Scheduled", SheetName("Live Stream (Scheduled)", used))
	assert.Equal(t, "ab", SheetName("a:b\x07", used))
	assert.Equal(t, "Live_Stream_Scheduled_2", SheetName("Live Stream [Scheduled]", used))

	long := SheetName(strings.Repeat("x", 40), used)
	assert.Len(t, long, 31)
	dup := SheetName(strings.Repeat("x", 40), used)
	assert.Len(t, dup, 31)
	assert.True(t, strings.HasSuffix(dup, "_2"))
	assert.Equal(t, "Sheet", SheetName("()", used))
}

func TestSheets_Layout(t *testing.T) {
	sheets := Sheets(testResult())

	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"All_Content", "Channel_Info", "Video", "Short", "Live_Stream_Ended", "Playlist"}, names)
	assert.Len(t, sheets[0].Rows, 6)
	assert.Len(t, sheets[2].Rows, 3)

	intro := sheets[0].Rows[1]
	assert.Equal(t, "2:05", intro[4])
	assert.Equal(t, int64(1500), intro[5])
	assert.Equal(t, "1.5K", intro[6])
	assert.Equal(t, "go", intro[11])

	playlist := sheets[0].Rows[4]
	assert.Equal(t, "3 videos", playlist[4])
	assert.Equal(t, "N/A", playlist[5])
	assert.Equal(t, "No description", playlist[11])
}

func TestXLSXExporter_Export(t *testing.T) {
	exporter := NewXLSXExporter()
	assert.Equal(t, "xlsx", exporter.Extension())

	data, err := exporter.Export(testResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"All_Content", "Channel_Info", "Video", "Short", "Live_Stream_Ended", "Playlist"}, f.GetSheetList())

	rows, err := f.GetRows("All_Content")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, ContentHeader, rows[0])
	assert.Equal(t, "Intro", rows[1][2])
	assert.Equal(t, "1500", rows[1][5])

	info, err := f.GetRows("Channel_Info")
	require.NoError(t, err)
	assert.Equal(t, []string{"Channel_Title", "Gopher TV"}, info[2])
	assert.Equal(t, []string{"Subscribers", "1200"}, info[3])
}

func TestXLSXExporter_EmptyResult(t *testing.T) {
	data, err := NewXLSXExporter().Export(&model.FetchResult{Channel: model.ChannelInfo{Title: "Empty"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"All_Content", "Channel_Info"}, f.GetSheetList())
}
