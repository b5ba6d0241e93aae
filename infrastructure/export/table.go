package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/infrastructure/utils"
)

const (
	SheetAllContent  = "All_Content"
	SheetChannelInfo = "Channel_Info"

	maxSheetNameLength = 31
)

// ContentHeader is the header row of every content sheet.
var ContentHeader = []string{
	"Channel_Name", "Type", "Title", "Published", "Duration",
	"Views", "Views_Formatted", "Likes", "Likes_Formatted",
	"Comments", "Comments_Formatted", "Tags", "Content_ID", "URL",
}

var invalidSheetChars = strings.NewReplacer(
	"(", "", ")", "", "[", "", "]", "", ":", "", "*", "", "?", "", "/", "", "\\", "", "'", "",
)

// Sheet is one named table of a workbook. Rows[0] is the header.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// Sheets lays out a fetch result as All_Content, Channel_Info and one sheet per content type,
// in order of first appearance.
func Sheets(result *model.FetchResult) []Sheet {
	used := make(map[string]bool)
	sheets := []Sheet{
		{Name: SheetName(SheetAllContent, used), Rows: ContentRows(result.Items)},
		{Name: SheetName(SheetChannelInfo, used), Rows: channelInfoRows(result)},
	}
	for _, t := range TypeOrder(result.Items) {
		sheets = append(sheets, Sheet{
			Name: SheetName(string(t), used),
			Rows: ContentRows(filterType(result.Items, t)),
		})
	}
	return sheets
}

// ContentRows returns the header followed by one row per item.
func ContentRows(items []model.ContentItem) [][]interface{} {
	rows := make([][]interface{}, 0, len(items)+1)
	header := make([]interface{}, len(ContentHeader))
	for i, h := range ContentHeader {
		header[i] = h
	}
	rows = append(rows, header)
	for _, item := range items {
		rows = append(rows, []interface{}{
			item.ChannelTitle,
			string(item.Type),
			item.Title,
			utils.FormatDate(item.PublishedAt),
			utils.DurationCell(item),
			countValue(item, item.ViewCount),
			utils.CountCell(item, item.ViewCount, false),
			countValue(item, item.LikeCount),
			utils.CountCell(item, item.LikeCount, false),
			countValue(item, item.CommentCount),
			utils.CountCell(item, item.CommentCount, false),
			utils.TagsCell(item),
			item.ContentID,
			item.URL,
		})
	}
	return rows
}

// TypeOrder lists the content types present in items, in order of first appearance.
func TypeOrder(items []model.ContentItem) []model.ContentType {
	seen := make(map[model.ContentType]bool)
	var order []model.ContentType
	for _, item := range items {
		if !seen[item.Type] {
			seen[item.Type] = true
			order = append(order, item.Type)
		}
	}
	return order
}

// SheetName makes name usable as a sheet title and unique among used, recording it there.
func SheetName(name string, used map[string]bool) string {
	name = invalidSheetChars.Replace(strings.ReplaceAll(name, " ", "_"))
	name = strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, name)
	if name == "" {
		name = "Sheet"
	}
	base := truncateRunes(name, maxSheetNameLength)
	candidate := base
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := "_" + strconv.Itoa(i)
		candidate = truncateRunes(base, maxSheetNameLength-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

// Stringify renders a cell the way a text-only format shows it.
func Stringify(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

func channelInfoRows(result *model.FetchResult) [][]interface{} {
	ch := result.Channel
	subscribers := "Hidden"
	if ch.SubscriberCount != nil {
		subscribers = strconv.FormatUint(*ch.SubscriberCount, 10)
	}
	videoCount := utils.NotAvailable
	if ch.VideoCount != nil {
		videoCount = strconv.FormatUint(*ch.VideoCount, 10)
	}
	rows := [][]interface{}{
		{"Field", "Value"},
		{"Channel_ID", ch.ID},
		{"Channel_Title", ch.Title},
		{"Subscribers", subscribers},
		{"Video_Count", videoCount},
		{"Total_Items", int64(len(result.Items))},
		{"Fetched_At", result.FetchedAt.UTC().Format(time.RFC3339)},
	}
	for _, t := range TypeOrder(result.Items) {
		rows = append(rows, []interface{}{string(t), int64(len(filterType(result.Items, t)))})
	}
	return rows
}

func countValue(item model.ContentItem, n int64) interface{} {
	if item.Type == model.ContentTypePlaylist {
		return utils.NotAvailable
	}
	return n
}

func filterType(items []model.ContentItem, t model.ContentType) []model.ContentItem {
	var out []model.ContentItem
	for _, item := range items {
		if item.Type == t {
			out = append(out, item)
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
