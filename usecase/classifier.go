package usecase

import (
	"regexp"
	"strconv"

	"yt-channel-fetcher/domain/model"
)

// ShortMaxSeconds is the longest duration still classified as a Short.
const ShortMaxSeconds = 60

const zeroLengthMarker = "P0D"

// Days are accepted as well since streams longer than a day report P1DT2H...
var durationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDuration converts an ISO-8601 duration such as PT1H2M3S to seconds.
// ok is false when the value carries no length at all: empty, or the P0D marker of a stream in progress.
// Values that do not follow the PT layout yield 0 with ok true.
func ParseDuration(iso string) (seconds int64, ok bool) {
	d := parseDuration(iso)
	return d.seconds, d.known
}

// videoLength is a parsed duration. matched is false when the value did not follow the PT layout.
type videoLength struct {
	seconds int64
	known   bool
	matched bool
}

func parseDuration(iso string) videoLength {
	if iso == "" || iso == zeroLengthMarker {
		return videoLength{}
	}
	m := durationPattern.FindStringSubmatch(iso)
	if m == nil {
		return videoLength{known: true}
	}
	var seconds int64
	units := []int64{86400, 3600, 60, 1}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return videoLength{known: true}
		}
		seconds += n * unit
	}
	return videoLength{seconds: seconds, known: true, matched: true}
}

// secondsPtr is nil when the length is unknown.
func (d videoLength) secondsPtr() *int64 {
	if !d.known {
		return nil
	}
	seconds := d.seconds
	return &seconds
}

// Classify derives the content type of a video from its duration and live broadcast metadata.
// Live metadata always wins; a known duration of at most a minute is a Short.
func Classify(durationISO string, live *model.LiveDetails) model.ContentType {
	return classify(parseDuration(durationISO), live)
}

func classify(d videoLength, live *model.LiveDetails) model.ContentType {
	if live != nil {
		switch {
		case live.ActualEndTime != "":
			return model.ContentTypeLiveEnded
		case live.ActualStartTime != "":
			return model.ContentTypeLiveActive
		default:
			return model.ContentTypeLiveScheduled
		}
	}
	if d.matched && d.seconds <= ShortMaxSeconds {
		return model.ContentTypeShort
	}
	return model.ContentTypeVideo
}
