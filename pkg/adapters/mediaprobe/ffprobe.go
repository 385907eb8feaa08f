package mediaprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/user/reelsort/pkg/ports"
)

// ffprobeOutput mirrors the subset of `ffprobe -of json` used here.
type ffprobeOutput struct {
	Streams []struct {
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

func (p *Prober) probeFFprobe(ctx context.Context, path string) (ports.MediaInfo, error) {
	ffprobePath, err := p.locateFFprobe()
	if err != nil {
		return ports.MediaInfo{}, err
	}

	out, err := p.run(ctx, ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,avg_frame_rate,duration:format=format_name,duration",
		"-of", "json",
		path,
	)
	if err != nil {
		return ports.MediaInfo{}, err
	}

	return parseFFprobe(out)
}

func parseFFprobe(data []byte) (ports.MediaInfo, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ports.MediaInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return ports.MediaInfo{}, ErrNoVideoTrack
	}

	stream := out.Streams[0]
	info := ports.MediaInfo{
		Container: firstFormatName(out.Format.FormatName),
		Codec:     stream.CodecName,
		Width:     stream.Width,
		Height:    stream.Height,
		FrameRate: parseRational(stream.AvgFrameRate),
		Duration:  parseSeconds(out.Format.Duration),
	}
	if info.Duration == 0 {
		info.Duration = parseSeconds(stream.Duration)
	}
	if info.Codec == "" {
		info.Codec = "unknown"
	}

	return info, nil
}

// firstFormatName returns the first entry of a comma separated demuxer list
// such as "mov,mp4,m4a,3gp,3g2,mj2".
func firstFormatName(s string) string {
	name, _, _ := strings.Cut(s, ",")
	return name
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseRational parses ffprobe rates like "30000/1001".
func parseRational(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	if !found {
		return parseSeconds(s)
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
