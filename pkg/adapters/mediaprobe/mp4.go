package mediaprobe

import (
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/reelsort/pkg/ports"
)

// ProbeMP4 reads metadata from an ISO-BMFF stream without loading media data.
func ProbeMP4(reader io.ReadSeeker) (ports.MediaInfo, error) {
	mp4File, err := mp4.DecodeFile(reader, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.MediaInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	moov := mp4File.Moov
	if moov == nil && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return ports.MediaInfo{}, fmt.Errorf("no moov box found")
	}

	trak := videoTrack(moov)
	if trak == nil {
		return ports.MediaInfo{}, ErrNoVideoTrack
	}

	info := ports.MediaInfo{
		Container: "mp4",
		Codec:     codecName(trak),
		Duration:  movieDuration(moov, trak),
	}
	info.Width, info.Height = trackDimensions(trak)

	if info.Duration > 0 && !mp4File.IsFragmented() {
		if stbl := sampleTable(trak); stbl != nil && stbl.Stsz != nil {
			info.FrameRate = float64(stbl.Stsz.SampleNumber) / info.Duration
		}
	}

	return info, nil
}

func videoTrack(moov *mp4.MoovBox) *mp4.TrakBox {
	for _, trak := range moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			return trak
		}
	}
	return nil
}

// movieDuration prefers the movie header, then the media header of the video
// track, then the fragment duration of a fragmented file.
func movieDuration(moov *mp4.MoovBox, trak *mp4.TrakBox) float64 {
	if moov.Mvhd != nil && moov.Mvhd.Timescale > 0 && moov.Mvhd.Duration > 0 {
		return float64(moov.Mvhd.Duration) / float64(moov.Mvhd.Timescale)
	}

	if mdhd := trak.Mdia.Mdhd; mdhd != nil && mdhd.Timescale > 0 && mdhd.Duration > 0 {
		return float64(mdhd.Duration) / float64(mdhd.Timescale)
	}

	if moov.Mvex != nil && moov.Mvex.Mehd != nil && moov.Mvhd != nil && moov.Mvhd.Timescale > 0 {
		return float64(moov.Mvex.Mehd.FragmentDuration) / float64(moov.Mvhd.Timescale)
	}

	return 0
}

func trackDimensions(trak *mp4.TrakBox) (int, int) {
	if trak.Tkhd != nil {
		w := int(uint32(trak.Tkhd.Width) >> 16)
		h := int(uint32(trak.Tkhd.Height) >> 16)
		if w > 0 && h > 0 {
			return w, h
		}
	}

	if stsd := sampleDescription(trak); stsd != nil {
		for _, child := range stsd.Children {
			if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
				return int(vse.Width), int(vse.Height)
			}
		}
	}
	return 0, 0
}

func codecName(trak *mp4.TrakBox) string {
	stsd := sampleDescription(trak)
	if stsd == nil {
		return "unknown"
	}

	for _, child := range stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			return "h264"
		case "hvc1", "hev1":
			return "hevc"
		case "av01":
			return "av1"
		case "vp09":
			return "vp9"
		}
	}
	return "unknown"
}

func sampleTable(trak *mp4.TrakBox) *mp4.StblBox {
	if trak.Mdia == nil || trak.Mdia.Minf == nil {
		return nil
	}
	return trak.Mdia.Minf.Stbl
}

func sampleDescription(trak *mp4.TrakBox) *mp4.StsdBox {
	if stbl := sampleTable(trak); stbl != nil {
		return stbl.Stsd
	}
	return nil
}
