// Package format resolves user-facing quality and format preferences into
// a yt-dlp selector expression plus ordered post-processing steps.
package format

import (
	"fmt"

	"oxyget/internal/consts"
	"oxyget/internal/entity"
)

// Height ceilings per quality tier.
const (
	heightHigh   = 1080
	heightMedium = 720
	heightLow    = 480
)

// StepKind identifies a post-processing step.
type StepKind string

const (
	// StepTranscodeAudio converts the downloaded audio to the preferred codec.
	StepTranscodeAudio StepKind = "transcode_audio"
	// StepEmbedThumbnail embeds the source thumbnail into the output file.
	StepEmbedThumbnail StepKind = "embed_thumbnail"
)

// Step is one post-processing step. Steps run in slice order; embedding the
// thumbnail always runs last so it lands in the final container.
type Step struct {
	Kind       StepKind
	AudioCodec string // set for StepTranscodeAudio
}

// Request carries the preferences that drive selector resolution.
type Request struct {
	AudioOnly      bool
	Quality        entity.QualityTier
	VideoFormat    string // container preference or "auto"
	AudioFormat    string // codec preference or "auto"
	EmbedThumbnail bool
}

// Plan is a resolved selector expression with its post-processing steps.
type Plan struct {
	Selector string
	Steps    []Step
}

// Resolve maps a request to a selector and post-processing plan.
func Resolve(r Request) Plan {
	var p Plan

	if r.AudioOnly {
		p = resolveAudio(r)
	} else {
		p = resolveVideo(r)
	}

	if r.EmbedThumbnail {
		p.Steps = append(p.Steps, Step{Kind: StepEmbedThumbnail})
	}

	return p
}

func resolveAudio(r Request) Plan {
	if r.AudioFormat == "" || r.AudioFormat == consts.FormatAuto {
		return Plan{Selector: "bestaudio/best"}
	}

	return Plan{
		Selector: fmt.Sprintf("bestaudio[ext=%s]/bestaudio/best", r.AudioFormat),
		Steps:    []Step{{Kind: StepTranscodeAudio, AudioCodec: r.AudioFormat}},
	}
}

func resolveVideo(r Request) Plan {
	tier := tierSelector(r.Quality)

	if r.VideoFormat == "" || r.VideoFormat == consts.FormatAuto {
		return Plan{Selector: tier}
	}

	// The smallest matching file is the whole point of Worst, so a generic
	// fallback that could pick a bigger format is omitted on purpose.
	if r.Quality == entity.QualityWorst {
		return Plan{Selector: fmt.Sprintf("worstvideo[ext=%s]+worstaudio[ext=%s]", r.VideoFormat, r.VideoFormat)}
	}

	preferred := fmt.Sprintf("bestvideo[ext=%s]%s+bestaudio", r.VideoFormat, heightFilter(r.Quality))

	return Plan{Selector: fmt.Sprintf("%s/%s/best[ext=%s]", preferred, tier, r.VideoFormat)}
}

func tierSelector(q entity.QualityTier) string {
	switch q {
	case entity.QualityHigh:
		return cappedSelector(heightHigh)
	case entity.QualityMedium:
		return cappedSelector(heightMedium)
	case entity.QualityLow:
		return cappedSelector(heightLow)
	case entity.QualityWorst:
		return "worstvideo+worstaudio/worst"
	default:
		return "bestvideo+bestaudio/best"
	}
}

func cappedSelector(height int) string {
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", height, height)
}

func heightFilter(q entity.QualityTier) string {
	switch q {
	case entity.QualityHigh:
		return fmt.Sprintf("[height<=%d]", heightHigh)
	case entity.QualityMedium:
		return fmt.Sprintf("[height<=%d]", heightMedium)
	case entity.QualityLow:
		return fmt.Sprintf("[height<=%d]", heightLow)
	default:
		return ""
	}
}
