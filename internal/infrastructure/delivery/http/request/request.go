package request

import (
	"oxyget/internal/entity"
	"oxyget/internal/errs"
	"oxyget/pkg/urls"
)

// Enqueue is the body of a job submission. OutputFilename is optional and
// replaces the engine's templated file name.
type Enqueue struct {
	URL            string `json:"url"`
	AudioOnly      bool   `json:"audioOnly"`
	OutputFilename string `json:"outputFilename"`
}

func (e *Enqueue) Validate() error {
	if e.URL == "" {
		return errs.ErrEmptyURL
	}

	if !urls.IsValid(e.URL) {
		return errs.ErrInvalidURL
	}

	return nil
}

// SaveCookie is the body of a cookie upload for a domain.
type SaveCookie struct {
	Cookies string `json:"cookies"` // Netscape cookie file content
}

func (c *SaveCookie) Validate() error {
	if c.Cookies == "" {
		return errs.ErrInvalidRequestBody
	}

	return nil
}

// SaveCredentials is the body of a credentials upload for a domain.
type SaveCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *SaveCredentials) Validate() error {
	if c.Username == "" {
		return errs.ErrInvalidRequestBody
	}

	return nil
}

// UpdateSettings carries a partial settings edit. Only non-nil fields are
// applied.
type UpdateSettings struct {
	VideoQuality    *string   `json:"video_quality"`
	VideoFormat     *string   `json:"video_format"`
	VideoOutputPath *string   `json:"video_output_path"`
	AudioFormat     *string   `json:"audio_format"`
	AudioOutputPath *string   `json:"audio_output_path"`
	Proxy           *string   `json:"proxy"`
	SubLangs        *[]string `json:"sublangs"`
	WriteThumbnail  *bool     `json:"write_thumbnail"`
	EmbedThumbnail  *bool     `json:"embed_thumbnail"`
	Segments        *int      `json:"segments"`
	Retries         *int      `json:"retries"`
	BufferSize      *string   `json:"buffer_size"`
	CacheDir        *string   `json:"cache_dir"`
}

// Apply copies the set fields onto st. Validation happens in the settings
// store, not here.
func (u *UpdateSettings) Apply(st *entity.Settings) {
	if u.VideoQuality != nil {
		st.VideoQuality = entity.QualityTier(*u.VideoQuality)
	}

	if u.VideoFormat != nil {
		st.VideoFormat = *u.VideoFormat
	}

	if u.VideoOutputPath != nil {
		st.VideoOutputPath = *u.VideoOutputPath
	}

	if u.AudioFormat != nil {
		st.AudioFormat = *u.AudioFormat
	}

	if u.AudioOutputPath != nil {
		st.AudioOutputPath = *u.AudioOutputPath
	}

	if u.Proxy != nil {
		st.Proxy = *u.Proxy
	}

	if u.SubLangs != nil {
		st.SubLangs = *u.SubLangs
	}

	if u.WriteThumbnail != nil {
		st.WriteThumbnail = *u.WriteThumbnail
	}

	if u.EmbedThumbnail != nil {
		st.EmbedThumbnail = *u.EmbedThumbnail
	}

	if u.Segments != nil {
		st.Segments = *u.Segments
	}

	if u.Retries != nil {
		st.Retries = *u.Retries
	}

	if u.BufferSize != nil {
		st.BufferSize = *u.BufferSize
	}

	if u.CacheDir != nil {
		st.CacheDir = *u.CacheDir
	}
}
