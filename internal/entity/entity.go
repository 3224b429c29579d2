// Package entity defines the core entities used in the application.
package entity

import (
	"log/slog"
	"time"

	"oxyget/internal/errs"
)

// QualityTier is a named video quality ceiling.
type QualityTier string

const (
	// QualityBest selects the best available video and audio.
	QualityBest QualityTier = "Best"
	// QualityHigh caps video height at 1080 pixels.
	QualityHigh QualityTier = "High"
	// QualityMedium caps video height at 720 pixels.
	QualityMedium QualityTier = "Medium"
	// QualityLow caps video height at 480 pixels.
	QualityLow QualityTier = "Low"
	// QualityWorst selects the smallest available video and audio.
	QualityWorst QualityTier = "Worst"
)

// ParseQualityTier validates a quality tier name.
func ParseQualityTier(s string) (QualityTier, error) {
	switch QualityTier(s) {
	case QualityBest, QualityHigh, QualityMedium, QualityLow, QualityWorst:
		return QualityTier(s), nil
	default:
		return "", errs.ErrInvalidQuality
	}
}

// Job represents a single download request waiting in or taken from the queue.
type Job struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	AudioOnly bool   `json:"audioOnly"`
	// OutputFilename, when set, replaces the engine's templated file name.
	OutputFilename string    `json:"outputFilename,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// LogValue implements the slog.LogValuer interface for structured logging.
func (j Job) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", j.ID),
		slog.String("url", j.URL),
		slog.Bool("audio_only", j.AudioOnly),
		slog.String("output_filename", j.OutputFilename),
		slog.Time("submitted_at", j.SubmittedAt),
	)
}

// Settings holds every user-tunable download option. The zero value is not
// usable; the settings store fills in defaults on first load and on reset.
type Settings struct {
	Version int `json:"version"`

	VideoQuality    QualityTier `json:"video_quality"`
	VideoFormat     string      `json:"video_format"` // container preference or "auto"
	VideoOutputPath string      `json:"video_output_path"`

	AudioFormat     string `json:"audio_format"` // codec preference or "auto"
	AudioOutputPath string `json:"audio_output_path"`

	Proxy          string   `json:"proxy"`
	SubLangs       []string `json:"sublangs"`
	WriteThumbnail bool     `json:"write_thumbnail"`
	EmbedThumbnail bool     `json:"embed_thumbnail"`

	Segments   int    `json:"segments"`
	Retries    int    `json:"retries"`
	BufferSize string `json:"buffer_size"`
	CacheDir   string `json:"cache_dir"`
}

// Clone returns a deep copy so a job keeps the options captured at dequeue
// time even if the user edits settings mid-download.
func (s Settings) Clone() Settings {
	out := s
	out.SubLangs = append([]string(nil), s.SubLangs...)

	return out
}

// LogValue implements the slog.LogValuer interface for structured logging.
func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("video_quality", string(s.VideoQuality)),
		slog.String("video_format", s.VideoFormat),
		slog.String("audio_format", s.AudioFormat),
		slog.String("proxy", s.Proxy),
		slog.Int("segments", s.Segments),
		slog.Int("retries", s.Retries),
		slog.String("buffer_size", s.BufferSize),
	)
}

// Progress is a normalized snapshot of a running download.
type Progress struct {
	JobID      string  `json:"jobId"`
	URL        string  `json:"url"`
	Filename   string  `json:"filename,omitempty"`
	Fraction   float64 `json:"fraction"` // 0..1, 0 when total size is unknown
	Downloaded int64   `json:"downloaded"`
	Total      int64   `json:"total,omitempty"`
	Finished   bool    `json:"finished"`
}

// MediaInfo carries metadata extracted for a completed download.
type MediaInfo struct {
	SourceID  string `json:"sourceId,omitempty"`
	Title     string `json:"title,omitempty"`
	Extractor string `json:"extractor,omitempty"`
}

// Result is the terminal outcome of a job.
type Result struct {
	JobID      string    `json:"jobId"`
	URL        string    `json:"url"`
	Success    bool      `json:"success"`
	Filename   string    `json:"filename,omitempty"`
	OutputDir  string    `json:"outputDir,omitempty"`
	Info       MediaInfo `json:"info,omitzero"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finishedAt"`
}

// LogValue implements the slog.LogValuer interface for structured logging.
func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("job_id", r.JobID),
		slog.String("url", r.URL),
		slog.Bool("success", r.Success),
		slog.String("filename", r.Filename),
		slog.String("error", r.Error),
	)
}

// RecordOutcome is the terse outcome label stored in history records.
type RecordOutcome string

const (
	// RecordSuccess marks a completed download.
	RecordSuccess RecordOutcome = "Success"
	// RecordFailed marks a failed download.
	RecordFailed RecordOutcome = "Failed"
)

// LogRecord is one line of persisted download history.
type LogRecord struct {
	Result RecordOutcome `json:"result"`
	Date   string        `json:"date"`
	URL    string        `json:"url"`
	Folder string        `json:"folder"`
}

// AuthKind distinguishes the two stored credential shapes for a domain.
type AuthKind string

const (
	// AuthCookie is a Netscape-format cookie file.
	AuthCookie AuthKind = "cookie"
	// AuthCredentials is a username and password pair.
	AuthCredentials AuthKind = "pass"
)

// AuthEntry describes stored authentication material for one domain.
type AuthEntry struct {
	Domain string   `json:"domain"`
	Kind   AuthKind `json:"kind"`
}

// Credentials is a username and password pair for a domain.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LogValue implements the slog.LogValuer interface for structured logging.
// The password is never logged.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", c.Username),
	)
}
