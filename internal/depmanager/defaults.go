package depmanager

const (
	ytdlpBase  = "https://github.com/yt-dlp/yt-dlp/releases/latest/download/"
	ffmpegBase = "https://github.com/yt-dlp/FFmpeg-Builds/releases/download/latest/"
)

// defaultYTdlpURLs contains default download URLs for yt-dlp per platform.
var defaultYTdlpURLs = map[string]string{
	"darwin/arm64":  ytdlpBase + "yt-dlp_macos",
	"darwin/amd64":  ytdlpBase + "yt-dlp_macos",
	"linux/arm64":   ytdlpBase + "yt-dlp_linux_aarch64",
	"linux/amd64":   ytdlpBase + "yt-dlp_linux",
	"windows/amd64": ytdlpBase + "yt-dlp.exe",
}

// defaultFFmpegURLs contains default download URLs for ffmpeg builds per
// platform. Each archive carries both ffmpeg and ffprobe.
var defaultFFmpegURLs = map[string]string{
	"darwin/arm64":  ffmpegBase + "ffmpeg-master-latest-macos64-gpl.tar.xz",
	"darwin/amd64":  ffmpegBase + "ffmpeg-master-latest-macos64-gpl.tar.xz",
	"linux/arm64":   ffmpegBase + "ffmpeg-master-latest-linuxarm64-gpl.tar.xz",
	"linux/amd64":   ffmpegBase + "ffmpeg-master-latest-linux64-gpl.tar.xz",
	"windows/amd64": ffmpegBase + "ffmpeg-master-latest-win64-gpl.zip",
}
