// Package ytdlp wraps the yt-dlp external tool for video metadata, subtitle,
// audio, and video retrieval.
package ytdlp
