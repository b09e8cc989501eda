package model

import (
	"time"
)

// Platform values for linked videos
const (
	PlatformYouTube = "youtube"
	PlatformTikTok  = "tiktok"
	PlatformOther   = "other"
)

// Defaults applied to videos whose metadata was extracted successfully
const (
	DefaultVideoType   = "entertainment"
	DefaultVideoStatus = "published"
	DefaultVideoTitle  = "Untitled Video"
)

// LinkedVideo represents a YouTube or TikTok video linked in the content studio
type LinkedVideo struct {
	ID           string    `json:"id,omitempty" db:"id"`
	URL          string    `json:"url" db:"url"`
	Platform     string    `json:"platform" db:"platform"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description,omitempty" db:"description"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" db:"thumbnail_url" yaml:"thumbnail_url"`
	VideoType    string    `json:"video_type,omitempty" db:"video_type" yaml:"video_type"`
	Status       string    `json:"status,omitempty" db:"status"`
	CreatedDate  time.Time `json:"created_date,omitzero" db:"created_date" yaml:"created_date"`
}

// VideoMetadata is the structured result requested from the LLM for a video URL
type VideoMetadata struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,uri"`
}

// VideoCreate is the request body for linking a new video
type VideoCreate struct {
	URL string `json:"url" form:"url" binding:"required"`
}

// SignalCreate is the request body for generating a new signal
type SignalCreate struct {
	Symbol string `json:"symbol" form:"symbol" binding:"required"`
}
