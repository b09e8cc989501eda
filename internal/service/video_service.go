package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/events"
	"github.com/yourorg/trading-dashboard/internal/llm"
	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/store"
	"github.com/yourorg/trading-dashboard/internal/trace"
)

const videoPrompt = "Extract the title, a short description, and a high-quality thumbnail URL for the following video: %s."

// VideoSchema is the structured reply requested for a video
var VideoSchema = llm.Object(map[string]*llm.Schema{
	"title":         llm.String(),
	"description":   llm.String(),
	"thumbnail_url": {Type: "string", Format: "uri"},
})

// VideoResult is the stored video, whether it came from the fallback path,
// and the reloaded list
type VideoResult struct {
	Video    model.LinkedVideo   `json:"video"`
	Fallback bool                `json:"fallback"`
	Videos   []model.LinkedVideo `json:"videos"`
}

// VideoService links videos, enriching them with LLM-extracted metadata
type VideoService struct {
	videos store.EntityClient[model.LinkedVideo]
	llm    llm.Client
	cache  CacheFlusher
	events events.Publisher
	busy   atomic.Bool
	logger *zap.Logger
}

// NewVideoService creates a new video service
func NewVideoService(
	videos store.EntityClient[model.LinkedVideo],
	llmClient llm.Client,
	cache CacheFlusher,
	publisher events.Publisher,
	logger *zap.Logger,
) *VideoService {
	return &VideoService{
		videos: videos,
		llm:    llmClient,
		cache:  cache,
		events: publisher,
		logger: logger,
	}
}

// InferPlatform returns "tiktok" for tiktok.com links and "youtube" otherwise
func InferPlatform(url string) string {
	if strings.Contains(url, "tiktok.com") {
		return model.PlatformTikTok
	}
	return model.PlatformYouTube
}

// Link stores a video for url. When metadata extraction or the enriched
// create fails, a minimal record titled "Video: <url>" is stored instead.
func (s *VideoService) Link(ctx context.Context, url string) (*VideoResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}

	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrGenerationInProgress
	}
	defer s.busy.Store(false)

	ctx, span := trace.StartSpan(ctx, "video.Link",
		oteltrace.WithAttributes(attribute.String("url", url)))
	defer span.End()

	platform := InferPlatform(url)

	created, err := s.linkWithMetadata(ctx, url, platform)
	fallback := err != nil
	if fallback {
		s.logger.Warn("Video metadata extraction failed, storing fallback record",
			zap.String("url", url),
			zap.String("kind", errorKind(err)),
			zap.Error(err))

		created, err = s.videos.Create(ctx, model.LinkedVideo{
			URL:      url,
			Platform: platform,
			Title:    "Video: " + url,
		})
		if err != nil {
			s.logger.Error("Failed to store fallback video", zap.String("url", url), zap.Error(err))
			trace.RecordError(span, err)
			return nil, fmt.Errorf("create video: %w", err)
		}
	}

	s.logger.Info("Video linked",
		zap.String("id", created.ID),
		zap.String("platform", created.Platform),
		zap.Bool("fallback", fallback))

	afterCreate(ctx, s.cache, s.events, events.NewEvent(events.LinkedVideoCreated, created.ID, created), s.logger)

	return &VideoResult{
		Video:    created,
		Fallback: fallback,
		Videos:   s.Recent(ctx),
	}, nil
}

func (s *VideoService) linkWithMetadata(ctx context.Context, url, platform string) (model.LinkedVideo, error) {
	raw, err := s.llm.Invoke(ctx, llm.Request{
		Prompt:                 fmt.Sprintf(videoPrompt, url),
		Schema:                 VideoSchema,
		AddContextFromInternet: true,
	})
	if err != nil {
		return model.LinkedVideo{}, err
	}

	var meta model.VideoMetadata
	if err := llm.Decode(raw, &meta); err != nil {
		return model.LinkedVideo{}, err
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = model.DefaultVideoTitle
	}

	return s.videos.Create(ctx, model.LinkedVideo{
		URL:          url,
		Platform:     platform,
		Title:        title,
		Description:  meta.Description,
		ThumbnailURL: meta.ThumbnailURL,
		VideoType:    model.DefaultVideoType,
		Status:       model.DefaultVideoStatus,
	})
}

// Recent returns the newest videos. A failed read is logged and yields an empty list.
func (s *VideoService) Recent(ctx context.Context) []model.LinkedVideo {
	videos, err := s.videos.List(ctx, store.Recent(VideoListLimit))
	if err != nil {
		s.logger.Error("Failed to load videos", zap.Error(err))
		return []model.LinkedVideo{}
	}
	return videos
}

func (s *VideoService) Busy() bool {
	return s.busy.Load()
}
