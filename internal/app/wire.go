package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clipdeck/internal/adapters/ai/deepgram"
	"github.com/clipdeck/internal/adapters/ai/openai"
	"github.com/clipdeck/internal/adapters/auth"
	"github.com/clipdeck/internal/adapters/http/rest"
	"github.com/clipdeck/internal/adapters/repo/dynamo"
	memoryrepo "github.com/clipdeck/internal/adapters/repo/memory"
	"github.com/clipdeck/internal/adapters/repo/sqldb"
	fsstorage "github.com/clipdeck/internal/adapters/storage/fs"
	s3storage "github.com/clipdeck/internal/adapters/storage/s3"
	"github.com/clipdeck/internal/core/services"
)

type App struct {
	Handler     http.Handler
	Clock       services.Clock
	UserRepo    services.UserRepository
	VideoRepo   services.VideoRepository
	LikeRepo    services.LikeRepository
	CommentRepo services.CommentRepository
	FollowRepo  services.FollowRepository
	SessionRepo services.SessionRepository
	Media       services.MediaStorage
}

// WireOptions overrides individual dependencies, mainly for tests. Any nil
// field falls back to what the config selects.
type WireOptions struct {
	Clock       services.Clock
	UserRepo    services.UserRepository
	VideoRepo   services.VideoRepository
	LikeRepo    services.LikeRepository
	CommentRepo services.CommentRepository
	FollowRepo  services.FollowRepository
	SessionRepo services.SessionRepository
	Media       services.MediaStorage
	Transcriber services.Transcriber
	Classifier  services.Classifier
	Strategy    services.LoginStrategy
}

// Wire builds the whole application from configuration: repositories, media
// storage, AI clients, login strategy, services and the HTTP handler.
func Wire(ctx context.Context, cfg Config, logger *log.Logger, opts *WireOptions) (*App, error) {
	if opts == nil {
		opts = &WireOptions{}
	}

	clock := opts.Clock
	if clock == nil {
		clock = services.RealClock{}
	}

	repoBackend := cfg.Repo.Backend
	if repoBackend == "" {
		repoBackend = "memory"
	}

	var (
		userRepo    services.UserRepository
		videoRepo   services.VideoRepository
		likeRepo    services.LikeRepository
		commentRepo services.CommentRepository
		followRepo  services.FollowRepository
		sessionRepo services.SessionRepository
	)
	switch repoBackend {
	case "memory":
		userRepo = memoryrepo.NewUserRepository()
		videoRepo = memoryrepo.NewVideoRepository()
		likeRepo = memoryrepo.NewLikeRepository()
		commentRepo = memoryrepo.NewCommentRepository()
		followRepo = memoryrepo.NewFollowRepository()
		sessionRepo = memoryrepo.NewSessionRepository()
	case "sql":
		db, dialect, err := sqldb.Open(cfg.Repo.DatabaseDriver, cfg.Repo.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		// the migration ledger is idempotent, so applying it at boot is safe
		if err := sqldb.Migrate(ctx, db, dialect); err != nil {
			return nil, err
		}
		userRepo = sqldb.NewUserRepository(db, dialect)
		videoRepo = sqldb.NewVideoRepository(db, dialect)
		likeRepo = sqldb.NewLikeRepository(db, dialect)
		commentRepo = sqldb.NewCommentRepository(db, dialect)
		followRepo = sqldb.NewFollowRepository(db, dialect)
		sessionRepo = sqldb.NewSessionRepository(db, dialect)
	case "dynamo":
		// the AWS region is shared with the media section
		client, err := dynamo.NewClient(ctx, cfg.Media.AWSRegion, cfg.Repo.DynamoEndpoint)
		if err != nil {
			return nil, err
		}
		store := dynamo.NewStore(client, cfg.Repo.DynamoTable)
		userRepo = dynamo.NewUserRepository(store)
		videoRepo = dynamo.NewVideoRepository(store)
		likeRepo = dynamo.NewLikeRepository(store)
		commentRepo = dynamo.NewCommentRepository(store)
		followRepo = dynamo.NewFollowRepository(store)
		sessionRepo = dynamo.NewSessionRepository(store)
	default:
		return nil, fmt.Errorf("unknown repo backend %q", cfg.Repo.Backend)
	}

	if opts.UserRepo != nil {
		userRepo = opts.UserRepo
	}
	if opts.VideoRepo != nil {
		videoRepo = opts.VideoRepo
	}
	if opts.LikeRepo != nil {
		likeRepo = opts.LikeRepo
	}
	if opts.CommentRepo != nil {
		commentRepo = opts.CommentRepo
	}
	if opts.FollowRepo != nil {
		followRepo = opts.FollowRepo
	}
	if opts.SessionRepo != nil {
		sessionRepo = opts.SessionRepo
	}

	mediaBackend := cfg.Media.Backend
	if mediaBackend == "" {
		mediaBackend = "fs"
	}

	var media services.MediaStorage
	switch mediaBackend {
	case "fs":
		media = fsstorage.NewMediaStorage(cfg.Media.Dir, cfg.Server.BaseURL, time.Duration(cfg.Media.PresignTTL), clock)
	case "s3":
		client, err := s3storage.NewClient(ctx, cfg.Media.AWSRegion, cfg.Media.S3Endpoint)
		if err != nil {
			return nil, err
		}
		media = s3storage.NewMediaStorage(client, cfg.Media.S3Bucket, cfg.Media.CloudFrontDomain, time.Duration(cfg.Media.PresignTTL), clock)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
	if opts.Media != nil {
		media = opts.Media
	}

	var transcriber services.Transcriber
	var classifier services.Classifier
	if cfg.Gate.Enabled {
		transcriber = deepgram.NewTranscriber("", cfg.Gate.DeepgramAPIKey, cfg.Gate.DeepgramModel, cfg.Gate.AIRequestsPerSecond, nil)
		classifier = openai.NewClassifier(cfg.Gate.ClassifierBaseURL, cfg.Gate.ClassifierAPIKey, cfg.Gate.ClassifierModel, cfg.Gate.AIRequestsPerSecond)
	}
	if opts.Transcriber != nil {
		transcriber = opts.Transcriber
	}
	if opts.Classifier != nil {
		classifier = opts.Classifier
	}

	strategy := opts.Strategy
	if strategy == nil {
		callbackURL := cfg.Server.BaseURL + "/api/auth/callback"
		switch cfg.Auth.Strategy {
		case "google":
			strategy = auth.NewGoogleStrategy(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, callbackURL)
		case "replit":
			strategy = auth.NewReplitStrategy(cfg.Auth.ReplitClientID, cfg.Auth.ReplitClientSecret, callbackURL)
		case "dev", "":
			strategy = auth.NewDevStrategy(cfg.Server.BaseURL)
		default:
			return nil, fmt.Errorf("unknown auth strategy %q", cfg.Auth.Strategy)
		}
	}

	authService := services.NewAuthService(userRepo, sessionRepo, strategy, time.Duration(cfg.Auth.SessionLifetime), clock)
	feedService := services.NewFeedService(videoRepo, likeRepo, media)
	uploadService := services.NewVideoUploadService(videoRepo, media, transcriber, classifier, services.UploadPolicy{
		GateEnabled:        cfg.Gate.Enabled,
		MaxSizeBytes:       cfg.Gate.MaxUploadBytes,
		MaxDurationSeconds: cfg.Gate.MaxDurationSeconds,
	}, clock)
	engagementService := services.NewEngagementService(videoRepo, likeRepo, commentRepo, clock)
	socialService := services.NewSocialService(userRepo, videoRepo, followRepo, clock)

	handler := rest.NewRouter(rest.RouterConfig{
		Logger:         logger,
		Auth:           authService,
		Feed:           feedService,
		Upload:         uploadService,
		Engagement:     engagementService,
		Social:         socialService,
		Media:          media,
		ServeMedia:     mediaBackend == "fs",
		MaxUploadBytes: cfg.Gate.MaxUploadBytes,
		RepoBackend:    repoBackend,
		MediaBackend:   mediaBackend,
	})

	return &App{
		Handler:     handler,
		Clock:       clock,
		UserRepo:    userRepo,
		VideoRepo:   videoRepo,
		LikeRepo:    likeRepo,
		CommentRepo: commentRepo,
		FollowRepo:  followRepo,
		SessionRepo: sessionRepo,
		Media:       media,
	}, nil
}
