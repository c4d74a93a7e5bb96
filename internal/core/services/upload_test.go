package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/clipdeck/internal/adapters/repo/memory"
	"github.com/clipdeck/internal/adapters/storage/fs"
	"github.com/clipdeck/internal/core/services"
)

type fakeTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, media []byte, contentType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

type fakeClassifier struct {
	educational bool
	err         error
	calls       int
}

func (f *fakeClassifier) Classify(ctx context.Context, transcript string) (*services.Classification, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &services.Classification{Educational: f.educational}, nil
}

func TestVideoUpload_GateRejections(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Now())
	videoRepo := memory.NewVideoRepository()
	media := fs.NewMediaStorage(t.TempDir(), "", 15*time.Minute, clock)

	policy := services.UploadPolicy{
		GateEnabled:        true,
		MaxSizeBytes:       1024,
		MaxDurationSeconds: 60,
	}
	newService := func(tr *fakeTranscriber, cl *fakeClassifier) *services.VideoUploadService {
		return services.NewVideoUploadService(videoRepo, media, tr, cl, policy, clock)
	}

	base := services.VideoUploadRequest{
		UserID:          "u1",
		Title:           "Counting in binary",
		FileName:        "clip.mp4",
		ContentType:     "video/mp4",
		DurationSeconds: 30,
		Public:          true,
		Data:            []byte("tiny clip"),
	}

	tr := &fakeTranscriber{transcript: "lesson one"}
	cl := &fakeClassifier{educational: true}
	svc := newService(tr, cl)

	req := base
	req.Title = "   "
	if _, err := svc.ProcessUpload(ctx, req); !errors.Is(err, services.ErrTitleRequired) {
		t.Errorf("blank title: expected ErrTitleRequired, got %v", err)
	}

	req = base
	req.Data = make([]byte, 2048)
	if _, err := svc.ProcessUpload(ctx, req); !errors.Is(err, services.ErrVideoTooLarge) {
		t.Errorf("oversize upload: expected ErrVideoTooLarge, got %v", err)
	}
	if tr.calls != 0 {
		t.Errorf("oversize upload: transcriber should not run, got %d calls", tr.calls)
	}

	req = base
	req.DurationSeconds = 61
	if _, err := svc.ProcessUpload(ctx, req); !errors.Is(err, services.ErrVideoTooLong) {
		t.Errorf("overlong upload: expected ErrVideoTooLong, got %v", err)
	}

	svc = newService(&fakeTranscriber{transcript: "   "}, cl)
	if _, err := svc.ProcessUpload(ctx, base); !errors.Is(err, services.ErrNoSpeechDetected) {
		t.Errorf("silent upload: expected ErrNoSpeechDetected, got %v", err)
	}

	svc = newService(&fakeTranscriber{transcript: "buy my merch now"}, &fakeClassifier{educational: false})
	if _, err := svc.ProcessUpload(ctx, base); !errors.Is(err, services.ErrNotEducational) {
		t.Errorf("off-topic upload: expected ErrNotEducational, got %v", err)
	}

	transcribeErr := errors.New("transcription api down")
	svc = newService(&fakeTranscriber{err: transcribeErr}, cl)
	if _, err := svc.ProcessUpload(ctx, base); !errors.Is(err, transcribeErr) {
		t.Errorf("transcriber failure: expected the transcriber error, got %v", err)
	}

	classifyErr := errors.New("classifier api down")
	svc = newService(&fakeTranscriber{transcript: "lesson two"}, &fakeClassifier{err: classifyErr})
	if _, err := svc.ProcessUpload(ctx, base); !errors.Is(err, classifyErr) {
		t.Errorf("classifier failure: expected the classifier error, got %v", err)
	}

	videos, _ := videoRepo.ListPublic(ctx, 50, 0)
	if len(videos) != 0 {
		t.Errorf("rejected uploads: expected no persisted videos, got %d", len(videos))
	}
}

func TestVideoUpload_AcceptPersistsVideoAndMedia(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	videoRepo := memory.NewVideoRepository()
	media := fs.NewMediaStorage(t.TempDir(), "", 15*time.Minute, clock)
	tr := &fakeTranscriber{transcript: "today we learn long division"}
	cl := &fakeClassifier{educational: true}

	svc := services.NewVideoUploadService(videoRepo, media, tr, cl, services.UploadPolicy{
		GateEnabled:        true,
		MaxSizeBytes:       1 << 20,
		MaxDurationSeconds: 180,
	}, clock)

	video, err := svc.ProcessUpload(ctx, services.VideoUploadRequest{
		UserID:          "u1",
		Title:           "Long division",
		Description:     "part one",
		FileName:        "division.mp4",
		ContentType:     "video/mp4",
		DurationSeconds: 95,
		Public:          true,
		Data:            []byte("mp4 bytes"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if video.ID == "" {
		t.Error("video should have an ID")
	}
	if video.Transcript != "today we learn long division" {
		t.Errorf("transcript not retained: %q", video.Transcript)
	}
	if video.SizeBytes != int64(len("mp4 bytes")) {
		t.Errorf("size: expected %d, got %d", len("mp4 bytes"), video.SizeBytes)
	}
	if !video.CreatedAt.Equal(clock.Now()) {
		t.Errorf("createdAt: expected %v, got %v", clock.Now(), video.CreatedAt)
	}
	if !strings.HasSuffix(video.StorageKey, ".mp4") {
		t.Errorf("storage key should keep the file extension, got %q", video.StorageKey)
	}

	stored, err := videoRepo.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("finding stored video: %v", err)
	}
	if stored == nil {
		t.Fatal("video row should be persisted")
	}

	data, err := media.Load(ctx, video.StorageKey)
	if err != nil {
		t.Fatalf("media should be stored under %s: %v", video.StorageKey, err)
	}
	if string(data) != "mp4 bytes" {
		t.Errorf("stored media mismatch: %q", data)
	}
}

func TestVideoUpload_StagedObjectFinalize(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Now())
	videoRepo := memory.NewVideoRepository()
	media := fs.NewMediaStorage(t.TempDir(), "", 15*time.Minute, clock)
	tr := &fakeTranscriber{transcript: "photosynthesis explained"}
	cl := &fakeClassifier{educational: true}

	svc := services.NewVideoUploadService(videoRepo, media, tr, cl, services.UploadPolicy{
		GateEnabled:        true,
		MaxSizeBytes:       1 << 20,
		MaxDurationSeconds: 180,
	}, clock)

	req := services.VideoUploadRequest{
		UserID:          "u1",
		Title:           "Photosynthesis",
		DurationSeconds: 45,
		Public:          true,
		ObjectKey:       "videos/u1/staged.mp4",
	}

	if _, err := svc.ProcessUpload(ctx, req); !errors.Is(err, services.ErrObjectNotUploaded) {
		t.Errorf("missing staged object: expected ErrObjectNotUploaded, got %v", err)
	}

	if err := media.Store(ctx, "videos/u1/staged.mp4", "video/mp4", []byte("staged bytes")); err != nil {
		t.Fatalf("staging object: %v", err)
	}

	video, err := svc.ProcessUpload(ctx, req)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if video.StorageKey != "videos/u1/staged.mp4" {
		t.Errorf("storage key: expected the staged key, got %q", video.StorageKey)
	}
	if video.SizeBytes != int64(len("staged bytes")) {
		t.Errorf("size should come from the staged object, got %d", video.SizeBytes)
	}
	if video.ContentType != "video/mp4" {
		t.Errorf("content type should come from the staged object, got %q", video.ContentType)
	}
	if video.Transcript != "photosynthesis explained" {
		t.Errorf("staged uploads should still pass the gate, transcript %q", video.Transcript)
	}
}

func TestVideoUpload_GateDisabledSkipsAI(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Now())
	videoRepo := memory.NewVideoRepository()
	media := fs.NewMediaStorage(t.TempDir(), "", 15*time.Minute, clock)
	tr := &fakeTranscriber{transcript: "should never be used"}
	cl := &fakeClassifier{educational: false}

	svc := services.NewVideoUploadService(videoRepo, media, tr, cl, services.UploadPolicy{
		GateEnabled:        false,
		MaxSizeBytes:       1 << 20,
		MaxDurationSeconds: 180,
	}, clock)

	video, err := svc.ProcessUpload(ctx, services.VideoUploadRequest{
		UserID:          "u1",
		Title:           "Anything goes",
		FileName:        "clip.mp4",
		ContentType:     "video/mp4",
		DurationSeconds: 30,
		Public:          true,
		Data:            []byte("bytes"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if tr.calls != 0 {
		t.Errorf("gate disabled: transcriber should not run, got %d calls", tr.calls)
	}
	if cl.calls != 0 {
		t.Errorf("gate disabled: classifier should not run, got %d calls", cl.calls)
	}
	if video.Transcript != "" {
		t.Errorf("gate disabled: no transcript expected, got %q", video.Transcript)
	}
}

func TestPresignUpload_ChecksSizeAndIssuesKey(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Now())
	videoRepo := memory.NewVideoRepository()
	media := fs.NewMediaStorage(t.TempDir(), "http://localhost:8080", 15*time.Minute, clock)

	svc := services.NewVideoUploadService(videoRepo, media, nil, nil, services.UploadPolicy{
		MaxSizeBytes:       1 << 20,
		MaxDurationSeconds: 180,
	}, clock)

	key, upload, err := svc.PresignUpload(ctx, services.PresignUploadRequest{
		UserID:      "u1",
		FileName:    "clip.mp4",
		ContentType: "video/mp4",
		SizeBytes:   512,
	})
	if err != nil {
		t.Fatalf("presign failed: %v", err)
	}
	if !strings.HasPrefix(key, "videos/u1/") {
		t.Errorf("object key should live under the user prefix, got %q", key)
	}
	if !strings.HasSuffix(key, ".mp4") {
		t.Errorf("object key should keep the file extension, got %q", key)
	}
	if !strings.Contains(upload.URL, key) {
		t.Errorf("upload URL should address the object key, got %q", upload.URL)
	}
	if !upload.ExpiresAt.Equal(clock.Now().Add(15 * time.Minute)) {
		t.Errorf("expiry: expected %v, got %v", clock.Now().Add(15*time.Minute), upload.ExpiresAt)
	}

	_, _, err = svc.PresignUpload(ctx, services.PresignUploadRequest{
		UserID:    "u1",
		FileName:  "big.mp4",
		SizeBytes: 10 << 20,
	})
	if !errors.Is(err, services.ErrVideoTooLarge) {
		t.Errorf("oversize presign: expected ErrVideoTooLarge, got %v", err)
	}
}
