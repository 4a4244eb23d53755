package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"messagewall/internal/common"
	"messagewall/internal/dbx"
	"messagewall/internal/logging"
	"messagewall/internal/server/records"
	"messagewall/internal/server/refreshtokens"
)

// minimal valid PNG header so content sniffing sees an image
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func pngBytes(size int) []byte {
	b := make([]byte, size)
	copy(b, pngHeader)
	return b
}

type fakeRecordsRepo struct {
	listOut []*records.Record
	listErr error

	updateOut *records.Record
	updateErr error
	updates   []string

	clearErr error
	cleared  []string
}

func (f *fakeRecordsRepo) Create(ctx context.Context, rec *records.Record) (*records.Record, error) {
	return rec, nil
}
func (f *fakeRecordsRepo) GetByID(ctx context.Context, id string) (*records.Record, error) {
	return nil, common.ErrNotFound
}
func (f *fakeRecordsRepo) GetByEmail(ctx context.Context, email string) (*records.Record, error) {
	return nil, common.ErrNotFound
}
func (f *fakeRecordsRepo) ListWithImage(ctx context.Context) ([]*records.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}
func (f *fakeRecordsRepo) UpdateMessage(ctx context.Context, userID, name, text, imageRef string) (*records.Record, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, userID)
	return f.updateOut, nil
}
func (f *fakeRecordsRepo) ClearMessageImage(ctx context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = append(f.cleared, userID)
	return nil
}
func (f *fakeRecordsRepo) UpdateProfile(ctx context.Context, id, name, avatarURL, passwordHash string) (*records.Record, error) {
	return nil, common.ErrNotFound
}

type fakeRepoManager struct {
	rec *fakeRecordsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Records(db dbx.DBTX) records.Repository             { return m.rec }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return nil }

type fakeUploader struct {
	url  string
	err  error
	keys []string
}

func (f *fakeUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return f.url, nil
}

func newService(rec *fakeRecordsRepo, up *fakeUploader) *Service {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	return NewService(nil, &fakeRepoManager{rec: rec}, up, logger)
}

func TestFetchRecent_DeduplicatesAndCaps(t *testing.T) {
	base := time.Now()
	var recs []*records.Record
	for i := 0; i < 30; i++ {
		recs = append(recs, &records.Record{
			ID:           fmt.Sprintf("r%d", i),
			Email:        fmt.Sprintf("u%d@example.com", i%26),
			MessageImage: "img",
			CreatedAt:    base.Add(-time.Duration(i) * time.Minute),
		})
	}

	s := newService(&fakeRecordsRepo{listOut: recs}, &fakeUploader{})

	got, err := s.FetchRecent(context.Background())
	if err != nil {
		t.Fatalf("FetchRecent error: %v", err)
	}
	if len(got) != 24 {
		t.Fatalf("expected 24 records, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, rec := range got {
		if seen[rec.Email] {
			t.Fatalf("duplicate email %s in feed", rec.Email)
		}
		seen[rec.Email] = true
	}
}

func TestFetchRecent_WrapsFetchError(t *testing.T) {
	s := newService(&fakeRecordsRepo{listErr: errors.New("connection refused")}, &fakeUploader{})

	_, err := s.FetchRecent(context.Background())
	if !errors.Is(err, common.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestSave_Success(t *testing.T) {
	updated := &records.Record{ID: "u1", Name: "Alice", Message: "go!", MessageImage: "http://img/x.png"}
	repo := &fakeRecordsRepo{updateOut: updated}
	s := newService(repo, &fakeUploader{})

	rec, err := s.Save(context.Background(), "u1", SaveInput{Name: "Alice", Text: "go!", ImageRef: "http://img/x.png"})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if rec.Message != "go!" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(repo.updates) != 1 || repo.updates[0] != "u1" {
		t.Fatalf("expected one in-place update for u1, got %v", repo.updates)
	}
}

func TestSave_ValidatesInput(t *testing.T) {
	s := newService(&fakeRecordsRepo{}, &fakeUploader{})

	tests := []struct {
		name string
		in   SaveInput
	}{
		{"empty text", SaveInput{Text: "  ", ImageRef: "img"}},
		{"too long text", SaveInput{Text: strings.Repeat("x", common.MaxMessageLen+1), ImageRef: "img"}},
		{"too long multibyte text", SaveInput{Text: strings.Repeat("ê", common.MaxMessageLen+1), ImageRef: "img"}},
		{"missing image", SaveInput{Text: "hello"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Save(context.Background(), "u1", tc.in)
			if !errors.Is(err, common.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSave_CountsCharactersNotBytes(t *testing.T) {
	text := strings.Repeat("ê", 200) // 400 bytes, 200 characters
	updated := &records.Record{ID: "u1", Message: text, MessageImage: "img"}
	s := newService(&fakeRecordsRepo{updateOut: updated}, &fakeUploader{})

	rec, err := s.Save(context.Background(), "u1", SaveInput{Text: text, ImageRef: "img"})
	if err != nil {
		t.Fatalf("a 200-character message must be accepted, got %v", err)
	}
	if rec.Message != text {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSave_MissingRecord(t *testing.T) {
	s := newService(&fakeRecordsRepo{updateErr: common.ErrNotFound}, &fakeUploader{})

	_, err := s.Save(context.Background(), "ghost", SaveInput{Text: "hi", ImageRef: "img"})
	if !errors.Is(err, common.ErrSave) {
		t.Fatalf("expected ErrSave, got %v", err)
	}
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("the missing-row cause must stay visible through the wrap, got %v", err)
	}
}

func TestDelete_SoftDeletesImageOnly(t *testing.T) {
	repo := &fakeRecordsRepo{}
	s := newService(repo, &fakeUploader{})

	if err := s.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(repo.cleared) != 1 || repo.cleared[0] != "u1" {
		t.Fatalf("expected image clear for u1, got %v", repo.cleared)
	}
}

func TestDelete_WrapsError(t *testing.T) {
	s := newService(&fakeRecordsRepo{clearErr: errors.New("down")}, &fakeUploader{})

	err := s.Delete(context.Background(), "u1")
	if !errors.Is(err, common.ErrDelete) {
		t.Fatalf("expected ErrDelete, got %v", err)
	}
}

func TestUpload_Success(t *testing.T) {
	up := &fakeUploader{url: "http://cdn/message/123-abc.png"}
	s := newService(&fakeRecordsRepo{}, up)

	url, err := s.Upload(context.Background(), PurposeMessage, "photo.PNG", pngBytes(1024))
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if url != "http://cdn/message/123-abc.png" {
		t.Fatalf("unexpected url %q", url)
	}
	if len(up.keys) != 1 {
		t.Fatalf("expected one stored object, got %d", len(up.keys))
	}
	key := up.keys[0]
	if !strings.HasPrefix(key, PurposeMessage+"/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestUpload_RejectsOversizedBeforeStorageCall(t *testing.T) {
	up := &fakeUploader{url: "http://cdn/x"}
	s := newService(&fakeRecordsRepo{}, up)

	_, err := s.Upload(context.Background(), PurposeMessage, "big.png", pngBytes(6<<20))
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(up.keys) != 0 {
		t.Fatalf("oversized file must never reach storage")
	}
}

func TestUpload_FallsBackToDataURL(t *testing.T) {
	up := &fakeUploader{err: errors.New("bucket unavailable")}
	s := newService(&fakeRecordsRepo{}, up)

	url, err := s.Upload(context.Background(), PurposeMessage, "photo.png", pngBytes(64))
	if err != nil {
		t.Fatalf("Upload must not fail on storage downtime, got %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("expected data URL fallback, got %q", url)
	}
}

func TestUpload_RejectsNonImage(t *testing.T) {
	s := newService(&fakeRecordsRepo{}, &fakeUploader{})

	_, err := s.Upload(context.Background(), PurposeAvatar, "notes.txt", []byte("plain text, definitely not an image"))
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpload_RejectsUnknownPurpose(t *testing.T) {
	s := newService(&fakeRecordsRepo{}, &fakeUploader{})

	_, err := s.Upload(context.Background(), "backups", "x.png", pngBytes(32))
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
