package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  AI -- Lab__Project  ", "ai-lab-project"},
		{"C++ & Go: A Story!", "c-go-a-story"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"", ""},
		{"日本語", ""},
		{"Café Résumé", "caf-rsum"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Slugify(tt.title)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if again := Slugify(got); again != got {
				t.Errorf("Slugify not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestAssignSlug(t *testing.T) {
	free := func(string) (bool, error) { return false, nil }
	taken := func(string) (bool, error) { return true, nil }

	slug, err := AssignSlug("Robot Arm", free)
	if err != nil || slug == nil || *slug != "robot-arm" {
		t.Fatalf("AssignSlug(free) = %v, %v; want robot-arm", slug, err)
	}

	slug, err = AssignSlug("Robot Arm", taken)
	if err != nil || slug == nil {
		t.Fatalf("AssignSlug(taken) = %v, %v", slug, err)
	}
	if !strings.HasPrefix(*slug, "robot-arm-") || len(*slug) != len("robot-arm-")+3 {
		t.Errorf("suffixed slug = %q, want robot-arm-NNN", *slug)
	}
	suffix := strings.TrimPrefix(*slug, "robot-arm-")
	if suffix < "100" || suffix > "999" {
		t.Errorf("suffix = %q, want 100..999", suffix)
	}

	slug, err = AssignSlug("!!!", taken)
	if err != nil || slug != nil {
		t.Errorf("AssignSlug(empty base) = %v, %v; want nil, nil", slug, err)
	}

	_, err = AssignSlug("x", func(string) (bool, error) { return false, errors.New("db down") })
	if err == nil {
		t.Error("expected lookup error to propagate")
	}
}

func TestShortDescription(t *testing.T) {
	exact := strings.Repeat("a", 150)
	if got := ShortDescription(exact); got != exact {
		t.Errorf("150 chars should be unchanged, got len %d", len(got))
	}

	long := strings.Repeat("b", 200)
	got := ShortDescription(long)
	if got != strings.Repeat("b", 150)+"..." {
		t.Errorf("200 chars: got %q", got)
	}
	if len(got) != 153 {
		t.Errorf("len = %d, want 153", len(got))
	}

	short := "fifty chars or so"
	if got := ShortDescription(short); got != short {
		t.Errorf("short: got %q", got)
	}

	multibyte := strings.Repeat("é", 151)
	got = ShortDescription(multibyte)
	if utf8.RuneCountInString(got) != 153 || !utf8.ValidString(got) {
		t.Errorf("multibyte cut: %d runes, valid=%v", utf8.RuneCountInString(got), utf8.ValidString(got))
	}
}

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"photo.png", "photo.png"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\My Photo.jpg`, "My_Photo.jpg"},
		{"Résumé final.pdf", "Resume_final.pdf"},
		{"...hidden", "hidden"},
		{"???", "upload"},
		{"", "upload"},
	}
	for _, tt := range tests {
		if got := SecureFilename(tt.in); got != tt.want {
			t.Errorf("SecureFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type memStore struct {
	mu      sync.Mutex
	objects map[string]string
	fail    bool
}

func (m *memStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if m.fail {
		return "", errors.New("disk full")
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string]string{}
	}
	m.objects[key] = string(b)
	return "/static/uploads/" + key, nil
}

func fileHeaders(t *testing.T, field string, files map[string]string, order []string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range order {
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte(files[name]))
	}
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File[field]
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
}

func TestUploaderSaveFile(t *testing.T) {
	store := &memStore{}
	u := NewUploader(store, fixedClock)

	fhs := fileHeaders(t, "thumbnail", map[string]string{"My Thumb.png": "img"}, []string{"My Thumb.png"})
	got, err := u.SaveFile(context.Background(), DirProjectThumbnails, fhs[0])
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	want := "/static/uploads/projects/20240309140506_My_Thumb.png"
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	if store.objects["projects/20240309140506_My_Thumb.png"] != "img" {
		t.Errorf("stored objects = %v", store.objects)
	}

	got, err = u.SaveFile(context.Background(), DirProjectThumbnails, &multipart.FileHeader{})
	if err != nil || got != "" {
		t.Errorf("empty filename: got %q, %v; want skipped", got, err)
	}
	got, err = u.SaveFile(context.Background(), DirProjectThumbnails, nil)
	if err != nil || got != "" {
		t.Errorf("nil file: got %q, %v; want skipped", got, err)
	}
}

func TestUploaderSaveFilesKeepsOrder(t *testing.T) {
	store := &memStore{}
	u := NewUploader(store, fixedClock)

	order := []string{"c.png", "a.png", "b.png", "a.png"}
	files := map[string]string{"a.png": "A", "b.png": "B", "c.png": "C"}
	fhs := fileHeaders(t, "gallery", files, order)

	got, err := u.SaveFiles(context.Background(), DirEventGallery, fhs)
	if err != nil {
		t.Fatalf("SaveFiles: %v", err)
	}

	want := []string{
		"/static/uploads/events/gallery/20240309140506_c.png",
		"/static/uploads/events/gallery/20240309140506_a.png",
		"/static/uploads/events/gallery/20240309140506_b.png",
		"/static/uploads/events/gallery/20240309140506_a_2.png",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d paths, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUploaderSaveFilesNone(t *testing.T) {
	u := NewUploader(&memStore{}, fixedClock)
	got, err := u.SaveFiles(context.Background(), DirProjectScreenshots, []*multipart.FileHeader{{}})
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v; want no paths", got, err)
	}
}

func TestUploaderStorageFailure(t *testing.T) {
	u := NewUploader(&memStore{fail: true}, fixedClock)
	fhs := fileHeaders(t, "screenshots", map[string]string{"a.png": "A"}, []string{"a.png"})

	_, err := u.SaveFiles(context.Background(), DirProjectScreenshots, fhs)
	if err == nil {
		t.Fatal("expected storage error")
	}
}
