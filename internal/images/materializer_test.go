package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractURL(t *testing.T) {
	tests := []struct {
		name string
		ref  any
		want string
	}{
		{"plain https", "https://x/y.png", "https://x/y.png"},
		{"object url blob", map[string]any{"url": "blob:abc"}, "blob:abc"},
		{"object preview data", map[string]any{"preview": "data:image/png;base64,AAAA"}, "data:image/png;base64,AAAA"},
		{"not a url", "not-a-url", ""},
		{"nil", nil, ""},
		{"javascript scheme rejected", "javascript:alert(1)", ""},
		{"object with only junk", map[string]any{"fileName": "a.png", "size": 12.0}, ""},
		{"object falls through to src", map[string]any{"url": "ftp://x", "src": "https://x/z.png"}, "https://x/z.png"},
		{"whitespace trimmed", "  https://x/y.png ", "https://x/y.png"},
		{"number", 42.0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractURL(tt.ref))
		})
	}
}

// encodePNG builds a solid-color test image of the given width.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{200, 120, 40, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetchJPEGDownscales(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(encodePNG(t, 2400, 1200))
	}))
	defer srv.Close()

	m := NewMaterializer(2*time.Second, nil)
	data, bounds, err := m.FetchJPEG(context.Background(), srv.URL, MaxExportWidth, 70)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, MaxExportWidth, bounds.Dx())
	assert.Equal(t, 600, bounds.Dy())

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, MaxExportWidth, cfg.Width)
}

func TestFetchJPEGKeepsSmallImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(encodePNG(t, 300, 200))
	}))
	defer srv.Close()

	m := NewMaterializer(2*time.Second, nil)
	_, bounds, err := m.FetchJPEG(context.Background(), srv.URL, MaxPreviewWidth, 60)
	require.NoError(t, err)
	assert.Equal(t, 300, bounds.Dx())
}

func TestToBase64FailureDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	m := NewMaterializer(2*time.Second, nil)

	assert.Empty(t, m.ToBase64(context.Background(), srv.URL, MaxPreviewWidth, 60))
	assert.Empty(t, m.ToBase64(context.Background(), "blob:only-in-browser", MaxPreviewWidth, 60))
	assert.Empty(t, m.ToBase64(context.Background(), "data:image/png;base64,!!!", MaxPreviewWidth, 60))
}

func TestToBase64FromDataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, 50, 50))

	m := NewMaterializer(2*time.Second, nil)
	out := m.ToBase64(context.Background(), uri, MaxPreviewWidth, 60)
	assert.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))
}

func TestMaterializeAllSettlesEveryReference(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(encodePNG(t, 100, 80))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("this is not an image"))
	}))
	defer bad.Close()

	refs := []any{
		good.URL,
		map[string]any{"url": bad.URL},
		"not-a-url",
		nil,
		good.URL,
	}

	m := NewMaterializer(2*time.Second, nil)
	out := m.MaterializeAll(context.Background(), refs, MaxExportWidth, 70)

	require.Len(t, out, len(refs))
	assert.NotNil(t, out[0].JPEG)
	assert.Nil(t, out[1].JPEG, "decode failure settles as omitted")
	assert.Empty(t, out[2].Source)
	assert.Empty(t, out[3].Source)
	assert.NotNil(t, out[4].JPEG)
	assert.Equal(t, 100, out[0].Width)
	assert.Equal(t, 80, out[0].Height)
}
