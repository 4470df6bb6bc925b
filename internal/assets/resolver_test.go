package assets

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver(\"\") error = %v", err)
		}
		if resolver.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("valid custom path", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if !resolver.HasCustomLoader() {
			t.Error("expected custom loader for valid path")
		}
	})

	t.Run("invalid custom path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestAssetResolver_CustomWithFallback(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAsset(t, root, "images", "footer-logo.jpg", "custom-logo")

	resolver, err := NewAssetResolver(root)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	t.Run("custom image wins", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadImage(FooterLogoName)
		if err != nil {
			t.Fatalf("LoadImage() error = %v", err)
		}
		if !bytes.Equal(got, []byte("custom-logo")) {
			t.Errorf("LoadImage() = %q, want custom-logo", got)
		}
	})

	t.Run("missing custom template falls back to embedded", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadTemplate(HeaderTemplateName)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		want, _ := NewEmbeddedLoader().LoadTemplate(HeaderTemplateName)
		if got != want {
			t.Error("LoadTemplate() should return embedded header")
		}
	})

	t.Run("validation errors do not fall back", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadTemplate("../header")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadTemplate() error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("missing everywhere", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadImage("nope")
		if !errors.Is(err, ErrImageNotFound) {
			t.Errorf("LoadImage() error = %v, want ErrImageNotFound", err)
		}
	})
}
