package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeAsset creates dir/sub/name under root, creating parents.
func writeAsset(t *testing.T, root, sub, name, content string) {
	t.Helper()
	dir := filepath.Join(root, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader == nil {
			t.Fatal("NewFilesystemLoader() returned nil")
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := NewFilesystemLoader(file)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAsset(t, root, "templates", "footer.html", "<div>custom footer</div>")

	loader, err := NewFilesystemLoader(root)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	got, err := loader.LoadTemplate("footer")
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if got != "<div>custom footer</div>" {
		t.Errorf("LoadTemplate() = %q", got)
	}

	_, err = loader.LoadTemplate("header")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(missing) error = %v, want ErrTemplateNotFound", err)
	}

	_, err = loader.LoadTemplate("../footer")
	if !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadTemplate(traversal) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestFilesystemLoader_LoadImage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAsset(t, root, "images", "footer-logo.jpg", "\xff\xd8\xff\xe0fake")

	loader, err := NewFilesystemLoader(root)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	got, err := loader.LoadImage("footer-logo")
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	if string(got) != "\xff\xd8\xff\xe0fake" {
		t.Errorf("LoadImage() = %q", got)
	}

	_, err = loader.LoadImage("other")
	if !errors.Is(err, ErrImageNotFound) {
		t.Errorf("LoadImage(missing) error = %v, want ErrImageNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}

	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret.html"), []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "templates"), 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(root, "templates", "footer.html")
	if err := os.Symlink(filepath.Join(outside, "secret.html"), link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	loader, err := NewFilesystemLoader(root)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	_, err = loader.LoadTemplate("footer")
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadTemplate(symlink escape) error = %v, want ErrPathTraversal", err)
	}
}
