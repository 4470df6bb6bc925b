// Package assets provides the HTML header/footer templates and images
// stamped on every rendered PDF page.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (defaults)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the primary loader used by the converter. It tries the
// custom FilesystemLoader first, falling back to EmbeddedLoader if the asset
// is not found. This allows replacing the footer logo alone while keeping
// the built-in templates.
//
// # Directory Structure
//
//	{basePath}/
//	├── templates/
//	│   ├── header.html          # Running header (page X of Y)
//	│   └── footer.html          # Running footer (html/template)
//	└── images/
//	    └── footer-logo.jpg      # JPEG inlined into the footer
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
