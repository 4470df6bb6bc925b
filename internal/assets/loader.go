package assets

// AssetLoader defines the contract for loading page decoration assets.
type AssetLoader interface {
	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)

	// LoadImage loads a JPEG image by name (without .jpg extension).
	// Returns ErrImageNotFound if the image doesn't exist.
	LoadImage(name string) ([]byte, error)
}
