// Package resource loads and registers the images that animation players
// resolve frame names against.
package resource

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/frameplay/pkg/utils"
)

// Manager is responsible for centralized management of sprite images.
// It provides loading and caching for image files, direct registration of
// in-memory images, and sprite sheet slicing, ensuring each file is decoded
// only once and reused by every player that references it.
//
// The Manager implements the following key features:
// - Image loading and caching (PNG/JPEG format support)
// - Name registration for procedurally built images
// - Sprite sheet slicing into individually named frames
// - YAML manifest support for declaring images and sheets by name
//
// Thread Safety Note:
// All methods are safe for concurrent use. Animation players resolve frame
// names while processing cache misses, which may happen from multiple
// goroutines at once, so the internal maps are guarded by a sync.RWMutex.
//
// Usage:
//
//	mgr := resource.NewManager()
//	if err := mgr.LoadManifest("assets/sprites.yaml"); err != nil {
//	    log.Fatalf("[Resource] %v", err)
//	}
//	img, err := mgr.Resolve("walk_0")
type Manager struct {
	mu sync.RWMutex

	images map[string]*ebiten.Image // Registered images: name -> image
	paths  map[string]string        // Manifest entries not yet loaded: name -> file path
	files  map[string]*ebiten.Image // Decoded files: path -> image
}

// NewManager creates a Manager with empty registries.
func NewManager() *Manager {
	return &Manager{
		images: make(map[string]*ebiten.Image),
		paths:  make(map[string]string),
		files:  make(map[string]*ebiten.Image),
	}
}

// LoadImage loads an image file from the specified path and caches it for
// future use. If the file has already been loaded, the cached image is
// returned. Supported formats: PNG and JPEG.
//
// Parameters:
//   - path: The file path to the image (e.g., "assets/sprites/walk.png").
//
// Returns:
//   - A pointer to the loaded ebiten.Image.
//   - An error if the file cannot be opened or decoded.
//
// Error handling:
//   - Returns an error if the file does not exist or cannot be opened.
//   - Returns an error if the image format is not supported or corrupted.
//   - Does not panic - all errors are returned to the caller for handling.
func (m *Manager) LoadImage(path string) (*ebiten.Image, error) {
	m.mu.RLock()
	cached, exists := m.files[path]
	m.mu.RUnlock()
	if exists {
		return cached, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	ebitenImg := ebiten.NewImageFromImage(img)

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another goroutine may have decoded the same file in the meantime;
	// keep the first copy so callers always share one image per path.
	if prior, exists := m.files[path]; exists {
		return prior, nil
	}
	m.files[path] = ebitenImg
	return ebitenImg, nil
}

// Register binds a name to an in-memory image, overwriting any previous
// binding. Use it for procedurally generated sprites or test fixtures.
func (m *Manager) Register(name string, img *ebiten.Image) error {
	if name == "" {
		return fmt.Errorf("resource name must not be empty")
	}
	if img == nil {
		return fmt.Errorf("resource %q: image must not be nil", name)
	}
	m.mu.Lock()
	m.images[name] = img
	m.mu.Unlock()
	return nil
}

// RegisterSheet slices a sprite sheet into fixed-size cells, row-major, and
// registers each cell as "<prefix>_<index>" starting at index 0.
//
// Parameters:
//   - prefix: Name prefix for the sliced frames (e.g., "walk" -> "walk_0").
//   - sheet: The sheet image to slice.
//   - frameW, frameH: Cell size in pixels; must divide into the sheet bounds.
//   - count: Number of cells to register, or 0 for every full cell.
//
// Returns:
//   - The names registered, in frame order.
//   - An error if the cell size is not positive or exceeds the sheet.
func (m *Manager) RegisterSheet(prefix string, sheet *ebiten.Image, frameW, frameH, count int) ([]string, error) {
	if prefix == "" {
		return nil, fmt.Errorf("sheet prefix must not be empty")
	}
	if sheet == nil {
		return nil, fmt.Errorf("sheet %q: image must not be nil", prefix)
	}
	frames, err := SliceSheet(sheet, frameW, frameH)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", prefix, err)
	}
	if count > 0 && count < len(frames) {
		frames = frames[:count]
	}

	names := make([]string, len(frames))
	m.mu.Lock()
	for i, frame := range frames {
		name := fmt.Sprintf("%s_%d", prefix, i)
		m.images[name] = frame
		names[i] = name
	}
	m.mu.Unlock()
	return names, nil
}

// LoadSheet loads a sheet image from disk and registers its cells under the
// given prefix. It combines LoadImage and RegisterSheet.
func (m *Manager) LoadSheet(prefix, path string, frameW, frameH, count int) ([]string, error) {
	sheet, err := m.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return m.RegisterSheet(prefix, sheet, frameW, frameH, count)
}

// Resolve returns the image bound to a frame name. Lookup order:
//
//  1. Names registered via Register, RegisterSheet or LoadSheet.
//  2. Names declared in a loaded manifest (decoded on first use).
//  3. Names that look like file paths are loaded directly from disk.
//
// Resolve satisfies the animation.ImageSource interface, so a Manager can be
// passed straight into an animation player configuration.
func (m *Manager) Resolve(name string) (*ebiten.Image, error) {
	m.mu.RLock()
	img, exists := m.images[name]
	path, hasPath := m.paths[name]
	m.mu.RUnlock()

	if exists {
		return img, nil
	}
	if hasPath {
		loaded, err := m.LoadImage(path)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.images[name] = loaded
		m.mu.Unlock()
		return loaded, nil
	}
	// Names containing a separator or extension are treated as direct paths,
	// matching how particle configs accept either a name or a path.
	if strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') || filepath.Ext(name) != "" {
		return m.LoadImage(name)
	}
	return nil, fmt.Errorf("unknown image resource: %s", name)
}

// Names returns every currently registered frame name in sorted order.
// Manifest entries that have not been resolved yet are included.
func (m *Manager) Names() []string {
	m.mu.RLock()
	names := make([]string, 0, len(m.images)+len(m.paths))
	for name := range m.images {
		names = append(names, name)
	}
	for name := range m.paths {
		if _, exists := m.images[name]; !exists {
			names = append(names, name)
		}
	}
	m.mu.RUnlock()
	sort.Strings(names)
	return names
}

// SliceSheet cuts a sheet into frameW x frameH cells, scanning rows left to
// right, top to bottom. Partial cells at the right or bottom edge are
// dropped. The returned images are views into the sheet (SubImage); use
// utils.CloneImage when an independent copy is needed.
func SliceSheet(sheet *ebiten.Image, frameW, frameH int) ([]*ebiten.Image, error) {
	if frameW <= 0 || frameH <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %dx%d", frameW, frameH)
	}
	bounds := sheet.Bounds()
	cols := bounds.Dx() / frameW
	rows := bounds.Dy() / frameH
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("frame size %dx%d exceeds sheet size %dx%d",
			frameW, frameH, bounds.Dx(), bounds.Dy())
	}

	frames := make([]*ebiten.Image, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x0 := bounds.Min.X + col*frameW
			y0 := bounds.Min.Y + row*frameH
			cell := image.Rect(x0, y0, x0+frameW, y0+frameH)
			frames = append(frames, utils.CropImage(sheet, cell))
		}
	}
	return frames, nil
}

// Manifest declares images and sprite sheets by name in YAML form:
//
//	base_path: assets/sprites
//	images:
//	  - name: idle_0
//	    path: idle_0.png
//	sheets:
//	  - prefix: walk
//	    path: walk.png
//	    frame_width: 32
//	    frame_height: 32
//	    count: 4
type Manifest struct {
	BasePath string       `yaml:"base_path"`
	Images   []ImageEntry `yaml:"images"`
	Sheets   []SheetEntry `yaml:"sheets"`
}

// ImageEntry binds one frame name to an image file.
type ImageEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// SheetEntry declares a sprite sheet whose cells become "<prefix>_<index>".
type SheetEntry struct {
	Prefix      string `yaml:"prefix"`
	Path        string `yaml:"path"`
	FrameWidth  int    `yaml:"frame_width"`
	FrameHeight int    `yaml:"frame_height"`
	Count       int    `yaml:"count"`
}

// LoadManifest reads a YAML manifest and registers its contents. Plain image
// entries are recorded lazily and decoded on first Resolve; sheets are loaded
// and sliced immediately because their cell count must be validated.
//
// Parameters:
//   - path: Path to the YAML manifest file.
//
// Returns:
//   - An error if the file cannot be read, parsed, or validated.
func (m *Manager) LoadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	return m.ApplyManifest(&manifest)
}

// ApplyManifest validates a manifest and registers its entries. Paths are
// resolved against the manifest base path, and image paths without an
// extension default to .png.
func (m *Manager) ApplyManifest(manifest *Manifest) error {
	if manifest == nil {
		return fmt.Errorf("manifest must not be nil")
	}

	for i, entry := range manifest.Images {
		if entry.Name == "" {
			return fmt.Errorf("manifest image %d: name must not be empty", i)
		}
		if entry.Path == "" {
			return fmt.Errorf("manifest image %q: path must not be empty", entry.Name)
		}
		fullPath := joinBase(manifest.BasePath, entry.Path)
		if filepath.Ext(fullPath) == "" {
			fullPath += ".png"
		}
		m.mu.Lock()
		m.paths[entry.Name] = fullPath
		m.mu.Unlock()
	}

	for i, entry := range manifest.Sheets {
		if entry.Prefix == "" {
			return fmt.Errorf("manifest sheet %d: prefix must not be empty", i)
		}
		if entry.Path == "" {
			return fmt.Errorf("manifest sheet %q: path must not be empty", entry.Prefix)
		}
		if entry.FrameWidth <= 0 || entry.FrameHeight <= 0 {
			return fmt.Errorf("manifest sheet %q: frame size must be positive, got %dx%d",
				entry.Prefix, entry.FrameWidth, entry.FrameHeight)
		}
		fullPath := joinBase(manifest.BasePath, entry.Path)
		if filepath.Ext(fullPath) == "" {
			fullPath += ".png"
		}
		if _, err := m.LoadSheet(entry.Prefix, fullPath, entry.FrameWidth, entry.FrameHeight, entry.Count); err != nil {
			return fmt.Errorf("manifest sheet %q: %w", entry.Prefix, err)
		}
	}

	return nil
}

// joinBase resolves a manifest-relative path against the manifest base path.
func joinBase(base, rel string) string {
	if base == "" {
		return rel
	}
	return filepath.Join(base, rel)
}
