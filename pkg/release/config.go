package release

import (
	"fmt"
	"os"

	"github.com/clearscan/augforge/pkg/datastore"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape `augforgectl build`/`validate`/
// `preview` read: a release request bundle plus, since this module
// owns no external data store wiring, an inline dataset section so a
// release is reproducible from one file. Real deployments implement
// datastore.Store against their own system of record instead and skip
// the Dataset section entirely.
type FileConfig struct {
	Request `yaml:",inline"`
	Dataset DatasetManifest `yaml:"dataset"`
}

// DatasetManifest is the inline, file-based datastore.Store source:
// every image in scope for a release plus its annotations, with
// polygons in the {x,y} point-list shape only (see ManifestPolygon).
type DatasetManifest struct {
	Images []ManifestImage `yaml:"images"`
}

// ManifestImage is one datastore.Image plus its annotations.
type ManifestImage struct {
	ID       string            `yaml:"id"`
	FilePath string            `yaml:"file_path"`
	Width    int               `yaml:"width"`
	Height   int               `yaml:"height"`
	Split    string            `yaml:"split"`
	Boxes    []ManifestBox     `yaml:"boxes"`
	Polygons []ManifestPolygon `yaml:"polygons"`
}

// ManifestBox mirrors datastore.BoundingBoxInput.
type ManifestBox struct {
	ClassName string  `yaml:"class_name"`
	XMin      float64 `yaml:"x_min"`
	YMin      float64 `yaml:"y_min"`
	XMax      float64 `yaml:"x_max"`
	YMax      float64 `yaml:"y_max"`
}

// ManifestPolygon mirrors datastore.PolygonInput. Of the three shapes
// datastore.NormalizePolygonShape accepts, the manifest format takes
// only shape (i), a list of {x,y}: the flat/nested forms don't
// round-trip through a typed YAML field.
type ManifestPolygon struct {
	ClassName string           `yaml:"class_name"`
	Points    []ManifestVertex `yaml:"points"`
}

// ManifestVertex is one {x,y} polygon vertex.
type ManifestVertex struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// LoadFileConfig reads and parses path as a FileConfig. It does not
// validate the request; callers should call Request.Validate
// themselves so config_invalid surfaces before any dataset is built.
func LoadFileConfig(path string) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("release: reading config %s: %w", path, err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return FileConfig{}, configInvalid(fmt.Sprintf("parsing config %s: %v", path, err))
	}
	return cfg, nil
}

// Store builds the in-memory datastore.Store backing m, scoped to
// datasetID (the Image tuple requires one; the manifest format
// supplies a single dataset per file).
func (m DatasetManifest) Store(datasetID string) *datastore.MemStore {
	store := datastore.NewMemStore()
	for _, img := range m.Images {
		store.AddImage(datastore.Image{
			ID:        img.ID,
			FilePath:  img.FilePath,
			Width:     img.Width,
			Height:    img.Height,
			Split:     datastore.Split(img.Split),
			DatasetID: datasetID,
		})
		store.SetAnnotations(img.ID, toAnnotations(img))
	}
	return store
}

func toAnnotations(img ManifestImage) datastore.Annotations {
	ann := datastore.Annotations{
		Boxes:    make([]datastore.BoundingBoxInput, 0, len(img.Boxes)),
		Polygons: make([]datastore.PolygonInput, 0, len(img.Polygons)),
	}
	for _, b := range img.Boxes {
		ann.Boxes = append(ann.Boxes, datastore.BoundingBoxInput{
			XMin: b.XMin, YMin: b.YMin, XMax: b.XMax, YMax: b.YMax,
			ClassName: b.ClassName,
		})
	}
	for _, p := range img.Polygons {
		points := make([]datastore.PointInput, 0, len(p.Points))
		for _, v := range p.Points {
			points = append(points, datastore.PointInput{X: v.X, Y: v.Y})
		}
		ann.Polygons = append(ann.Polygons, datastore.PolygonInput{
			Points: points, ClassName: p.ClassName,
		})
	}
	return ann
}
