package yoloencode

import "gopkg.in/yaml.v3"

// dataYAML mirrors Ultralytics' data.yaml shape: a class name list and
// its count, plus the split directories a release lays out.
type dataYAML struct {
	Path  string   `yaml:"path"`
	Train string   `yaml:"train,omitempty"`
	Val   string   `yaml:"val,omitempty"`
	Test  string   `yaml:"test,omitempty"`
	NC    int      `yaml:"nc"`
	Names []string `yaml:"names"`
}

// MarshalDataYAML renders data.yaml bytes for a frozen DataConfig and
// the split subdirectories a release wrote. path
// is always "." — the archive is self-contained and relocatable.
func MarshalDataYAML(cfg DataConfig, train, val, test string) ([]byte, error) {
	doc := dataYAML{Path: ".", Train: train, Val: val, Test: test, NC: cfg.NC, Names: cfg.Names}
	return yaml.Marshal(doc)
}
