// Package data describes the scenes a command processes.
package data

import (
	"path"
	"strings"
)

// ImageSourceConfig points at the imagery of a scene.
type ImageSourceConfig struct {
	URIs         []string `yaml:"uris"`
	ChannelOrder []int    `yaml:"channel_order,omitempty"`
}

// NewImageSourceConfig creates a source reading the given images.
func NewImageSourceConfig(uris ...string) ImageSourceConfig {
	return ImageSourceConfig{URIs: uris}
}

// SceneConfig pairs an identifier with an imagery source and its labels.
type SceneConfig struct {
	ID            string            `yaml:"id"`
	RasterSource  ImageSourceConfig `yaml:"raster_source"`
	LabelURI      string            `yaml:"label_uri,omitempty"`
	PredictionURI string            `yaml:"prediction_uri,omitempty"`
}

func NewSceneConfig(id string, source ImageSourceConfig) SceneConfig {
	return SceneConfig{ID: id, RasterSource: source}
}

// WithLabelURI returns a copy of the scene reading ground truth labels from uri.
func (s SceneConfig) WithLabelURI(uri string) SceneConfig {
	s.LabelURI = uri
	return s
}

// WithPredictionURI returns a copy of the scene reading predictions from uri.
func (s SceneConfig) WithPredictionURI(uri string) SceneConfig {
	s.PredictionURI = uri
	return s
}

// Clone returns a deep copy of the scene.
func (s SceneConfig) Clone() SceneConfig {
	s.RasterSource.URIs = append([]string(nil), s.RasterSource.URIs...)
	s.RasterSource.ChannelOrder = append([]int(nil), s.RasterSource.ChannelOrder...)

	return s
}

// InputURIs lists the imagery and label URIs set on the scene.
func (s SceneConfig) InputURIs() []string {
	uris := make([]string, 0, len(s.RasterSource.URIs)+1)
	for _, uri := range s.RasterSource.URIs {
		if uri != "" {
			uris = append(uris, uri)
		}
	}
	if s.LabelURI != "" {
		uris = append(uris, s.LabelURI)
	}

	return uris
}

// JoinURI joins elems under root without collapsing a scheme such as s3://.
func JoinURI(root string, elems ...string) string {
	joined := path.Join(elems...)
	if root == "" {
		return joined
	}

	return strings.TrimRight(root, "/") + "/" + strings.TrimLeft(joined, "/")
}
