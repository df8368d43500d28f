package model

import (
	"time"
)

// VersionedEndpoint is a static registry entry mapping an endpoint path to
// its API version and deprecation metadata.
type VersionedEndpoint struct {
	Path            string     `json:"path" yaml:"path"`
	Version         string     `json:"version" yaml:"version"`
	Deprecated      bool       `json:"deprecated" yaml:"deprecated"`
	DeprecationDate *time.Time `json:"deprecationDate,omitempty" yaml:"deprecationDate,omitempty"`
	SunsetDate      *time.Time `json:"sunsetDate,omitempty" yaml:"sunsetDate,omitempty"`
}
