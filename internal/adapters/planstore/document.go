package planstore

import (
	"bytes"
	"encoding/json"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
)

// document is the on-disk layout of the resolve file. Field order is the key order.
type document struct {
	GeneratedAt          string          `json:"generated_at"`
	SourceFolder         string          `json:"packages_src_folder"`
	InstallFolder        string          `json:"packages_install_folder"`
	BuildFolder          string          `json:"packages_build_folder"`
	EnvironmentVariables []domain.EnvVar `json:"environment_variables"`
	InstallOrder         []string        `json:"install_order"`
	Packages             orderedPackages `json:"packages"`
}

// loadDocument mirrors document for decoding; nil fields were absent or null.
type loadDocument struct {
	GeneratedAt          string                             `json:"generated_at"`
	SourceFolder         string                             `json:"packages_src_folder"`
	InstallFolder        string                             `json:"packages_install_folder"`
	BuildFolder          string                             `json:"packages_build_folder"`
	EnvironmentVariables []domain.EnvVar                    `json:"environment_variables"`
	InstallOrder         []string                           `json:"install_order"`
	Packages             map[string]*domain.ResolvedPackage `json:"packages"`
}

// orderedPackages marshals the package map with keys in install order.
type orderedPackages struct {
	order  []string
	byName map[string]*domain.ResolvedPackage
}

// MarshalJSON implements json.Marshaler.
func (o orderedPackages) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range o.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := marshal(o.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal encodes v without HTML escaping so shell operators stay readable.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
