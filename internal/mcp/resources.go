// ABOUTME: MCP resource definitions
// ABOUTME: Provides read-only views of layers and saved features

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/geoedit/internal/geojson"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	layersURI   = "geoedit://layers"
	featuresURI = "geoedit://features"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        layersURI,
		Description: "All layers with their geometry kind and feature counts",
		URI:         layersURI,
		MIMEType:    "application/json",
	}, s.handleLayersResource)

	s.mcp.AddResource(&mcp.Resource{
		Name:        featuresURI,
		Description: "Every saved feature as a GeoJSON FeatureCollection",
		URI:         featuresURI,
		MIMEType:    "application/geo+json",
	}, s.handleFeaturesResource)
}

func (s *Server) handleLayersResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	output, err := s.listLayers()
	if err != nil {
		return nil, err
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      layersURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}

func (s *Server) handleFeaturesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	features, err := s.repo.ListAllFeatures()
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}

	names, err := s.layerNames()
	if err != nil {
		return nil, err
	}
	fc := geojson.FromFeatures(features, func(id string) string { return names[id] })

	data, err := fc.ToJSONIndent()
	if err != nil {
		return nil, fmt.Errorf("failed to encode geojson: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      featuresURI,
				MIMEType: "application/geo+json",
				Text:     string(data),
			},
		},
	}, nil
}

// layerNames maps layer IDs to names.
func (s *Server) layerNames() (map[string]string, error) {
	layers, err := s.repo.ListLayers()
	if err != nil {
		return nil, fmt.Errorf("failed to list layers: %w", err)
	}
	names := make(map[string]string, len(layers))
	for _, l := range layers {
		names[l.ID.String()] = l.Name
	}
	return names, nil
}
