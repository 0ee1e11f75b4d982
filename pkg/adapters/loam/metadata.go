package loam

import (
	"strings"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// GraphMetadata is the header of a graph document stored in Loam.
// In Markdown documents it is the frontmatter and the body becomes the description.
// In JSON and YAML documents it is the whole file.
type GraphMetadata struct {
	Name        string            `json:"name" mapstructure:"name"`
	Description string            `json:"description" mapstructure:"description"`
	Nodes       []domain.NodeSpec `json:"nodes" mapstructure:"nodes"`
	Links       []domain.LinkSpec `json:"links" mapstructure:"links"`
}

// document converts the metadata of the Loam document id into a graph document.
func (m GraphMetadata) document(id, content string) *domain.GraphDocument {
	name := m.Name
	if name == "" {
		name = trimExtension(id)
	}
	desc := m.Description
	if desc == "" {
		desc = strings.TrimSpace(content)
	}
	return &domain.GraphDocument{
		Name:        name,
		Description: desc,
		Nodes:       m.Nodes,
		Links:       m.Links,
	}
}
