package scenegraph

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNodeNotFound marks lookups for nodes absent from the scene.
var ErrNodeNotFound = errors.New("node not found")

// ErrParameterNotSet marks parameter reads for unset parameters.
var ErrParameterNotSet = errors.New("parameter not set")

// Scene is an exported scene document: the saved scene file plus its nodes.
type Scene struct {
	Path  string `yaml:"scene"`
	Nodes []Node `yaml:"nodes"`
}

// Node is one node in the scene graph with its string parameters.
type Node struct {
	Name       string            `yaml:"name"`
	Type       string            `yaml:"type"`
	Parameters map[string]string `yaml:"parameters"`
}

// Load reads and validates a scene document.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene document: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scene document from YAML.
func Parse(data []byte) (*Scene, error) {
	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("parse scene document: %w", err)
	}
	if err := scene.validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

func (s *Scene) validate() error {
	seen := make(map[string]struct{}, len(s.Nodes))
	for i, node := range s.Nodes {
		name := strings.TrimSpace(node.Name)
		if name == "" {
			return fmt.Errorf("scene node %d has no name", i)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("scene contains duplicate node %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Saved reports whether the scene has been saved to disk.
func (s *Scene) Saved() bool {
	return strings.TrimSpace(s.Path) != ""
}

// Node returns the named node.
func (s *Scene) Node(name string) (Node, error) {
	for _, node := range s.Nodes {
		if node.Name == name {
			return node, nil
		}
	}
	return Node{}, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
}

// NodesOfType returns all nodes with the given type, in document order.
func (s *Scene) NodesOfType(nodeType string) []Node {
	var nodes []Node
	for _, node := range s.Nodes {
		if node.Type == nodeType {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// Parameter returns the named parameter value. Unset or blank parameters are
// an error carrying ErrParameterNotSet.
func (n Node) Parameter(name string) (string, error) {
	value, ok := n.Parameters[name]
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: node %q parameter %q", ErrParameterNotSet, n.Name, name)
	}
	return value, nil
}
