package types

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrBackwardTransition = errors.New("backward status transition")
)

type NodeStatus string

const (
	StatusLocked    NodeStatus = "locked"
	StatusUnlocked  NodeStatus = "unlocked"
	StatusActive    NodeStatus = "active"
	StatusCompleted NodeStatus = "completed"
)

func ParseNodeStatus(s string) (NodeStatus, error) {
	switch NodeStatus(s) {
	case StatusLocked, StatusUnlocked, StatusActive, StatusCompleted:
		return NodeStatus(s), nil
	}
	return "", fmt.Errorf("unknown node status %q", s)
}

// rank orders statuses along the only legal direction:
// locked -> unlocked -> active -> completed.
func (s NodeStatus) rank() int {
	switch s {
	case StatusLocked:
		return 0
	case StatusUnlocked:
		return 1
	case StatusActive:
		return 2
	case StatusCompleted:
		return 3
	}
	return -1
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one topic of a roadmap. IDs are unique within their roadmap only.
type Node struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Description string     `json:"description,omitempty"`
	Status      NodeStatus `json:"status"`
	ChatHistory []Message  `json:"chat_history,omitempty"`
	SummaryHTML string     `json:"summary_html,omitempty"`
	Position    Position   `json:"position"`
}

// Edge is a unidirectional "completing source unlocks target" dependency.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Animated bool   `json:"animated,omitempty"`
}

// Graph is the live working copy of a roadmap's nodes and edges.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

func (g *Graph) findNode(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

func (g *Graph) GetNode(id string) (Node, error) {
	n := g.findNode(id)
	if n == nil {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return *n, nil
}

// SetStatus moves a node forward along the status progression. Backward
// transitions are rejected; setting the current status again is a no-op.
// When a node completes, every direct edge target still locked is promoted
// to unlocked. Propagation is one hop only, it never cascades.
func (g *Graph) SetStatus(nodeID string, status NodeStatus) error {
	if status.rank() < 0 {
		return fmt.Errorf("unknown node status %q", status)
	}
	node := g.findNode(nodeID)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	if status.rank() < node.Status.rank() {
		return fmt.Errorf("%w: %s %s -> %s", ErrBackwardTransition, nodeID, node.Status, status)
	}
	node.Status = status

	if status != StatusCompleted {
		return nil
	}
	for _, e := range g.Edges {
		if e.Source != nodeID {
			continue
		}
		if target := g.findNode(e.Target); target != nil && target.Status == StatusLocked {
			target.Status = StatusUnlocked
		}
	}
	return nil
}

// SetChatHistory replaces the node transcript wholesale. Callers always pass
// the full accumulated history, never deltas.
func (g *Graph) SetChatHistory(nodeID string, messages []Message) error {
	node := g.findNode(nodeID)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	node.ChatHistory = messages
	return nil
}

func (g *Graph) SetSummary(nodeID string, html string) error {
	node := g.findNode(nodeID)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	node.SummaryHTML = html
	return nil
}

func (g *Graph) CompletedNodes() []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Status == StatusCompleted {
			out = append(out, n)
		}
	}
	return out
}

// Progress is the derived completion percentage, 0 for an empty graph.
func (g *Graph) Progress() int {
	total := len(g.Nodes)
	if total == 0 {
		return 0
	}
	completed := len(g.CompletedNodes())
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Validate enforces the creation contract shared by the AI generator and the
// static templates: node IDs unique, edges pointing at real nodes, and exactly
// one entry node unlocked with every other node locked.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return errors.New("graph has no nodes")
	}
	seen := make(map[string]bool, len(g.Nodes))
	unlocked := 0
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.New("node with empty id")
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		switch n.Status {
		case StatusUnlocked:
			unlocked++
		case StatusLocked:
		default:
			return fmt.Errorf("node %q created with status %q", n.ID, n.Status)
		}
	}
	if unlocked != 1 {
		return fmt.Errorf("expected exactly one unlocked node, got %d", unlocked)
	}
	for _, e := range g.Edges {
		if !seen[e.Source] {
			return fmt.Errorf("edge %q references unknown source %q", e.ID, e.Source)
		}
		if !seen[e.Target] {
			return fmt.Errorf("edge %q references unknown target %q", e.ID, e.Target)
		}
	}
	return nil
}
