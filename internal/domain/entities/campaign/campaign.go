// Package campaign defines the assembled marketing-campaign entities.
package campaign

import "time"

// NodeType identifies the kind of a campaign flow node.
type NodeType string

const (
	NodeStart           NodeType = "START"
	NodeSegment         NodeType = "SEGMENT"
	NodeStrategy        NodeType = "STRATEGY"
	NodeEmailTemplate   NodeType = "EMAIL_TEMPLATE"
	NodeCondition       NodeType = "CONDITION"
	NodeCustomerJourney NodeType = "CUSTOMER_JOURNEY"
	NodeEnd             NodeType = "END"
)

// NodeStatus is the readiness state of a campaign node.
type NodeStatus string

const (
	NodeStatusDraft NodeStatus = "DRAFT"
	NodeStatusReady NodeStatus = "READY"
)

// Status is the lifecycle state of an assembled campaign.
type Status string

const (
	StatusDraft Status = "DRAFT"
	StatusReady Status = "READY"
)

// Node is one configured step in the campaign flow. Data carries the
// recommendation map for the node kind.
type Node struct {
	ID        string         `json:"id"`
	Type      NodeType       `json:"type"`
	Name      string         `json:"name"`
	Status    NodeStatus     `json:"status"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Connection is a directed edge between two campaign nodes.
type Connection struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// Campaign is a fully assembled marketing campaign definition built from
// confirmed dialogue parameters and generated node recommendations.
type Campaign struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	Name           string       `json:"name"`
	Type           string       `json:"type,omitempty"`
	TargetAudience string       `json:"targetAudience,omitempty"`
	Budget         float64      `json:"budget"`
	Duration       string       `json:"duration,omitempty"`
	Status         Status       `json:"status"`
	Nodes          []Node       `json:"nodes"`
	Connections    []Connection `json:"connections"`
	CreatedAt      time.Time    `json:"createdAt"`
	ChangedAt      time.Time    `json:"changedAt"`
}
