// Package flow is the chatbot: a finite-state machine over a node
// graph loaded from a JSON config file, with a keyword override that
// can jump state before the graph is consulted.
package flow

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"therapist-discovery-backend/internal/database"
	"therapist-discovery-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

var lock = &sync.RWMutex{}
var graph *Graph

// Option is one choice a node offers. The engine only enumerates
// options; what a label means is the frontend's business.
type Option struct {
	Label string `json:"label"`
	Next  string `json:"next"`
}

type Node struct {
	Message string   `json:"message"`
	Options []Option `json:"options"`
}

// Graph maps state names to nodes. Loaded once per process and only
// replaced wholesale by UpdateGraph.
type Graph struct {
	Nodes map[string]*Node
}

func InitGraph(path string) *Graph {
	if graph == nil {
		lock.Lock()
		defer lock.Unlock()
		if graph == nil {
			graph = loadGraph(path)
		} else {
			logger.Warning("Flow graph already created")
		}
	} else {
		logger.Warning("Flow graph already created")
	}
	return graph
}

// UpdateGraph swaps in a freshly parsed graph. On any failure the
// previous graph stays in place.
func (g *Graph) UpdateGraph(path string) error {
	next, err := parseGraph(path)
	if err != nil {
		return err
	}
	lock.Lock()
	g.Nodes = next.Nodes
	lock.Unlock()
	return nil
}

// loadGraph treats a missing or start-less flow file as a supported
// deployment state and falls back to the built-in graph. A present but
// malformed file is fatal, same as any other broken config.
func loadGraph(path string) *Graph {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warning("Flow config not found, using the default graph")
		return defaultGraph()
	}

	g, err := decodeGraph(data)
	if err != nil {
		logger.Crit("Error while decoding flow config!", err)
	}
	if err := g.check(); err != nil {
		logger.Warning("Flow config rejected, using the default graph:", err)
		return defaultGraph()
	}
	return g
}

func parseGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := decodeGraph(data)
	if err != nil {
		return nil, err
	}
	return g, g.check()
}

func decodeGraph(data []byte) (*Graph, error) {
	nodes := map[string]*Node{}
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, err
	}
	return &Graph{Nodes: nodes}, nil
}

func (g *Graph) check() error {
	if _, ok := g.Nodes[database.START]; !ok {
		return fmt.Errorf("flow graph has no %q node", database.START)
	}
	return nil
}

func defaultGraph() *Graph {
	return &Graph{Nodes: map[string]*Node{
		database.START: {
			Message: "Hello! I'm currently under construction. Please use the Directory and Community tabs for now.",
			Options: []Option{},
		},
	}}
}

func InjectGraph(key string, g *Graph) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, g)
	}
}
