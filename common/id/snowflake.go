package id

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
// The server and the compaction worker must use different node IDs.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new time-ordered int64 ID for threads and sessions.
func New() int64 {
	return node.Generate().Int64()
}

// Parse reads an ID sent by a client as a decimal string.
// JSON clients cannot hold snowflake IDs as numbers without losing precision.
func Parse(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
