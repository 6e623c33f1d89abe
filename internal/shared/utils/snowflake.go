package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// 2024-01-01 00:00:00 UTC in milliseconds
	snowflakeEpochMilli int64 = 1704067200000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	maxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift uint8 = seqBits
	timeShift uint8 = nodeBits + seqBits
)

type Snowflake struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range: %d", nodeID)
	}
	return &Snowflake{nodeID: nodeID}, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := time.Now().UnixMilli()
	if ts < s.lastTS {
		// Never step back on clock regression.
		ts = s.lastTS
	}

	if ts == s.lastTS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			ts = waitNextMillisecond(s.lastTS)
		}
	} else {
		s.seq = 0
	}

	s.lastTS = ts
	return ((ts - snowflakeEpochMilli) << timeShift) | (s.nodeID << nodeShift) | s.seq
}

func waitNextMillisecond(lastTS int64) int64 {
	ts := time.Now().UnixMilli()
	for ts <= lastTS {
		ts = time.Now().UnixMilli()
	}
	return ts
}

var (
	defaultMu        sync.Mutex
	defaultSnowflake *Snowflake
)

// ConfigureNode replaces the process generator. nodeID <= 0 falls back to
// SNOWFLAKE_NODE_ID, then 1.
func ConfigureNode(nodeID int64) error {
	if nodeID <= 0 {
		var err error
		if nodeID, err = nodeIDFromEnv(); err != nil {
			return err
		}
	}
	gen, err := NewSnowflake(nodeID)
	if err != nil {
		return err
	}
	defaultMu.Lock()
	defaultSnowflake = gen
	defaultMu.Unlock()
	return nil
}

func nodeIDFromEnv() (int64, error) {
	raw := strings.TrimSpace(os.Getenv("SNOWFLAKE_NODE_ID"))
	if raw == "" {
		return 1, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid SNOWFLAKE_NODE_ID: %w", err)
	}
	return parsed, nil
}

func DefaultSnowflake() (*Snowflake, error) {
	defaultMu.Lock()
	gen := defaultSnowflake
	defaultMu.Unlock()
	if gen != nil {
		return gen, nil
	}
	if err := ConfigureNode(0); err != nil {
		return nil, err
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultSnowflake, nil
}

func NextSnowflakeID() (int64, error) {
	gen, err := DefaultSnowflake()
	if err != nil {
		return 0, err
	}
	if gen == nil {
		return 0, errors.New("snowflake generator is nil")
	}
	return gen.NextID(), nil
}

// NextID returns prefix + "_" + a base36 snowflake, e.g. "tree_1x3k9...".
func NextID(prefix string) (string, error) {
	id, err := NextSnowflakeID()
	if err != nil {
		return "", err
	}
	return prefix + "_" + strconv.FormatInt(id, 36), nil
}
