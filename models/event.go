package models

import "time"

// Record 表示宿主分发器推送的一条日志事件
type Record struct {
	// Level is the severity the record was emitted at
	Level Level `json:"level"`

	// Node names the logical node the record originated on. Empty means the
	// local node. Records from foreign nodes are not relayed.
	Node string `json:"node,omitempty"`

	// Source is the module or subsystem that emitted the record
	Source string `json:"source,omitempty"`

	// Message is the raw log message before formatting
	Message string `json:"message"`

	// Timestamp is the time the record was emitted
	Timestamp time.Time `json:"timestamp"`

	// Metadata carries the emitter-supplied key-value context
	Metadata Metadata `json:"metadata,omitempty"`
}

// Flush is the control token asking a destination to flush whatever it has
// buffered. The sink forwards the token itself, so consumers can tell it
// apart from deliveries by type.
type Flush struct{}

// Delivery 是最终投递到目标邮箱的消息
type Delivery struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  Metadata  `json:"metadata,omitempty"`
}
