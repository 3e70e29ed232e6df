// Package persistence stores workspace slices as versioned JSON envelopes on
// top of a key/value Storage.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"reflect"
	"time"
)

// Version is written into every envelope. Entries carrying any other version
// are discarded on load unless a migration is registered for it.
const Version = "1.0.0"

const (
	KeyTasks            = "productivity-hub-tasks"
	KeyProjects         = "productivity-hub-projects"
	KeyMeetings         = "productivity-hub-meetings"
	KeyMeetingTemplates = "productivity-hub-meeting-templates"
	KeyPomodoroSessions = "productivity-hub-pomodoro-sessions"
	KeyChat             = "productivity-hub-chat"
)

// Keys lists every key owned by a workspace.
var Keys = []string{
	KeyTasks,
	KeyProjects,
	KeyMeetings,
	KeyMeetingTemplates,
	KeyPomodoroSessions,
	KeyChat,
}

const DefaultQuotaKB = 5 * 1024

// Storage is the medium behind a Manager. Get reports found=false for absent
// keys.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Version   string          `json:"version"`
}

// migration upgrades the data of an older envelope to the current layout.
type migration func(data json.RawMessage) (json.RawMessage, error)

// migrations is keyed by the version being upgraded from.
var migrations = map[string]migration{}

type UsageInfo struct {
	Used      int `json:"used"`
	Available int `json:"available"`
}

type Manager struct {
	storage Storage
	quotaKB int
	now     func() time.Time
}

func NewManager(storage Storage, quotaKB int) *Manager {
	if quotaKB <= 0 {
		quotaKB = DefaultQuotaKB
	}
	return &Manager{storage: storage, quotaKB: quotaKB, now: time.Now}
}

// Save writes value under key. Failures are logged and reported through the
// return value only.
func (m *Manager) Save(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("persistence: marshal %s: %v", key, err)
		return false
	}
	raw, err := json.Marshal(envelope{Data: data, Timestamp: m.now().UnixMilli(), Version: Version})
	if err != nil {
		log.Printf("persistence: marshal envelope %s: %v", key, err)
		return false
	}
	if err := m.storage.Set(ctx, key, string(raw)); err != nil {
		log.Printf("persistence: save %s: %v", key, err)
		return false
	}
	return true
}

// Load decodes the value stored under key into dst. Values under date fields
// are normalized to RFC 3339 before decoding so that time.Time fields accept
// both calendar dates and full timestamps.
func (m *Manager) Load(ctx context.Context, key string, dst any) bool {
	data, ok := m.read(ctx, key)
	if !ok {
		return false
	}
	tree, err := decodeTree(data)
	if err != nil {
		log.Printf("persistence: decode %s: %v", key, err)
		return false
	}
	normalized, err := json.Marshal(revive(tree, "", false))
	if err != nil {
		log.Printf("persistence: encode %s: %v", key, err)
		return false
	}
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		log.Printf("persistence: load %s: destination must be a non-nil pointer", key)
		return false
	}
	// Decode into a fresh value so a failure leaves dst untouched.
	decoded := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(normalized, decoded.Interface()); err != nil {
		log.Printf("persistence: load %s: %v", key, err)
		return false
	}
	target.Elem().Set(decoded.Elem())
	return true
}

// LoadTree returns the stored value as a generic tree in which every date
// field and every ISO-looking string has been turned into a time.Time.
func (m *Manager) LoadTree(ctx context.Context, key string) (any, bool) {
	data, ok := m.read(ctx, key)
	if !ok {
		return nil, false
	}
	tree, err := decodeTree(data)
	if err != nil {
		log.Printf("persistence: decode %s: %v", key, err)
		return nil, false
	}
	return revive(tree, "", true), true
}

func (m *Manager) read(ctx context.Context, key string) (json.RawMessage, bool) {
	raw, found, err := m.storage.Get(ctx, key)
	if err != nil {
		log.Printf("persistence: read %s: %v", key, err)
		return nil, false
	}
	if !found || raw == "" {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Printf("persistence: parse %s: %v", key, err)
		return nil, false
	}

	if env.Version != Version {
		upgrade, ok := migrations[env.Version]
		if !ok {
			log.Printf("persistence: incompatible version %q for %s, discarding", env.Version, key)
			m.Clear(ctx, key)
			return nil, false
		}
		data, err := upgrade(env.Data)
		if err != nil {
			log.Printf("persistence: migrate %s from %s: %v", key, env.Version, err)
			m.Clear(ctx, key)
			return nil, false
		}
		env.Data = data
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, false
	}
	return env.Data, true
}

func (m *Manager) Clear(ctx context.Context, key string) {
	if err := m.storage.Remove(ctx, key); err != nil {
		log.Printf("persistence: remove %s: %v", key, err)
	}
}

// ClearAll removes every workspace key.
func (m *Manager) ClearAll(ctx context.Context) {
	for _, key := range Keys {
		m.Clear(ctx, key)
	}
}

// UsageInfo reports the stored size and remaining quota in KB. It is best
// effort and reports zeros when the storage cannot be listed.
func (m *Manager) UsageInfo(ctx context.Context) UsageInfo {
	keys, err := m.storage.Keys(ctx)
	if err != nil {
		log.Printf("persistence: usage: %v", err)
		return UsageInfo{}
	}

	used := 0
	for _, key := range keys {
		raw, found, err := m.storage.Get(ctx, key)
		if err != nil {
			log.Printf("persistence: usage %s: %v", key, err)
			return UsageInfo{}
		}
		if found {
			used += len(raw)
		}
	}

	quota := m.quotaKB * 1024
	return UsageInfo{
		Used:      int(math.Round(float64(used) / 1024)),
		Available: int(math.Round(float64(quota-used) / 1024)),
	}
}

func decodeTree(data json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return tree, nil
}
