package testutil

import (
	"context"
	"invitebot/internal/models"
	"invitebot/internal/providers"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu         sync.Mutex
	Joins      map[string]int
	Commands   map[string]int
	RoleGrants map[string]int
	Fetches    int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Joins:      make(map[string]int),
		Commands:   make(map[string]int),
		RoleGrants: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) IncJoins(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Joins[result]++
}

func (m *MockMetrics) IncCommands(command, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands[command+":"+outcome]++
}

func (m *MockMetrics) IncRoleGrants(label, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoleGrants[label+":"+outcome]++
}

func (m *MockMetrics) ObserveInviteFetchDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches++
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// FakePlatform implements the invite directory, role manager and messenger
// with in-memory guild state and injectable failures.
type FakePlatform struct {
	mu       sync.Mutex
	Invites  map[string][]models.InviteRecord
	Roles    map[string][]models.Role
	Granted  []Grant
	Messages []Message

	ListErr  error
	RolesErr error
	AddErr   error
	SendErr  error
	ListHook func(guildID string)
}

type Grant struct {
	GuildID string
	UserID  string
	RoleID  string
}

type Message struct {
	ChannelID string
	Text      string
}

func NewFakePlatform() *FakePlatform {
	return &FakePlatform{
		Invites: make(map[string][]models.InviteRecord),
		Roles:   make(map[string][]models.Role),
	}
}

// SetInvites replaces the guild's invite list.
func (f *FakePlatform) SetInvites(guildID string, records ...models.InviteRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Invites[guildID] = append([]models.InviteRecord(nil), records...)
}

// Use bumps the use count of an invite, as a join through it would.
func (f *FakePlatform) Use(guildID, code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.Invites[guildID] {
		if r.Code == code {
			f.Invites[guildID][i].Uses++
		}
	}
}

func (f *FakePlatform) ListInvites(ctx context.Context, guildID string) ([]models.InviteRecord, error) {
	if f.ListHook != nil {
		f.ListHook(guildID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.InviteRecord(nil), f.Invites[guildID]...), nil
}

func (f *FakePlatform) GuildRoles(_ context.Context, guildID string) ([]models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RolesErr != nil {
		return nil, f.RolesErr
	}
	return append([]models.Role(nil), f.Roles[guildID]...), nil
}

func (f *FakePlatform) AddRole(_ context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddErr != nil {
		return f.AddErr
	}
	f.Granted = append(f.Granted, Grant{GuildID: guildID, UserID: userID, RoleID: roleID})
	return nil
}

func (f *FakePlatform) Send(_ context.Context, channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return f.SendErr
	}
	f.Messages = append(f.Messages, Message{ChannelID: channelID, Text: text})
	return nil
}

// LastMessage returns the text of the most recent message sent.
func (f *FakePlatform) LastMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Messages) == 0 {
		return ""
	}
	return f.Messages[len(f.Messages)-1].Text
}

// MessageLines splits the last message into its lines.
func (f *FakePlatform) MessageLines() []string {
	return strings.Split(strings.TrimSuffix(f.LastMessage(), "\n"), "\n")
}
