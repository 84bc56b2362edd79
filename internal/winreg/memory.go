package winreg

import (
	"strings"
	"sync"
)

// Memory is an in-process Registry. Key paths compare case-insensitively,
// as they do in Windows.
type Memory struct {
	mu   sync.RWMutex
	keys map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{keys: make(map[string]map[string]string)}
}

func norm(path string) string {
	return strings.ToLower(strings.Trim(path, `\`))
}

func (m *Memory) GetString(path, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vals, ok := m.keys[norm(path)]
	if !ok {
		return "", ErrNotExist
	}
	v, ok := vals[strings.ToLower(name)]
	if !ok {
		return "", ErrNotExist
	}
	return v, nil
}

func (m *Memory) SetString(path, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := norm(path)
	if m.keys[p] == nil {
		m.keys[p] = make(map[string]string)
	}
	m.keys[p][strings.ToLower(name)] = value
	return nil
}

func (m *Memory) DeleteTree(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := norm(path)
	found := false
	for k := range m.keys {
		if k == p || strings.HasPrefix(k, p+`\`) {
			delete(m.keys, k)
			found = true
		}
	}
	if !found {
		return ErrNotExist
	}
	return nil
}
