package session

import "golang.org/x/exp/slices"

type participant struct {
	id   string
	name string
}

// Registry 在线学生，按连接标识保存昵称，保持注册顺序
type Registry struct {
	entries []participant
	index   map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register 写入或覆盖 id 的昵称，覆盖时保留原有位置
func (r *Registry) Register(id, name string) {
	if i, ok := r.index[id]; ok {
		r.entries[i].name = name
		return
	}
	r.index[id] = len(r.entries)
	r.entries = append(r.entries, participant{id: id, name: name})
}

// Remove 删除 id，不存在时什么也不做
func (r *Registry) Remove(id string) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	delete(r.index, id)
	for j := i; j < len(r.entries); j++ {
		r.index[r.entries[j].id] = j
	}
	return true
}

func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Registry) Count() int { return len(r.entries) }

// Names 当前所有昵称的快照
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, p := range r.entries {
		names = append(names, p.name)
	}
	return names
}

// First 返回最早注册且昵称为 name 的连接标识
func (r *Registry) First(name string) (string, bool) {
	i := slices.IndexFunc(r.entries, func(p participant) bool { return p.name == name })
	if i < 0 {
		return "", false
	}
	return r.entries[i].id, true
}
