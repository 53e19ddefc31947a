package selection

import "slices"

// Set 记录被勾选的行，保持勾选的先后顺序
type Set[K comparable] struct {
	ids []K
}

func (s *Set[K]) Contains(id K) bool {
	return slices.Contains(s.ids, id)
}

// Toggle 勾选或取消勾选一行，返回操作后是否被勾选
func (s *Set[K]) Toggle(id K) bool {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// ToggleAll 是全有或全无的操作：已经全选时清空，否则选中 all 中的每一项
func (s *Set[K]) ToggleAll(all []K) {
	if len(s.ids) == len(all) {
		s.Clear()
		return
	}
	s.ids = append([]K{}, all...)
}

// AllSelected 对应表头复选框的状态
func (s *Set[K]) AllSelected(total int) bool {
	return total > 0 && len(s.ids) == total
}

func (s *Set[K]) Clear() {
	s.ids = nil
}

func (s *Set[K]) Len() int {
	return len(s.ids)
}

func (s *Set[K]) IDs() []K {
	return append([]K{}, s.ids...)
}

// Retain 去掉已经不在集合中的行
func (s *Set[K]) Retain(keep func(K) bool) {
	s.ids = slices.DeleteFunc(s.ids, func(id K) bool { return !keep(id) })
}

func FromIDs[K comparable](ids []K) Set[K] {
	return Set[K]{ids: append([]K{}, ids...)}
}
